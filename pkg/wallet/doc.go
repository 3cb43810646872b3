// Package wallet derives per-request signing capabilities from BIP-39
// mnemonics.
//
// A Wallet is constructed fresh for every request from a mnemonic and
// optional passphrase, used to derive an address or sign one raw
// transaction, and then discarded. Supported platforms form a closed
// enumeration:
//
//   - PlatformEVM: Ethereum-compatible chains. secp256k1 key at the
//     ethers default path m/44'/60'/0'/0/0, EIP-55 addresses, canonical
//     go-ethereum transaction encodings.
//   - PlatformSVM: Solana-compatible chains. ed25519 key at
//     m/44'/501'/0'/0' via SLIP-0010, base58 addresses, the compact-u16
//     signature envelope wire format.
//
// # Security Design
//
//   - Derived private keys never leave the package; a Wallet exposes
//     only its address and a transaction-signing operation.
//   - Nothing is cached: derivation cost is paid per request so key
//     material lives in memory only as long as one request.
//   - Intermediate seeds and extended keys are wiped as soon as the
//     leaf key has been extracted.
//
// Usage:
//
//	platform, err := wallet.ParsePlatform("evm")
//	if err != nil {
//	    // unknown platform identifier
//	}
//
//	w, err := wallet.New(platform, mnemonic, passphrase)
//	if err != nil {
//	    // bad mnemonic or derivation failure
//	}
//
//	fmt.Println("address:", w.Address())
//	signedTx, err := w.SignTransaction(rawTx)
package wallet
