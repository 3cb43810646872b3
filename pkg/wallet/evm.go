package wallet

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	bip39 "github.com/tyler-smith/go-bip39"
)

var _ Wallet = (*EVMWallet)(nil)

// EVMWallet signs for Ethereum-compatible chains with a secp256k1 key
// derived at the ethers default path m/44'/60'/0'/0/0.
type EVMWallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewEVMWallet derives an EVM wallet from the mnemonic and optional
// BIP-39 passphrase.
func NewEVMWallet(mnemonic, passphrase string) (*EVMWallet, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, signingErr(PlatformEVM, "derive", err)
	}
	defer zeroBytes(seed)

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, signingErr(PlatformEVM, "derive", err)
	}
	defer func() { key.Zero() }()

	// m/44'/60'/0'/0 plus account index 0.
	path := append(accounts.DefaultBaseDerivationPath, 0)
	for _, childIndex := range path {
		child, err := key.Derive(childIndex)
		if err != nil {
			return nil, signingErr(PlatformEVM, "derive", err)
		}
		key.Zero()
		key = child
	}

	btcPriv, err := key.ECPrivKey()
	if err != nil {
		return nil, signingErr(PlatformEVM, "derive", err)
	}
	privateKey := btcPriv.ToECDSA()

	return &EVMWallet{
		privateKey: privateKey,
		address:    ethcrypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Platform reports PlatformEVM.
func (w *EVMWallet) Platform() Platform { return PlatformEVM }

// Address returns the EIP-55 checksummed hex address.
func (w *EVMWallet) Address() string { return w.address.Hex() }

// SignTransaction decodes a canonical unsigned transaction (typed
// envelope or legacy RLP), signs it for the chain ID carried in the
// transaction itself, and returns the canonical signed encoding.
func (w *EVMWallet) SignTransaction(rawTx []byte) ([]byte, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(rawTx); err != nil {
		return nil, signingErr(PlatformEVM, "decode transaction", err)
	}

	signer := types.LatestSignerForChainID(tx.ChainId())
	signedTx, err := types.SignTx(tx, signer, w.privateKey)
	if err != nil {
		return nil, signingErr(PlatformEVM, "sign transaction", err)
	}

	signedBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, signingErr(PlatformEVM, "encode transaction", err)
	}
	return signedBytes, nil
}
