package wallet

import (
	"crypto/ed25519"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	bip39 "github.com/tyler-smith/go-bip39"
)

var _ Wallet = (*SVMWallet)(nil)

// svmDerivationPath is m/44'/501'/0'/0', the common Solana wallet path.
var svmDerivationPath = []uint32{hardened(44), hardened(501), hardened(0), hardened(0)}

// SVMWallet signs for Solana-compatible chains with an ed25519 key
// derived via SLIP-0010.
type SVMWallet struct {
	privateKey ed25519.PrivateKey
	address    string
}

// NewSVMWallet derives an SVM wallet from the mnemonic and optional
// BIP-39 passphrase.
func NewSVMWallet(mnemonic, passphrase string) (*SVMWallet, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, signingErr(PlatformSVM, "derive", err)
	}
	defer zeroBytes(seed)

	keySeed, err := deriveEd25519Key(seed, svmDerivationPath)
	if err != nil {
		return nil, signingErr(PlatformSVM, "derive", err)
	}
	defer zeroBytes(keySeed)

	privateKey := ed25519.NewKeyFromSeed(keySeed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return &SVMWallet{
		privateKey: privateKey,
		address:    base58.Encode(publicKey),
	}, nil
}

// Platform reports PlatformSVM.
func (w *SVMWallet) Platform() Platform { return PlatformSVM }

// Address returns the base58-encoded ed25519 public key.
func (w *SVMWallet) Address() string { return w.address }

// SignTransaction signs the message section of a serialized transaction
// (compact-u16 signature count, 64-byte signature slots, message bytes)
// and installs the signature in slot 0, preserving any other slots. A
// zero signature count is accepted and widened to a single-signature
// envelope.
func (w *SVMWallet) SignTransaction(rawTx []byte) ([]byte, error) {
	if len(rawTx) == 0 {
		return nil, signingErr(PlatformSVM, "decode transaction", errors.New("empty transaction"))
	}

	sigCount, offset, err := decodeCompactU16(rawTx)
	if err != nil {
		return nil, signingErr(PlatformSVM, "decode transaction", err)
	}

	sigSectionLen := int(sigCount) * ed25519.SignatureSize
	if len(rawTx) < offset+sigSectionLen {
		return nil, signingErr(PlatformSVM, "decode transaction", errors.New("transaction shorter than its signature table"))
	}
	message := rawTx[offset+sigSectionLen:]

	signature := ed25519.Sign(w.privateKey, message)

	count := sigCount
	if count == 0 {
		count = 1
	}

	signed := appendCompactU16(make([]byte, 0, 3+int(count)*ed25519.SignatureSize+len(message)), count)
	signed = append(signed, signature...)
	if sigCount > 1 {
		// Slots 1..n-1 are other parties' signatures; keep them.
		signed = append(signed, rawTx[offset+ed25519.SignatureSize:offset+sigSectionLen]...)
	}
	return append(signed, message...), nil
}
