package wallet

import (
	"fmt"
	"strings"
)

// Platform identifies a supported blockchain family.
type Platform string

const (
	// PlatformEVM covers Ethereum and EVM-compatible chains (secp256k1).
	PlatformEVM Platform = "evm"
	// PlatformSVM covers Solana and SVM-compatible chains (ed25519).
	PlatformSVM Platform = "svm"
)

// String returns the platform identifier as used in request paths.
func (p Platform) String() string { return string(p) }

// Platforms returns every supported platform.
func Platforms() []Platform {
	return []Platform{PlatformEVM, PlatformSVM}
}

// ParsePlatform converts a request path segment into a Platform.
// Matching is case-insensitive; an unrecognized value yields an
// UnknownPlatformError.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(s)) {
	case PlatformEVM:
		return PlatformEVM, nil
	case PlatformSVM:
		return PlatformSVM, nil
	default:
		return "", &UnknownPlatformError{Value: s}
	}
}

// Wallet is a per-request signing capability derived from a mnemonic.
// Implementations hold derived key material, so instances must not be
// cached or shared across requests.
type Wallet interface {
	// Platform reports which blockchain family the wallet serves.
	Platform() Platform
	// Address returns the wallet's address in the platform's canonical
	// text form.
	Address() string
	// SignTransaction signs a raw serialized transaction and returns
	// the serialized signed transaction.
	SignTransaction(rawTx []byte) ([]byte, error)
}

// New derives a fresh wallet for the given platform from the mnemonic
// and optional passphrase. The platform enumeration is closed; every
// variant is dispatched here.
func New(platform Platform, mnemonic, passphrase string) (Wallet, error) {
	switch platform {
	case PlatformEVM:
		return NewEVMWallet(mnemonic, passphrase)
	case PlatformSVM:
		return NewSVMWallet(mnemonic, passphrase)
	default:
		return nil, &UnknownPlatformError{Value: string(platform)}
	}
}

// UnknownPlatformError reports a platform identifier outside the
// supported enumeration.
type UnknownPlatformError struct {
	Value string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q", e.Value)
}

// SigningError reports a failure while deriving keys or signing a
// transaction for a specific platform.
type SigningError struct {
	Platform Platform
	Op       string
	Err      error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

func signingErr(platform Platform, op string, err error) error {
	return &SigningError{Platform: platform, Op: op, Err: err}
}

// zeroBytes wipes intermediate key material once it is no longer needed.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
