package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
)

// SLIP-0010 key derivation for the ed25519 curve.
//
// The master extended key is I = HMAC-SHA512("ed25519 seed", seed) with
// IL as the key and IR as the chain code; children are derived as
// I = HMAC-SHA512(chainCode, 0x00 || key || ser32(index)). The curve
// admits hardened children only.

const hardenedKeyStart = 0x80000000

var ed25519SeedKey = []byte("ed25519 seed")

// hardened marks a child index as hardened.
func hardened(i uint32) uint32 { return i + hardenedKeyStart }

// deriveEd25519Key walks the path from the master key and returns the
// 32-byte private key seed at the leaf. Every path element must carry
// the hardened offset.
func deriveEd25519Key(seed []byte, path []uint32) ([]byte, error) {
	mac := hmac.New(sha512.New, ed25519SeedKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, childIndex := range path {
		if childIndex < hardenedKeyStart {
			return nil, errors.New("ed25519 derivation supports hardened children only")
		}

		data := make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, childIndex)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		next := mac.Sum(nil)

		zeroBytes(data)
		zeroBytes(key)
		zeroBytes(chainCode)
		key, chainCode = next[:32], next[32:]
	}

	zeroBytes(chainCode)
	return key, nil
}
