package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

func TestWriteKeyListing(t *testing.T) {
	keychain := NewKeychain([]KeyRecord{
		{ID: "bob", Secret: []byte("bob-secret"), Mnemonic: testMnemonic},
		{ID: "alice", Secret: []byte("s3cr3t"), Mnemonic: testMnemonic},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteKeyListing(&buf, keychain))

	svmSigner, err := wallet.New(wallet.PlatformSVM, testMnemonic, "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	// Keys come out in sorted order, each followed by its addresses.
	assert.Equal(t, "alice", lines[0])
	assert.Equal(t, "  evm: "+testEVMAddress, lines[1])
	assert.Equal(t, "  svm: "+svmSigner.Address(), lines[2])
	assert.Equal(t, "bob", lines[3])
	assert.Equal(t, "  evm: "+testEVMAddress, lines[4])
	assert.Equal(t, "  svm: "+svmSigner.Address(), lines[5])

	// The listing must never leak key material.
	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.NotContains(t, buf.String(), "bob-secret")
	assert.NotContains(t, buf.String(), "abandon")
}

func TestWriteKeyListingBadMnemonic(t *testing.T) {
	keychain := NewKeychain([]KeyRecord{
		{ID: "broken", Secret: []byte("x"), Mnemonic: "definitely not a mnemonic"},
	})

	var buf bytes.Buffer
	err := WriteKeyListing(&buf, keychain)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "broken"`)
}
