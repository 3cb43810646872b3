package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

// WriteKeyListing prints every key id with its derived addresses, one
// line per platform. Secrets and mnemonics are never printed.
func WriteKeyListing(w io.Writer, keychain *Keychain) error {
	for _, id := range keychain.IDs() {
		record, _ := keychain.Get(id)
		fmt.Fprintf(w, "%s\n", id)
		for _, platform := range wallet.Platforms() {
			signer, err := wallet.New(platform, record.Mnemonic, record.Passphrase)
			if err != nil {
				return fmt.Errorf("derive %s address for key %q: %w", platform, id, err)
			}
			fmt.Fprintf(w, "  %s: %s\n", platform, signer.Address())
		}
	}
	return nil
}

// runKeysCli lists configured key ids and their derived addresses.
// Example: signer keys
func runKeysCli(logger log.Logger) {
	logger = logger.Named("keys")

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	source, err := NewKeychainSource(config)
	if err != nil {
		logger.Fatal("Failed to initialize keychain source", "error", err)
	}

	keychain, err := source.Load(context.Background())
	if err != nil {
		logger.Fatal("Failed to load keychain", "error", err)
	}

	if err := WriteKeyListing(os.Stdout, keychain); err != nil {
		logger.Fatal("Failed to list keys", "error", err)
	}
}
