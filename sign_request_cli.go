package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
)

// runSignRequestCli prints the X-SIG header value for a key and body.
// With no body file the signature covers zero bytes, matching a GET.
// Example: signer sign-request alice tx.bin
func runSignRequestCli(logger log.Logger) {
	logger = logger.Named("sign-request")
	if len(os.Args) < 3 || len(os.Args) > 4 {
		logger.Fatal("Usage: signer sign-request <key-id> [body-file]")
	}

	keyID := os.Args[2]

	var body []byte
	if len(os.Args) > 3 {
		var err error
		body, err = os.ReadFile(os.Args[3])
		if err != nil {
			logger.Fatal("Failed to read body file", "path", os.Args[3], "error", err)
		}
	}

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

	record, ok := keychain.Get(keyID)
	if !ok {
		logger.Fatal("Unknown key", "key", keyID)
	}

	fmt.Println(SignBody(record.Secret, body))
}
