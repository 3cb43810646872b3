package wallet_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

// TestEVMWalletAddress pins the derivation to the published vector for
// the reference mnemonic at m/44'/60'/0'/0/0 and checks determinism and
// passphrase sensitivity.
func TestEVMWalletAddress(t *testing.T) {
	w, err := wallet.NewEVMWallet(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", w.Address())

	again, err := wallet.NewEVMWallet(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, w.Address(), again.Address())

	withPassphrase, err := wallet.NewEVMWallet(testMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.NotEqual(t, w.Address(), withPassphrase.Address())
}

// TestEVMWalletInvalidMnemonic verifies mnemonic checksum validation
// surfaces as a SigningError.
func TestEVMWalletInvalidMnemonic(t *testing.T) {
	_, err := wallet.NewEVMWallet("definitely not a valid mnemonic sentence", "")
	require.Error(t, err)

	var signingErr *wallet.SigningError
	require.ErrorAs(t, err, &signingErr)
	assert.Equal(t, wallet.PlatformEVM, signingErr.Platform)
}

// TestEVMWalletSignTransaction round-trips an unsigned dynamic-fee
// transaction through signing and verifies the recovered sender matches
// the derived address.
func TestEVMWalletSignTransaction(t *testing.T) {
	w, err := wallet.NewEVMWallet(testMnemonic, "")
	require.NoError(t, err)

	chainID := big.NewInt(1)
	to := common.HexToAddress("0x7099797C51812dc3A010C7d01b50e0d17dc79C8a")
	unsigned := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     7,
		To:        &to,
		Value:     big.NewInt(1_000_000_000),
		Gas:       21000,
		GasFeeCap: big.NewInt(30_000_000_000),
		GasTipCap: big.NewInt(1_000_000_000),
	})
	rawTx, err := unsigned.MarshalBinary()
	require.NoError(t, err)

	signedBytes, err := w.SignTransaction(rawTx)
	require.NoError(t, err)

	signedTx := new(types.Transaction)
	require.NoError(t, signedTx.UnmarshalBinary(signedBytes))

	assert.Equal(t, uint64(7), signedTx.Nonce())
	assert.Equal(t, to, *signedTx.To())
	assert.Equal(t, chainID, signedTx.ChainId())

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signedTx)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), sender.Hex())
}

// TestEVMWalletSignTransactionGarbage verifies undecodable input is
// rejected with a SigningError instead of producing output.
func TestEVMWalletSignTransactionGarbage(t *testing.T) {
	w, err := wallet.NewEVMWallet(testMnemonic, "")
	require.NoError(t, err)

	_, err = w.SignTransaction([]byte("not a transaction"))
	require.Error(t, err)

	var signingErr *wallet.SigningError
	require.ErrorAs(t, err, &signingErr)
	assert.Equal(t, wallet.PlatformEVM, signingErr.Platform)
}
