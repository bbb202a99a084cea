package node_client

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/bitcoinsv/bsvutil"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	sdkTx "github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
	"github.com/ordishs/go-bitcoin"
	"github.com/stretchr/testify/require"
)

type UnspentOutput struct {
	Txid          string
	Vout          uint32
	Address       string
	ScriptPubKey  string
	Amount        float64
	Confirmations int
}

func GetNewWalletAddress(t *testing.T, bitcoind *bitcoin.Bitcoind) (address, privateKey string) {
	t.Helper()

	address, err := bitcoind.GetNewAddress()
	require.NoError(t, err)

	privateKey, err = bitcoind.DumpPrivKey(address)
	require.NoError(t, err)

	// random suffix for account name
	token := make([]byte, 5)
	_, err = rand.Read(token)
	require.NoError(t, err)

	accountName := "test-account" + hex.EncodeToString(token)
	err = bitcoind.SetAccount(address, accountName)
	require.NoError(t, err)

	t.Logf("new address %s in account %s", address, accountName)

	return address, privateKey
}

func SendToAddress(t *testing.T, bitcoind *bitcoin.Bitcoind, address string, bsv float64) (txID string) {
	t.Helper()

	txID, err := bitcoind.SendToAddress(address, bsv)
	require.NoError(t, err)

	t.Logf("sent %f to %s: %s", bsv, address, txID)

	return txID
}

func Generate(t *testing.T, bitcoind *bitcoin.Bitcoind, amount uint64) string {
	t.Helper()

	hashes, err := bitcoind.Generate(float64(amount))
	require.NoError(t, err)
	require.NotEmpty(t, hashes)

	t.Logf("generated %d block(s): last block hash: %s", amount, hashes[len(hashes)-1])

	return hashes[len(hashes)-1]
}

func GetUtxos(t *testing.T, bitcoind *bitcoin.Bitcoind, address string) []UnspentOutput {
	t.Helper()

	data, err := bitcoind.ListUnspent([]string{address})
	require.NoError(t, err)

	result := make([]UnspentOutput, len(data))

	for index, utxo := range data {
		result[index] = UnspentOutput{
			Txid:          utxo.TXID,
			Vout:          utxo.Vout,
			Address:       utxo.Address,
			ScriptPubKey:  utxo.ScriptPubKey,
			Amount:        utxo.Amount,
			Confirmations: int(utxo.Confirmations),
		}
	}

	return result
}

// FundNewWallet creates a new address, sends coins to it and mines them.
func FundNewWallet(t *testing.T, bitcoind *bitcoin.Bitcoind) (addr, privKey string) {
	t.Helper()

	addr, privKey = GetNewWalletAddress(t, bitcoind)
	SendToAddress(t, bitcoind, addr, 0.001)
	Generate(t, bitcoind, 1)

	return addr, privKey
}

// CreateSpendTx spends utxo back to its own address, signed with the WIF encoded privateKey.
func CreateSpendTx(t *testing.T, privateKey string, utxo UnspentOutput, fee uint64) *sdkTx.Transaction {
	t.Helper()

	tx := sdkTx.NewTransaction()

	u, err := sdkTx.NewUTXO(utxo.Txid, utxo.Vout, utxo.ScriptPubKey, uint64(utxo.Amount*1e8))
	require.NoError(t, err, "failed creating UTXO")

	err = tx.AddInputsFromUTXOs(u)
	require.NoError(t, err, "failed adding input")

	amount, err := tx.TotalInputSatoshis()
	require.NoError(t, err)
	require.Greater(t, amount, fee, fmt.Sprintf("utxo of %d sats cannot pay fee of %d sats", amount, fee))

	err = tx.PayToAddress(utxo.Address, amount-fee)
	require.NoError(t, err)

	wif, err := bsvutil.DecodeWIF(privateKey)
	require.NoError(t, err)

	pk, _ := ec.PrivateKeyFromBytes(wif.PrivKey.Serialize())

	unlockingScriptTemplate, err := p2pkh.Unlock(pk, nil)
	require.NoError(t, err)

	for _, input := range tx.Inputs {
		input.UnlockingScriptTemplate = unlockingScriptTemplate
	}

	err = tx.Sign()
	require.NoError(t, err)

	return tx
}
