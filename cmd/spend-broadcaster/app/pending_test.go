package app

import (
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
	"github.com/bitcoin-sv/spend-broadcaster/internal/testdata"
)

func TestGetPendingTable(t *testing.T) {
	// given
	txs := []*store.SpendTx{
		{TxID: testdata.TX1Hash, RawTx: testdata.TX1Raw, CreatedAt: testdata.Time},
		{TxID: testdata.TX2Hash, RawTx: testdata.TX2Raw, CreatedAt: testdata.Time.Add(time.Minute)},
		{TxID: testdata.TX3Hash, RawTx: testdata.TX1Raw, CreatedAt: testdata.Time.Add(2 * time.Minute)},
		{TxID: testdata.TX3Hash, RawTx: []byte{0x01, 0x02}, CreatedAt: testdata.Time.Add(3 * time.Minute)},
	}

	// when
	rendered := getPendingTable(table.NewWriter(), txs).Render()

	// then
	lines := strings.Split(rendered, "\n")

	expectedRows := [][]string{
		{testdata.TX1, "2024-09-01T12:00:00Z", "111", "625235479", statusOK},
		{testdata.TX2, "2024-09-01T12:01:00Z", "192", "999", statusOK},
		{testdata.TX3, "2024-09-01T12:02:00Z", "111", "625235479", statusMismatch},
		{testdata.TX3, "2024-09-01T12:03:00Z", statusInvalid},
	}

	for _, expected := range expectedRows {
		found := false
		for _, line := range lines {
			if containsAll(line, expected) {
				found = true
				break
			}
		}
		require.Truef(t, found, "row %v not found in\n%s", expected, rendered)
	}

	require.Contains(t, rendered, "1250471957")
}

func TestGetPendingTableEmpty(t *testing.T) {
	// when
	rendered := getPendingTable(table.NewWriter(), nil).Render()

	// then
	require.Contains(t, strings.ToLower(rendered), "txid")
	require.NotContains(t, rendered, statusOK)
}

func containsAll(line string, values []string) bool {
	for _, v := range values {
		if !strings.Contains(line, v) {
			return false
		}
	}
	return true
}
