package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bitcoinsv/bsvutil"
	sdkTx "github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store/postgresql"
)

const (
	statusOK       = "ok"
	statusInvalid  = "invalid raw tx"
	statusMismatch = "txid mismatch"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show spend transactions which are not broadcasted yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		spendStore, err := postgresql.New(cfg.Db.DBInfo(), 1, 1)
		if err != nil {
			return err
		}
		defer spendStore.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		txs, err := spendStore.GetPending(ctx)
		if err != nil {
			return err
		}

		t := getPendingTable(table.NewWriter(), txs)
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())

		return nil
	},
}

func getPendingTable(t table.Writer, txs []*store.SpendTx) table.Writer {
	t.AppendHeader(table.Row{"TxID", "Created at", "Size", "Outputs", "Satoshis", "Amount", "Status"})

	var totalSatoshis uint64
	for _, tx := range txs {
		row := table.Row{tx.TxID.String(), tx.CreatedAt.UTC().Format(time.RFC3339), strconv.Itoa(len(tx.RawTx))}

		decoded, err := sdkTx.NewTransactionFromBytes(tx.RawTx)
		if err != nil {
			t.AppendRow(append(row, "", "", "", statusInvalid))
			continue
		}

		satoshis := decoded.TotalOutputSatoshis()
		totalSatoshis += satoshis

		status := statusOK
		if !decoded.TxID().IsEqual(tx.TxID) {
			status = statusMismatch
		}

		t.AppendRow(append(row,
			strconv.Itoa(len(decoded.Outputs)),
			strconv.FormatUint(satoshis, 10),
			bsvutil.Amount(int64(satoshis)).String(), // #nosec G115
			status,
		))
	}

	t.AppendFooter(table.Row{"Total", strconv.Itoa(len(txs)), "", "", strconv.FormatUint(totalSatoshis, 10), bsvutil.Amount(int64(totalSatoshis)).String(), ""}) // #nosec G115

	return t
}
