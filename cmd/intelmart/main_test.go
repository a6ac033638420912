package main

import (
	"context"
	"flag"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage/badger"
)

func newTestApp() *cli.App {
	return &cli.App{
		Name: "intelmart",
		Commands: []*cli.Command{
			{
				Name:   "verify-ledger",
				Action: verifyLedgerCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.Uint64Flag{Name: "account"},
				},
			},
			{
				Name:   "backfill-embeddings",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "embedding-host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Required: true},
					&cli.IntFlag{Name: "batch-size", Value: 100},
					&cli.IntFlag{Name: "report-interval", Value: 100},
					&cli.IntFlag{Name: "max-retries", Value: 3},
					&cli.DurationFlag{Name: "retry-delay"},
				},
			},
			{
				Name:   "search",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Value: "embeddinggemma"},
					&cli.StringFlag{Name: "chat-model", Value: "qwen2.5:3b"},
				},
			},
		},
	}
}

func TestVerifyLedgerCommand(t *testing.T) {
	dbPath := t.TempDir()

	stores, err := badger.OpenStores(dbPath, false)
	require.NoError(t, err)

	ctx := context.Background()
	account, err := stores.Ledger.CreateAccount(ctx, 0)
	require.NoError(t, err)
	_, err = stores.Ledger.Credit(ctx, account.Id, 100, core.EntryKindPurchase, "pay_test")
	require.NoError(t, err)
	require.NoError(t, stores.Close())

	app := newTestApp()
	err = app.Run([]string{"intelmart", "verify-ledger", "--db", dbPath})
	assert.NoError(t, err)

	err = app.Run([]string{
		"intelmart", "verify-ledger",
		"--db", dbPath,
		"--account", fmt.Sprintf("%d", account.Id),
	})
	assert.NoError(t, err)
}

func TestVerifyLedgerRequiresDB(t *testing.T) {
	app := newTestApp()
	err := app.Run([]string{"intelmart", "verify-ledger"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestBackfillCommandCompleteIndex(t *testing.T) {
	dbPath := t.TempDir()

	stores, err := badger.OpenStores(dbPath, false)
	require.NoError(t, err)
	require.NoError(t, stores.Close())

	// An empty database has nothing to backfill, so the command finishes
	// without ever calling the embedding service.
	app := newTestApp()
	err = app.Run([]string{
		"intelmart", "backfill-embeddings",
		"--db", dbPath,
		"--embedding-model", "embeddinggemma",
	})
	assert.NoError(t, err)
}

func TestBackfillCommandRejectsBadConfig(t *testing.T) {
	dbPath := t.TempDir()

	stores, err := badger.OpenStores(dbPath, false)
	require.NoError(t, err)
	require.NoError(t, stores.Close())

	app := newTestApp()
	err = app.Run([]string{
		"intelmart", "backfill-embeddings",
		"--db", dbPath,
		"--embedding-model", "embeddinggemma",
		"--batch-size", "0",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch-size")
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	app := newTestApp()
	err := app.Run([]string{"intelmart", "search", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"INFO", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			set := flag.NewFlagSet("test", 0)
			set.String("log-level", tt.level, "")
			c := cli.NewContext(nil, set, nil)

			err := setupLogger(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
