// Package cli implements the sod command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dual-finance/soengine/internal/config"
	"github.com/dual-finance/soengine/internal/core/so"
	"github.com/dual-finance/soengine/internal/storage/journal"
	"github.com/dual-finance/soengine/internal/storage/keyvaluedb"
	"github.com/dual-finance/soengine/internal/storage/keyvaluedb/leveldb"
	"github.com/dual-finance/soengine/internal/storage/keyvaluedb/pebble"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sod",
	Short: "sod - staking options daemon",
	Long: `sod operates a staking-options ledger: covered-call sales with
escrowed collateral, strike registration, option issuance, exercise
(plain and reversible), vesting withdrawal and rollover.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}

// environment bundles everything a command needs against one store.
type environment struct {
	cfg     *config.Config
	engine  *so.Engine
	journal *journal.DB
	close   func()
}

// openEnvironment resolves the configuration and opens the configured
// backend, cache and journal.
func openEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	var db keyvaluedb.DB
	switch cfg.Backend {
	case "memory":
		db = keyvaluedb.NewMemory()
	case "pebble":
		db, err = pebble.Open(cfg.DatabasePath)
	case "leveldb":
		db, err = leveldb.Open(cfg.DatabasePath)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Compression == "lz4" {
		db = keyvaluedb.NewCompressed(db)
	}

	cache, err := so.NewSaleCache(cfg.CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	opts := []so.Option{so.WithCache(cache)}
	var jdb *journal.DB
	if cfg.JournalDriver != "none" {
		jdb, err = journal.Open(cfg.JournalDriver, cfg.JournalDSN)
		if err != nil {
			db.Close()
			return nil, err
		}
		opts = append(opts, so.WithJournal(jdb))
	}

	env := &environment{
		cfg:     cfg,
		engine:  so.NewEngine(so.NewKVView(ctx, db), opts...),
		journal: jdb,
		close: func() {
			if jdb != nil {
				jdb.Close()
			}
			db.Close()
		},
	}
	return env, nil
}
