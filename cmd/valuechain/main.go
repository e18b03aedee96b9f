// valuechain is the simulation CLI: create sessions, run scripted scenarios,
// inspect the activity catalog, and export results for analysis.
//
// Usage:
//
//	valuechain catalog
//	valuechain create [--teams=<n>] [--instructor=<name>]
//	valuechain simulate -f <scenario.yaml> [--scorecard=<out.csv>]
//	valuechain state --session=<id>
//	valuechain export --session=<id> [-o <out.json>] [--csv=<out.csv>]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/louisbranch/valuechain/internal/platform/config"
	"github.com/louisbranch/valuechain/internal/platform/logging"
	"github.com/louisbranch/valuechain/internal/storage"
	boltstore "github.com/louisbranch/valuechain/internal/storage/bbolt"
	"github.com/louisbranch/valuechain/internal/storage/memory"
	sqlitestore "github.com/louisbranch/valuechain/internal/storage/sqlite"
)

var (
	settings config.Settings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "valuechain",
	Short:         "Turn-based value chain investment simulation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		settings, err = config.Load()
		if err != nil {
			return err
		}
		logger = logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.Exitf("valuechain: %v", err)
	}
}

// openKV opens the configured key-value backend. Callers own Close.
func openKV() (storage.KV, error) {
	switch settings.StorageBackend {
	case "memory":
		return memory.New(), nil
	case "bbolt":
		return boltstore.Open(settings.StoragePath)
	case "sqlite":
		return sqlitestore.Open(settings.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", settings.StorageBackend)
	}
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}
