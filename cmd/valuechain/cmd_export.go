package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/service"
	"github.com/louisbranch/valuechain/internal/game/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session's full record as JSON, optionally with a scorecard CSV",
	RunE:  runExport,
}

var (
	exportSession string
	exportOut     string
	exportCSV     string
)

func runExport(cmd *cobra.Command, _ []string) error {
	kv, err := openKV()
	if err != nil {
		return err
	}
	defer kv.Close()

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	svc := service.New(store.New(kv), cat, service.Options{})

	ctx := cmd.Context()
	export, err := svc.ExportSession(ctx, exportSession)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if exportOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	} else if err := os.WriteFile(exportOut, payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if exportCSV != "" {
		if err := writeScorecard(ctx, svc, exportSession, exportCSV); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportSession, "session", "", "session ID (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "JSON output path (default stdout)")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "also write the scorecard CSV to this path")
	_ = exportCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(exportCmd)
}
