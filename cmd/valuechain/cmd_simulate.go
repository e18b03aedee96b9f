package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/service"
	"github.com/louisbranch/valuechain/internal/game/store"
	"github.com/louisbranch/valuechain/internal/notify"
	"github.com/louisbranch/valuechain/internal/scorecard"
	"github.com/louisbranch/valuechain/internal/telemetry"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted scenario end to end and print the leaderboard",
	Long: `Reads a YAML scenario describing teams and their per-cycle decisions,
plays the full game against the configured storage backend, and prints the
final standings. Example scenario:

    teams: [Alpha, Beta]
    cycles:
      - decisions:
          Alpha:
            allocations: {store-operations: 20.0}
          Beta:
            cuts: [manual-reporting-processes]
      - shock: supply-chain-disruption
        decisions: {}`,
	RunE: runSimulate,
}

var (
	simulateFile      string
	simulateScorecard string
)

type scenarioDecision struct {
	Allocations map[string]float64 `yaml:"allocations"`
	Cuts        []string           `yaml:"cuts"`
}

type scenarioCycle struct {
	Shock     string                      `yaml:"shock"`
	Decisions map[string]scenarioDecision `yaml:"decisions"`
}

type scenario struct {
	Teams  []string        `yaml:"teams"`
	Cycles []scenarioCycle `yaml:"cycles"`
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(simulateFile)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Teams) == 0 {
		return fmt.Errorf("scenario has no teams")
	}

	kv, err := openKV()
	if err != nil {
		return err
	}
	defer kv.Close()

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	svc := service.New(store.New(kv), cat, service.Options{
		Notifier: notify.Log{Logger: logger},
		Emitter:  telemetry.NewEmitter(kv),
	})

	ctx := cmd.Context()
	session, codes, err := svc.CreateSession(ctx, "simulate", len(sc.Teams))
	if err != nil {
		return err
	}

	teamIDs := make(map[string]string, len(sc.Teams))
	for i, name := range sc.Teams {
		team, err := svc.JoinTeam(ctx, codes[i].Code, name)
		if err != nil {
			return fmt.Errorf("join team %q: %w", name, err)
		}
		teamIDs[name] = team.ID
	}

	// Open cycle 1.
	if _, err := svc.AdvanceCycle(ctx, session.ID, ""); err != nil {
		return err
	}

	for i, cycle := range sc.Cycles {
		for name, decision := range cycle.Decisions {
			teamID, ok := teamIDs[name]
			if !ok {
				return fmt.Errorf("cycle %d: unknown team %q", i+1, name)
			}
			if _, err := svc.SubmitDecision(ctx, teamID, decision.Allocations, decision.Cuts); err != nil {
				return fmt.Errorf("cycle %d: team %q: %w", i+1, name, err)
			}
		}
		if _, err := svc.AdvanceCycle(ctx, session.ID, cycle.Shock); err != nil {
			return fmt.Errorf("advance cycle %d: %w", i+1, err)
		}
	}

	state, err := svc.InstructorState(ctx, session.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s  status %s  cycle %d\n", session.ID, state.Session.Status, state.Session.CurrentCycle)
	for _, r := range state.Rankings {
		fmt.Fprintf(out, "  #%d %-20s cas=%.1f\n", r.Rank, r.TeamName, r.CAS)
	}

	if simulateScorecard != "" {
		if err := writeScorecard(ctx, svc, session.ID, simulateScorecard); err != nil {
			return err
		}
		fmt.Fprintf(out, "scorecard written to %s\n", simulateScorecard)
	}
	return nil
}

func writeScorecard(ctx context.Context, svc *service.Service, sessionID, path string) error {
	export, err := svc.ExportSession(ctx, sessionID)
	if err != nil {
		return err
	}
	rows := scorecard.Build(svc.Catalog(), export.Teams, export.Decisions)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scorecard: %w", err)
	}
	defer f.Close()
	return scorecard.WriteCSV(f, rows)
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateFile, "file", "f", "", "scenario YAML path (required)")
	simulateCmd.Flags().StringVar(&simulateScorecard, "scorecard", "", "write the per-cycle scorecard CSV to this path")
	_ = simulateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(simulateCmd)
}
