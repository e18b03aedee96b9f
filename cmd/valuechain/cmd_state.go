package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/service"
	"github.com/louisbranch/valuechain/internal/game/store"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the instructor view of a stored session",
	RunE:  runState,
}

var stateSession string

func runState(cmd *cobra.Command, _ []string) error {
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

	state, err := svc.InstructorState(cmd.Context(), stateSession)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s  status %s  cycle %d  teams %d\n",
		state.Session.ID, state.Session.Status, state.Session.CurrentCycle, len(state.Teams))
	for _, r := range state.Rankings {
		submitted := " "
		if r.HasSubmitted {
			submitted = "*"
		}
		fmt.Fprintf(out, "  #%d %s %-20s cas=%.1f\n", r.Rank, submitted, r.TeamName, r.CAS)
	}
	return nil
}

func init() {
	stateCmd.Flags().StringVar(&stateSession, "session", "", "session ID (required)")
	_ = stateCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(stateCmd)
}
