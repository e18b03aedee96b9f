package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/service"
	"github.com/louisbranch/valuechain/internal/game/store"
	"github.com/louisbranch/valuechain/internal/notify"
	"github.com/louisbranch/valuechain/internal/telemetry"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session with placeholder teams and print the join codes",
	RunE:  runCreate,
}

var (
	createTeams      int
	createInstructor string
)

func runCreate(cmd *cobra.Command, _ []string) error {
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

	session, codes, err := svc.CreateSession(cmd.Context(), createInstructor, createTeams)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s\n", session.ID)
	fmt.Fprintf(out, "instructor code %s\n", session.Code)
	for _, tc := range codes {
		fmt.Fprintf(out, "  team %2d  join code %s\n", tc.TeamNumber, tc.Code)
	}
	return nil
}

func init() {
	createCmd.Flags().IntVar(&createTeams, "teams", 0, "number of teams (default 8)")
	createCmd.Flags().StringVar(&createInstructor, "instructor", "instructor", "creator name recorded on the session")
	rootCmd.AddCommand(createCmd)
}
