package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louisbranch/valuechain/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the activity catalog, linkages, and shock deck",
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "ACTIVITIES")
	for _, category := range []catalog.Category{
		catalog.CategoryValueCreating,
		catalog.CategoryValueSupporting,
		catalog.CategoryNonValueAdd,
	} {
		fmt.Fprintf(out, "  [%s]\n", category)
		for _, a := range cat.ByCategory(category) {
			elim := ""
			if a.Eliminable() {
				elim = fmt.Sprintf("  eliminate=%.0f", *a.EliminationCost)
			}
			fmt.Fprintf(out, "    %-28s health=%-5.0f decay=%-4.1f weight=%.2f%s\n",
				a.ID, a.StartingHealth, a.DecayRate, a.Weight, elim)
		}
	}

	fmt.Fprintln(out, "LINKAGES")
	for _, l := range cat.Linkages {
		fmt.Fprintf(out, "  %-28s %s>=%.0f + %s>=%.0f  bonus=%.2f decay-reduction=%.2f\n",
			l.ID, l.PrimaryActivityID, l.PrimaryThreshold, l.SupportActivityID, l.SupportThreshold,
			l.EffectivenessBonus, l.DecayReduction)
	}

	fmt.Fprintln(out, "SHOCKS")
	for _, s := range cat.Shocks {
		fmt.Fprintf(out, "  %-28s impact=%-4.0f affects=%v\n",
			s.ID, s.HealthImpact, s.AffectedActivities)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
