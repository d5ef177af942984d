package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan.json>",
	Short: "Check that a movie plan is playable",
	Long: `Loads a plan and reports structural problems: missing trees,
reversed or out-of-bounds step ranges, coverage gaps between segments,
and absent pair solutions. Exits non-zero when the plan cannot play.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := movie.Load(args[0])
		if err != nil {
			return err
		}

		issues := movie.Validate(m)
		for _, issue := range issues {
			marker := "!"
			if issue.Fatal {
				marker = "✗"
			}
			fmt.Fprintf(os.Stderr, "%s %v\n", marker, issue)
		}

		if movie.HasFatal(issues) {
			os.Exit(1)
		}
		if len(issues) == 0 {
			fmt.Fprintf(os.Stderr, "✓ %s: %d trees, plan is playable\n", m.Name, m.TreeCount())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
