package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/stats"
	"github.com/jammin-qa/quality-cli/internal/store"
)

var (
	statsXLSX string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Category performance and Pareto failure analysis over the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		interactions, err := st.ListInteractions(ctx)
		if err != nil {
			return err
		}
		rubric, err := store.LoadRubric(ctx, st)
		if err != nil {
			return err
		}

		s := stats.Compute(interactions, rubric)

		if statsXLSX != "" {
			if err := stats.WriteXLSX(statsXLSX, s); err != nil {
				return err
			}
			zap.L().Info("stats exported", zap.String("path", statsXLSX))
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		fmt.Printf("Interações: %d (avaliadas: %d)\n", s.TotalInteractions, s.EvaluatedCount)
		fmt.Printf("Nota média: %d\n\n", s.AverageScore)

		fmt.Println("Desempenho por categoria:")
		for _, c := range s.Categories {
			fmt.Printf("  %-24s %3d%%  (%d/%d pts)\n", c.Category, c.Percentage, c.PointsEarned, c.MaxPoints)
		}

		fmt.Println("\nPareto de falhas:")
		for _, f := range s.Failures {
			marker := " "
			if f.Vital {
				marker = "*"
			}
			fmt.Printf("  %s %-8s %-32s %3dx  acum. %3d%%\n", marker, f.CriterionID, f.Name, f.Count, f.CumulativePct)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsXLSX, "xlsx", "", "also export the report to this .xlsx path")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print full JSON")
	rootCmd.AddCommand(statsCmd)
}
