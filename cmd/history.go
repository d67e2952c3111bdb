package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jammin-qa/quality-cli/internal/model"
)

var (
	historyAgent string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List evaluated interactions, most recent first",
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

		if historyAgent != "" {
			filtered := interactions[:0]
			for _, it := range interactions {
				if it.AgentName == historyAgent {
					filtered = append(filtered, it)
				}
			}
			interactions = filtered
		}
		if historyLimit > 0 && len(interactions) > historyLimit {
			interactions = interactions[:historyLimit]
		}

		if historyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(interactions)
		}

		for _, it := range interactions {
			fmt.Printf("%s  %s  %-20s  %s\n",
				it.ID, it.Date.Format("2006-01-02 15:04"), it.AgentName, summarizeResult(it.Result))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyAgent, "agent", "", "filter by agent name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "max interactions to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print full JSON")
	rootCmd.AddCommand(historyCmd)
}

func summarizeResult(r *model.AnalysisResult) string {
	if r == nil {
		return "(not evaluated)"
	}
	return fmt.Sprintf("%3d  %s", r.TotalScore, r.EvaluationStatus)
}
