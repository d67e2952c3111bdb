package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/internal/scorecard"
	"github.com/jammin-qa/quality-cli/internal/store"
	"github.com/jammin-qa/quality-cli/pkg/notion"
)

var scorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Inspect and manage the active scorecard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rubric, err := store.LoadRubric(ctx, st)
		if err != nil {
			return err
		}
		rules, err := store.LoadZeroTolerance(ctx, st)
		if err != nil {
			return err
		}

		for _, group := range rubric.GroupByCategory() {
			fmt.Printf("%s\n", group.Category)
			for _, c := range group.Criteria {
				fmt.Printf("  [%s] %-40s %3d pts\n", c.ID, c.Name, c.Weight)
			}
		}
		fmt.Printf("\nTotal: %d pts", rubric.TotalWeight())
		if !rubric.IsBalanced() {
			fmt.Printf("  (atenção: esperado %d)", model.BalancedWeight)
		}
		fmt.Println()

		fmt.Println("\nTolerância zero:")
		for _, r := range rules {
			fmt.Printf("  [%s] %s: %s\n", r.ID, r.Name, r.Description)
		}
		return nil
	},
}

var scorecardExportOut string

var scorecardExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active scorecard as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rubric, err := store.LoadRubric(ctx, st)
		if err != nil {
			return err
		}
		rules, err := store.LoadZeroTolerance(ctx, st)
		if err != nil {
			return err
		}

		out := os.Stdout
		if scorecardExportOut != "" {
			f, err := os.Create(scorecardExportOut)
			if err != nil {
				return eris.Wrap(err, "create export file")
			}
			defer f.Close()
			out = f
		}
		return scorecard.Export(out, rubric, rules)
	},
}

var scorecardImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the active scorecard from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "open import file")
		}
		defer f.Close()

		rubric, rules, err := scorecard.Import(f)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := store.SaveRubric(ctx, st, rubric); err != nil {
			return err
		}
		if len(rules) > 0 {
			if err := store.SaveZeroTolerance(ctx, st, rules); err != nil {
				return err
			}
		}

		zap.L().Info("scorecard imported",
			zap.Int("criteria", len(rubric)),
			zap.Int("zero_tolerance", len(rules)),
			zap.Bool("balanced", rubric.IsBalanced()),
		)
		if !rubric.IsBalanced() {
			fmt.Fprintf(os.Stderr, "atenção: pesos somam %d, esperado %d\n", rubric.TotalWeight(), model.BalancedWeight)
		}
		return nil
	},
}

var scorecardSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the scorecard from its Notion databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" || cfg.Notion.CriteriaDB == "" {
			return eris.New("notion token and criteria database id are required (QUALITY_NOTION_TOKEN, QUALITY_NOTION_CRITERIA_DB)")
		}

		client := notion.NewClient(cfg.Notion.Token)
		rubric, rules, err := scorecard.SyncFromNotion(ctx, client, cfg.Notion.CriteriaDB, cfg.Notion.ZeroTolerDB)
		if err != nil {
			return err
		}
		if len(rubric) == 0 {
			return eris.New("notion sync returned no criteria, keeping current scorecard")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := store.SaveRubric(ctx, st, rubric); err != nil {
			return err
		}
		if err := store.SaveZeroTolerance(ctx, st, rules); err != nil {
			return err
		}

		if !rubric.IsBalanced() {
			fmt.Fprintf(os.Stderr, "atenção: pesos somam %d, esperado %d\n", rubric.TotalWeight(), model.BalancedWeight)
		}
		return nil
	},
}

func init() {
	scorecardExportCmd.Flags().StringVar(&scorecardExportOut, "out", "", "output path (default stdout)")
	scorecardCmd.AddCommand(scorecardExportCmd)
	scorecardCmd.AddCommand(scorecardImportCmd)
	scorecardCmd.AddCommand(scorecardSyncCmd)
	rootCmd.AddCommand(scorecardCmd)
}
