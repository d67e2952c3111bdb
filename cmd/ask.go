package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jammin-qa/quality-cli/internal/oracle"
	"github.com/jammin-qa/quality-cli/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the quality consultant a question grounded on the scorecard",
	Args:  cobra.MinimumNArgs(1),
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

		backend, err := oracle.New(cfg)
		if err != nil {
			return err
		}

		answer, err := backend.Ask(ctx, strings.Join(args, " "), rubric)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
