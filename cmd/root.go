package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/config"
	"github.com/jammin-qa/quality-cli/internal/oracle"
	"github.com/jammin-qa/quality-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quality-cli",
	Short: "Call-center quality auditing",
	Long:  "Evaluates support interactions against a weighted scorecard via LLM oracles, keeps an append-only audit history, and reports category and Pareto statistics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func initAnalyzer(ctx context.Context) (*audit.Analyzer, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	backend, err := oracle.New(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return audit.NewAnalyzer(backend, st, cfg.Audit.MaxTranscriptChars), st, nil
}
