package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/model"
)

var (
	batchCSV   string
	batchRigor string
	batchLimit int
)

// batchRow is one line of the input CSV: an agent plus the transcript file
// to evaluate for them.
type batchRow struct {
	Agent          string
	TranscriptPath string
	Operation      string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a CSV of interactions concurrently",
	Long:  "Reads a CSV with header columns agent, transcript_file and optional operation, and evaluates each row. Individual failures are logged and skipped; the batch never aborts on one bad row.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rigor, err := model.ParseRigor(batchRigor)
		if err != nil {
			return err
		}

		rows, err := readBatchCSV(batchCSV)
		if err != nil {
			return err
		}

		analyzer, st, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return processBatch(ctx, analyzer, rows, rigor, batchLimit, cfg.Batch.MaxConcurrent)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "input CSV path (required)")
	batchCmd.Flags().StringVar(&batchRigor, "rigor", string(model.RigorMedium), "rigor level: LIGHT, MEDIUM or EXPERT")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max rows to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(batchCmd)
}

func readBatchCSV(path string) ([]batchRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open batch csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	agentIdx, ok := col["agent"]
	if !ok {
		return nil, eris.New("batch csv missing agent column")
	}
	fileIdx, ok := col["transcript_file"]
	if !ok {
		return nil, eris.New("batch csv missing transcript_file column")
	}
	opIdx, hasOp := col["operation"]

	var rows []batchRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read csv row")
		}
		row := batchRow{
			Agent:          strings.TrimSpace(record[agentIdx]),
			TranscriptPath: strings.TrimSpace(record[fileIdx]),
		}
		if hasOp && opIdx < len(record) {
			row.Operation = strings.TrimSpace(record[opIdx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processBatch evaluates rows concurrently. Each row saves independently;
// a failed row is counted and logged, never fatal to its siblings.
func processBatch(ctx context.Context, analyzer *audit.Analyzer, rows []batchRow, rigor model.RigorLevel, limit, concurrency int) error {
	if len(rows) == 0 {
		zap.L().Info("no rows to process")
		return nil
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("rows", len(rows)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, row := range rows {
		g.Go(func() error {
			log := zap.L().With(zap.String("agent", row.Agent), zap.String("file", row.TranscriptPath))

			data, err := os.ReadFile(row.TranscriptPath)
			if err != nil {
				failed.Add(1)
				log.Error("read transcript failed", zap.Error(err))
				return nil
			}

			meta := audit.Metadata{
				AgentName:   row.Agent,
				Operation:   row.Operation,
				MonitorID:   "batch",
				MonitorName: cfg.Audit.MonitorName,
				AuditDate:   time.Now().UTC().Format("2006-01-02"),
			}
			if meta.Operation == "" {
				meta.Operation = cfg.Audit.Operation
			}

			it, err := analyzer.Analyze(gctx, audit.Input{Transcript: string(data)}, meta, rigor)
			if err != nil {
				failed.Add(1)
				log.Error("evaluation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("evaluation complete",
				zap.String("interaction_id", it.ID),
				zap.Int("total_score", it.Result.TotalScore),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
