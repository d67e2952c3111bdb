package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/model"
)

var (
	analyzeTranscript  string
	analyzeAudio       string
	analyzeAgent       string
	analyzeOperation   string
	analyzeMonitorID   string
	analyzeMonitorName string
	analyzeRigor       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a single interaction against the active scorecard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rigor, err := model.ParseRigor(analyzeRigor)
		if err != nil {
			return err
		}

		input, err := readInput(analyzeTranscript, analyzeAudio)
		if err != nil {
			return err
		}

		meta := audit.Metadata{
			AgentName:   analyzeAgent,
			Operation:   analyzeOperation,
			MonitorID:   analyzeMonitorID,
			MonitorName: analyzeMonitorName,
			AuditDate:   time.Now().UTC().Format("2006-01-02"),
		}
		if meta.Operation == "" {
			meta.Operation = cfg.Audit.Operation
		}
		if meta.MonitorName == "" {
			meta.MonitorName = cfg.Audit.MonitorName
		}

		analyzer, st, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		it, err := analyzer.Analyze(ctx, input, meta, rigor)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTranscript, "transcript", "", "transcript file path, or - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeAudio, "audio", "", "audio file path")
	analyzeCmd.Flags().StringVar(&analyzeAgent, "agent", "", "agent name (required)")
	analyzeCmd.Flags().StringVar(&analyzeOperation, "operation", "", "operation name (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeMonitorID, "monitor-id", "", "monitor id (required)")
	analyzeCmd.Flags().StringVar(&analyzeMonitorName, "monitor-name", "", "monitor display name")
	analyzeCmd.Flags().StringVar(&analyzeRigor, "rigor", string(model.RigorMedium), "rigor level: LIGHT, MEDIUM or EXPERT")
	_ = analyzeCmd.MarkFlagRequired("agent")
	_ = analyzeCmd.MarkFlagRequired("monitor-id")
	rootCmd.AddCommand(analyzeCmd)
}

// readInput loads the transcript (file or stdin) and optional audio material.
func readInput(transcriptPath, audioPath string) (audit.Input, error) {
	var input audit.Input

	switch transcriptPath {
	case "":
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return input, eris.Wrap(err, "read transcript from stdin")
		}
		input.Transcript = string(data)
	default:
		data, err := os.ReadFile(transcriptPath)
		if err != nil {
			return input, eris.Wrap(err, "read transcript file")
		}
		input.Transcript = string(data)
	}

	if audioPath != "" {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return input, eris.Wrap(err, "read audio file")
		}
		input.Audio = data
		input.AudioMIME = audioMIME(audioPath)
	}

	return input, nil
}

func audioMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/mpeg"
	}
}
