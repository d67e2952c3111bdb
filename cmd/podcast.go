package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/internal/oracle"
	"github.com/jammin-qa/quality-cli/internal/podcast"
)

var (
	podcastID    string
	podcastStyle string
	podcastOut   string
)

var podcastCmd = &cobra.Command{
	Use:   "podcast",
	Short: "Narrate an evaluated interaction as a WAV audio summary",
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
		var target *model.Interaction
		for i := range interactions {
			if interactions[i].ID == podcastID {
				target = &interactions[i]
				break
			}
		}
		if target == nil {
			return eris.Errorf("interaction %s not found", podcastID)
		}

		backend, err := oracle.New(cfg)
		if err != nil {
			return err
		}

		out := podcastOut
		if out == "" {
			out = fmt.Sprintf("podcast-%s.wav", podcastID)
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close()

		if err := podcast.Generate(ctx, backend, target, model.VoiceStyle(podcastStyle), f); err != nil {
			return err
		}

		zap.L().Info("podcast written", zap.String("path", out))
		return nil
	},
}

func init() {
	podcastCmd.Flags().StringVar(&podcastID, "id", "", "interaction id (required)")
	podcastCmd.Flags().StringVar(&podcastStyle, "style", string(model.VoiceEnergetic), "voice style: energetic, calm, firm, warm or neutral")
	podcastCmd.Flags().StringVar(&podcastOut, "out", "", "output WAV path (default podcast-<id>.wav)")
	_ = podcastCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(podcastCmd)
}
