package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atendai/leadscout/internal/enrich"
	"github.com/atendai/leadscout/internal/model"
	"github.com/atendai/leadscout/internal/resilience"
)

var (
	enrichStage string
	enrichLimit int
	enrichReset bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run batch enrichment stages",
	Long:  "Walks pending leads through the enrichment stages (profile, tags, bio-contact, link-contact) in resumable watermarked batches. Interruption is safe between records; the next run picks up from the persisted watermark.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stages := model.Stages
		if enrichStage != "" {
			stage := model.Stage(enrichStage)
			if !stage.Valid() {
				return eris.Errorf("unknown stage %q", enrichStage)
			}
			stages = []model.Stage{stage}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if enrichReset {
			for _, stage := range stages {
				n, err := st.ResetStage(ctx, stage)
				if err != nil {
					return err
				}
				if err := st.SetWatermark(ctx, stage, time.Time{}); err != nil {
					return err
				}
				zap.L().Info("stage reset",
					zap.String("stage", string(stage)),
					zap.Int64("leads", n))
			}
		}

		mgr := newSessionManager(st)
		defer mgr.Close()
		links := newLinkScraper()
		defer links.Close()

		batch := cfg.Enrich.BatchSize
		if enrichLimit > 0 {
			batch = enrichLimit
		}
		o := enrich.New(st, newSessionProfiles(mgr), links, enrich.Config{
			BatchSize:         batch,
			RequestsPerSecond: cfg.Enrich.RequestsPerSecond,
			Retry: resilience.RetryConfig{
				MaxAttempts:    cfg.Enrich.MaxAttempts,
				InitialBackoff: time.Duration(cfg.Enrich.InitialBackoffMs) * time.Millisecond,
			},
		})

		for _, stage := range stages {
			summary, err := o.RunStage(ctx, stage)
			if err != nil {
				return eris.Wrapf(err, "stage %s aborted after %d records", stage, summary.Processed)
			}
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichStage, "stage", "", "run a single stage (profile, tags, bio-contact, link-contact)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "override the configured batch size")
	enrichCmd.Flags().BoolVar(&enrichReset, "reset", false, "reset the selected stages to pending before running")
	rootCmd.AddCommand(enrichCmd)
}
