package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atendai/leadscout/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show enrichment progress per stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.StageCounts(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%-14s %8s %8s %8s %10s\n", "STAGE", "PENDING", "FOUND", "NONE", "WATERMARK")
		for _, stage := range model.Stages {
			mark, err := st.GetWatermark(ctx, stage)
			if err != nil {
				return err
			}
			markText := "-"
			if !mark.IsZero() {
				markText = mark.Format("2006-01-02 15:04:05")
			}
			byStatus := counts[stage]
			fmt.Printf("%-14s %8d %8d %8d %10s\n",
				stage,
				byStatus[model.StageStatusPending],
				byStatus[model.StageStatusFound],
				byStatus[model.StageStatusNone],
				markText)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
