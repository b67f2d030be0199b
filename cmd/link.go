package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atendai/leadscout/internal/contact"
	"github.com/atendai/leadscout/internal/model"
)

var linkLeadID string

var linkCmd = &cobra.Command{
	Use:   "link <url>",
	Short: "Scrape an external link for contact material",
	Long:  "Resolves one external link (messaging link, redirect code, aggregator, or arbitrary site) and prints the phones and emails found. With --lead-id the contacts are attached to that lead and its link-contact stage is recorded.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		rawURL := args[0]

		scraper := newLinkScraper()
		defer scraper.Close()

		page := scraper.Scrape(ctx, rawURL)
		records := contact.Extract("", rawURL, page, time.Now().UTC())

		out := struct {
			Page     any                   `json:"page"`
			Contacts []model.ContactRecord `json:"contacts,omitempty"`
		}{page, records}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}

		if linkLeadID == "" {
			return nil
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		status := model.StageStatusNone
		if len(records) > 0 {
			if _, err := st.AddContacts(ctx, linkLeadID, records); err != nil {
				return err
			}
			status = model.StageStatusFound
		}
		if err := st.SetStageStatus(ctx, linkLeadID, model.StageLinkContact, status); err != nil {
			return eris.Wrapf(err, "record link-contact stage for lead %s", linkLeadID)
		}
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkLeadID, "lead-id", "", "attach extracted contacts to this lead")
	rootCmd.AddCommand(linkCmd)
}
