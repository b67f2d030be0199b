package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atendai/leadscout/internal/contact"
	"github.com/atendai/leadscout/internal/location"
	"github.com/atendai/leadscout/internal/model"
)

var scrapeSave bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape <handle>",
	Short: "Scrape a single profile",
	Long:  "Scrapes one profile page through the authenticated session and prints the snapshot with extracted location and bio contacts. With --save the lead is upserted and the profile and bio-contact stages are recorded.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		handle := args[0]

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := newSessionManager(st)
		defer mgr.Close()
		profiles := newSessionProfiles(mgr)

		snap, err := profiles.Scrape(ctx, handle)
		if err != nil {
			return err
		}

		loc := location.Extract(snap.Biography, "")
		records := contact.Extract(snap.Biography, snap.ExternalURL, nil, time.Now().UTC())

		out := struct {
			Snapshot *model.ProfileSnapshot `json:"snapshot"`
			Location location.Location      `json:"location,omitempty"`
			Contacts []model.ContactRecord  `json:"contacts,omitempty"`
		}{snap, loc, records}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}

		if !scrapeSave {
			return nil
		}

		lead, err := st.UpsertLead(ctx, handle)
		if err != nil {
			return err
		}
		if err := st.ApplySnapshot(ctx, lead.ID, snap); err != nil {
			return err
		}
		if !loc.IsZero() {
			if err := st.SetLocation(ctx, lead.ID, loc.City, loc.State); err != nil {
				return err
			}
		}
		if err := st.SetStageStatus(ctx, lead.ID, model.StageProfile, model.StageStatusFound); err != nil {
			return err
		}

		bioStatus := model.StageStatusNone
		if len(records) > 0 {
			if _, err := st.AddContacts(ctx, lead.ID, records); err != nil {
				return err
			}
			if lead.PrimaryPhone == "" {
				if err := st.SetPrimaryPhone(ctx, lead.ID, contact.Primary(records)); err != nil {
					return err
				}
			}
			bioStatus = model.StageStatusFound
		}
		if err := st.SetStageStatus(ctx, lead.ID, model.StageBioContact, bioStatus); err != nil {
			return err
		}

		zap.L().Info("lead saved",
			zap.String("handle", handle),
			zap.Int("contacts", len(records)))
		return nil
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "persist the scraped lead and contacts")
	rootCmd.AddCommand(scrapeCmd)
}
