package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var discoverSeedFile string

// seedFile is the optional YAML list of topic tags to expand.
type seedFile struct {
	Tags []string `yaml:"tags"`
}

var discoverCmd = &cobra.Command{
	Use:   "discover [tag]...",
	Short: "Discover related tag variations for topic tags",
	Long:  "Opens the platform search surface for each topic tag, collects up to the configured number of suggested related tags with their content volumes, scores them, and upserts them as tag variations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tags := append([]string(nil), args...)
		if discoverSeedFile != "" {
			seeded, err := loadSeedTags(discoverSeedFile)
			if err != nil {
				return err
			}
			tags = append(tags, seeded...)
		}
		if len(tags) == 0 {
			return eris.New("no tags given: pass tags as arguments or via --seed-file")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := newSessionManager(st)
		defer mgr.Close()
		scout := newSessionTags(mgr)

		for _, tag := range tags {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			variations, err := scout.Discover(ctx, tag)
			if err != nil {
				zap.L().Warn("tag discovery failed",
					zap.String("tag", tag),
					zap.Error(err))
				continue
			}
			for _, v := range variations {
				saved, err := st.UpsertTagVariation(ctx, v)
				if err != nil {
					return err
				}
				fmt.Printf("%-24s %-24s vol=%-10d prio=%-3d %s\n",
					saved.Parent, saved.Tag, saved.Volume, saved.Priority, saved.Category)
			}
		}
		return nil
	},
}

func loadSeedTags(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read seed file %s", path)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, eris.Wrapf(err, "parse seed file %s", path)
	}
	return seed.Tags, nil
}

func init() {
	discoverCmd.Flags().StringVar(&discoverSeedFile, "seed-file", "", "YAML file with a tags: list of topic tags")
	rootCmd.AddCommand(discoverCmd)
}
