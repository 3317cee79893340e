package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rgcpoolandspa/poolsite/internal/daemon"
	"github.com/rgcpoolandspa/poolsite/internal/db"
	"github.com/rgcpoolandspa/poolsite/internal/media"
)

var withSample bool

func init() { //nolint: gochecknoinits
	seedCmd.Flags().BoolVar(&withSample, "sample", false, "Insert sample services, products, portfolio items and events")

	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Create the first admin and the site settings, optionally with sample content",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := daemon.Open(&cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb) //nolint:errcheck

		if err = daemon.Bootstrap(&cfg, gdb); err != nil {
			return err
		}

		if !withSample {
			return nil
		}

		res, err := daemon.Seed(cmd.Context(), gdb, media.NewService(gdb, media.WithMaxPixels(cfg.Media.MaxPixels)))
		if err != nil {
			return err
		}

		log.Info().
			Int("services", res.Services).
			Int("products", res.Products).
			Int("portfolio", res.Portfolio).
			Int("events", res.Events).
			Int("media", res.Media).
			Msg("sample data inserted")

		return nil
	},
}
