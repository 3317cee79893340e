package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgcpoolandspa/poolsite/internal/daemon"
	"github.com/rgcpoolandspa/poolsite/internal/db"
)

var dryRun bool

func init() { //nolint: gochecknoinits
	checkSlugsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing")

	rootCmd.AddCommand(checkSlugsCmd)
}

var checkSlugsCmd = &cobra.Command{
	Use:     "check-slugs",
	Short:   "Backfill missing product and portfolio slugs and report duplicates",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := daemon.Open(&cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb) //nolint:errcheck

		report, err := daemon.CheckSlugs(cmd.Context(), gdb, dryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		for _, f := range report.Fixed {
			fmt.Fprintf(out, "%s %d: %q -> %q\n", f.Table, f.ID, f.Old, f.New)
		}

		for _, c := range report.Conflicts {
			fmt.Fprintf(out, "%s: slug %q shared by ids %v\n", c.Table, c.Slug, c.IDs)
		}

		fmt.Fprintf(out, "%d fixed, %d conflicts\n", len(report.Fixed), len(report.Conflicts))

		return nil
	},
}
