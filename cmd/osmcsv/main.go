package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/config"
	_ "github.com/dublinosm/osmcsv/database/postgres"
	_ "github.com/dublinosm/osmcsv/database/sqlite"
	"github.com/dublinosm/osmcsv/log"
	"github.com/dublinosm/osmcsv/stats"
)

var (
	opts    = &config.Options{}
	metrics = stats.NewMetrics()
)

var RootCmd = &cobra.Command{
	Use:           "osmcsv",
	Short:         "Audit OpenStreetMap street names and load OSM data into SQL tables",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := opts.UpdateFromConfig(); err != nil {
			return errors.Wrap(err, "reading config")
		}
		if errs := opts.Check(); len(errs) != 0 {
			config.ReportErrors(os.Stderr, errs)
			return errors.New("invalid options")
		}
		if opts.Quiet {
			log.SetMinLevel(log.LInfo)
		}
		if opts.MetricsAddr != "" {
			if _, err := stats.StartHTTP(opts.MetricsAddr, metrics); err != nil {
				return errors.Wrap(err, "starting metrics server")
			}
		}
		return nil
	},
}

func init() {
	opts.AddFlags(RootCmd.PersistentFlags())
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("[fatal] %s", err)
	}
}
