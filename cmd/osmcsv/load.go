package main

import (
	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/database"
	"github.com/dublinosm/osmcsv/log"
)

func init() {
	RootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the CSV files from the output directory into the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadFiles()
	},
}

func loadFiles() error {
	db, err := database.Open(database.Config{ConnectionParams: opts.DBConnection()})
	if err != nil {
		return err
	}
	defer db.Close()

	log.Printf("[info] creating tables at %s", database.ConnectionType(opts.DBConnection()))
	counts, err := database.LoadFiles(db, opts.OutputDir)
	if err != nil {
		return err
	}
	for table, n := range counts {
		metrics.AddLoaded(table, n)
	}
	log.Printf("[info] %s", metrics.Summary())
	return nil
}
