package main

import (
	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/import_"
	"github.com/dublinosm/osmcsv/log"
	"github.com/dublinosm/osmcsv/reader"
	"github.com/dublinosm/osmcsv/schema"
)

var (
	importAudit bool
	importLoad  bool
)

func init() {
	RootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importAudit, "audit", false, "audit street names before the import")
	importCmd.Flags().BoolVar(&importLoad, "load", false, "load the CSV files into the database after the import")
}

var importCmd = &cobra.Command{
	Use:   "import <OSM file>",
	Short: "Write the nodes and ways of an OSM file as CSV files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importAudit {
			if err := auditStreets(cmd.OutOrStdout(), args[0]); err != nil {
				return err
			}
		}
		if err := runImport(args[0]); err != nil {
			return err
		}
		if importLoad {
			return loadFiles()
		}
		return nil
	},
}

func runImport(filename string) error {
	defer log.Step("Importing " + filename)()
	s, err := schema.Load(opts.SchemaFile)
	if err != nil {
		return err
	}
	src, err := reader.Open(filename, reader.Options{Progress: !opts.Quiet})
	if err != nil {
		return err
	}
	defer src.Close()

	p := import_.New(import_.Options{
		OutputDir: opts.OutputDir,
		Validate:  opts.Validate(),
		Schema:    s,
		Metrics:   metrics,
	})
	if _, err := p.Run(src); err != nil {
		return err
	}
	log.Printf("[info] %s", metrics.Summary())
	return nil
}
