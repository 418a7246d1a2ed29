package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/audit"
	"github.com/dublinosm/osmcsv/log"
	"github.com/dublinosm/osmcsv/reader"
)

func init() {
	RootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit <OSM file>",
	Short: "Print unexpected street types and suggested names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return auditStreets(cmd.OutOrStdout(), args[0])
	},
}

func auditStreets(w io.Writer, filename string) error {
	defer log.Step("Auditing street names")()
	rules, err := audit.LoadRulesFile(opts.StreetsFile)
	if err != nil {
		return err
	}
	src, err := reader.Open(filename, reader.Options{Progress: !opts.Quiet, Typed: true})
	if err != nil {
		return err
	}
	defer src.Close()

	st, err := rules.Auditor().Audit(src)
	if err != nil {
		return err
	}
	for _, s := range rules.Normalizer().Suggest(st) {
		fmt.Fprintf(w, "%s => %s\n", s.Name, s.Better)
	}
	return nil
}
