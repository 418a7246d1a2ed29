package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/audit"
	"github.com/dublinosm/osmcsv/database"
	"github.com/dublinosm/osmcsv/query"
	"github.com/dublinosm/osmcsv/stats"
	"github.com/dublinosm/osmcsv/writer"
)

var (
	querySizes bool
	queryInput string
)

func init() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&querySizes, "sizes", false, "print the size of the input and CSV files first")
	queryCmd.Flags().StringVar(&queryInput, "input", "", "OSM file included in --sizes")
}

var queryCmd = &cobra.Command{
	Use:   "query <name>... | ALL",
	Short: "Run registered queries against the database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reg, err := query.LoadRegistry(opts.QueriesFile)
		if err != nil {
			return err
		}
		if unknown := reg.Unregistered(args); len(unknown) > 0 {
			fmt.Fprintf(out, "The following queries are not registered: %s\n", strings.Join(unknown, ", "))
			return errors.New("unregistered queries")
		}
		rules, err := audit.LoadRulesFile(opts.StreetsFile)
		if err != nil {
			return err
		}

		if querySizes {
			files := []string{}
			if queryInput != "" {
				files = append(files, queryInput)
			}
			for _, table := range database.TableNames() {
				files = append(files, writer.Filename(opts.OutputDir, table))
			}
			if err := stats.PrintFileSizes(out, files); err != nil {
				return err
			}
		}

		db, err := database.Open(database.Config{ConnectionParams: opts.DBConnection()})
		if err != nil {
			return err
		}
		defer db.Close()

		r := &query.Runner{
			DB:         db.Sqlx(),
			Registry:   reg,
			Out:        out,
			Tables:     database.TableNames(),
			IsExpected: rules.Auditor().IsExpected,
		}
		return r.Run(args)
	},
}
