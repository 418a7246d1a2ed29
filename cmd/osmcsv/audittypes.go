package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv/fieldtype"
)

var (
	typeFields []string
	typeSkip   int
)

func init() {
	RootCmd.AddCommand(auditTypesCmd)
	auditTypesCmd.Flags().StringSliceVarP(&typeFields, "field", "f", nil, "fields to audit (repeatable)")
	auditTypesCmd.Flags().IntVar(&typeSkip, "skip", 0, "number of data rows to skip after the header")
}

var auditTypesCmd = &cobra.Command{
	Use:   "audit-types <CSV file>",
	Short: "Print the value types found in CSV fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(typeFields) == 0 {
			return errors.New("missing --field")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		types, err := fieldtype.AuditCSV(f, typeFields, typeSkip)
		if err != nil {
			return err
		}
		for _, field := range typeFields {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", field, types[field])
		}
		return nil
	},
}
