package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dublinosm/osmcsv"
)

func init() {
	RootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), osmcsv.Version)
	},
}
