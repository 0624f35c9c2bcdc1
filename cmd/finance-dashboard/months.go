package main

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/spf13/cobra"
)

func newMonthsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "Print the month axis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, month := range datetime.MonthAxis() {
				if _, err := fmt.Fprintln(out, month); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
