package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/sbfs/crossval"
	"github.com/arloliu/sbfs/regression"
	"github.com/arloliu/sbfs/score"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List regressors, cross-validators and scorers",
	Args:  cobra.NoArgs,
	RunE:  runBackends,
}

func runBackends(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "REGRESSOR\tNAN-TOLERANT\tDESCRIPTION")
	for _, b := range regression.Backends() {
		fmt.Fprintf(tw, "%s\t%t\t%s\n", b.Name, b.NaNTolerant, b.Description)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "CROSS-VALIDATION\t%s\n", strings.Join(crossval.Names(), ", "))
	fmt.Fprintf(tw, "SCORERS\t%s\n", strings.Join(score.Names(), ", "))

	return tw.Flush()
}
