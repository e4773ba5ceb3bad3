package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"attitude-engine/pkg/attitude"
)

func newOrdersCommand(o *globalOptions) *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the 24 supported Euler orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders := attitude.EulerOrders()
			if !table {
				return o.print(orders)
			}
			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tCLASS\tDESCRIPTION")
			for _, info := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Order, info.Classification, info.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "Print a table instead of JSON or YAML.")
	return cmd
}

func newVersionCommand(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the engine version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(o.out, attitude.Version())
			return err
		},
	}
}

// newAngleCommand prints conv applied to each argument, one per line.
func newAngleCommand(o *globalOptions, use, short string, conv func(float64) float64) *cobra.Command {
	return &cobra.Command{
		Use:   use + " VALUE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseValues(args)
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, v := range vals {
				fmt.Fprintf(&b, "%.15g\n", conv(v))
			}
			_, err = fmt.Fprint(o.out, b.String())
			return err
		},
	}
}
