package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

func newPlanCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the subnets planned for one environment",
		Long: `Plan prints the subnet identifier, CIDR block and availability zone of every
(AZ, tier, service) combination without building or writing a template.

Examples:
    wetwire-vpc plan
    wetwire-vpc plan --env prod --format json`,
		Args: cobra.NoArgs,
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, err := rf.generator(cmd)
		if err != nil {
			return err
		}
		_, plan, err := gen.Plan(cmd.Context(), rf.inputs)
		if err != nil {
			return fmt.Errorf("plan failed: %w", err)
		}
		return outputPlanResult(cmd.OutOrStdout(), plan.Result(), outputFormat)
	}

	return cmd
}

func outputPlanResult(w io.Writer, result wetwire.PlanResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		fmt.Fprintf(w, "Subnets for %s (%d):\n\n", result.Environment, len(result.Subnets))
		for _, s := range result.Subnets {
			fmt.Fprintf(w, "  %-28s %-16s %s\n", s.ID, s.CIDR, s.AZName)
		}
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "\nWARNING: %s\n", warn)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
