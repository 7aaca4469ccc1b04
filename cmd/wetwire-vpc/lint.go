package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/linter"
	"github.com/lex00/wetwire-vpc-go/internal/pipeline"
)

func newLintCmd() *cobra.Command {
	var (
		outputFormat string
		rules        []string
	)

	cmd := &cobra.Command{
		Use:   "lint [topology files...]",
		Short: "Check topology files for issues",
		Long: `Lint checks subnet topology files for problems that would produce an
invalid or surprising template.

Rules:
    VPC001: Environment octet must be between 0 and 255
    VPC002: Service octet and AZ number must form a third octet of at most 255
    VPC003: Subnets must not derive the same CIDR
    VPC004: app and internal tiers need a nat service
    VPC005: Only one nat service is used per AZ
    VPC006: Environment, tier and service names must be alphanumeric

Examples:
    wetwire-vpc lint
    wetwire-vpc lint subnet_mapping.yml --rules VPC001,VPC003`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{pipeline.DefaultConfigPath}
			}
			return runLint(cmd.OutOrStdout(), args, outputFormat, rules)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "Rules to run (default: all)")

	return cmd
}

func runLint(w io.Writer, paths []string, format string, rules []string) error {
	result := wetwire.LintResult{Success: true}

	for _, path := range paths {
		lintResult, err := linter.LintFile(path, linter.Options{EnabledRules: rules})
		if err != nil {
			return fmt.Errorf("lint failed: %w", err)
		}
		if !lintResult.Success {
			result.Success = false
		}
		for _, issue := range lintResult.Issues {
			result.Issues = append(result.Issues, wetwire.LintIssue{
				Severity: string(issue.Severity),
				Message:  issue.Message,
				Rule:     issue.Rule,
				Subject:  issue.Subject,
			})
		}
	}

	if err := outputLintResult(w, result, format); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("lint found errors")
	}
	return nil
}

func outputLintResult(w io.Writer, result wetwire.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Issues) == 0 {
			fmt.Fprintln(w, "No issues found.")
			return nil
		}

		for _, issue := range result.Issues {
			if issue.Subject != "" {
				fmt.Fprintf(w, "%s: %s: %s [%s]\n", issue.Subject, issue.Severity, issue.Message, issue.Rule)
			} else {
				fmt.Fprintf(w, "%s: %s [%s]\n", issue.Severity, issue.Message, issue.Rule)
			}
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
