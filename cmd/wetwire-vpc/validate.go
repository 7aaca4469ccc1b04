package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/artifact"
	"github.com/lex00/wetwire-vpc-go/internal/differ"
	"github.com/lex00/wetwire-vpc-go/internal/validation"
)

// newValidateCmd creates the "validate" subcommand that runs cfn-lint over a
// template.
func newValidateCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate [template]",
		Short: "Validate a template with cfn-lint",
		Long: `Validate runs cfn-lint over a CloudFormation template.

With a path, the JSON or YAML template in that file is checked. Without one,
the template of --env is generated in memory and checked.

Examples:
    wetwire-vpc validate uat_vpc
    wetwire-vpc validate --env prod --zones ap-south-1a,ap-south-1b
    wetwire-vpc validate uat_vpc --format json`,
		Args: cobra.MaximumNArgs(1),
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var (
			tmpl *wetwire.Template
			path string
			err  error
		)
		if len(args) == 1 {
			path = args[0]
			tmpl, err = differ.LoadTemplate(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		} else {
			gen, err := rf.generator(cmd)
			if err != nil {
				return err
			}
			res, err := gen.Run(cmd.Context(), rf.inputs)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			tmpl = res.Template
			path = artifact.FileName(rf.inputs.Environment)
		}
		return runValidate(cmd.OutOrStdout(), tmpl, path, outputFormat)
	}

	return cmd
}

// runValidate lints tmpl and reports it under path.
func runValidate(w io.Writer, tmpl *wetwire.Template, path, format string) error {
	lintResult, err := validation.RunCfnLintTemplate(tmpl)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := lintResult.ToValidateResult(path)
	if err := outputValidateResult(w, result, format); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("validation failed: %d errors", len(result.Errors))
	}
	return nil
}

func outputValidateResult(w io.Writer, result wetwire.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Success && len(result.Warnings) == 0 {
			fmt.Fprintf(w, "Validation passed: %s\n", result.Path)
			return nil
		}

		if result.Success {
			fmt.Fprintf(w, "Validation passed with warnings: %s\n", result.Path)
		} else {
			fmt.Fprintf(w, "Validation FAILED: %s\n", result.Path)
		}
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
