package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/pipeline"
)

func newBuildCmd() *cobra.Command {
	var resultFormat string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the VPC template for one environment",
		Long: `Build loads the topology, plans the subnets of one environment and writes
the CloudFormation template to <output-dir>/<env>_vpc.

Examples:
    wetwire-vpc build
    wetwire-vpc build --env prod --zones ap-south-1a,ap-south-1b
    wetwire-vpc build --template-format yaml -o out/`,
		Args: cobra.NoArgs,
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&rf.inputs.OutputDir, "output-dir", "o", rf.inputs.OutputDir, "Directory the template is written to")
	cmd.Flags().StringVar(&rf.inputs.Format, "template-format", rf.inputs.Format, "Template format: json or yaml")
	cmd.Flags().StringVarP(&resultFormat, "format", "f", "text", "Output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, err := rf.generator(cmd)
		if err != nil {
			return err
		}
		return runBuild(cmd, gen, rf.inputs, resultFormat)
	}

	return cmd
}

func runBuild(cmd *cobra.Command, gen *pipeline.Generator, in pipeline.Inputs, format string) error {
	res, path, err := gen.Generate(cmd.Context(), in)
	if err != nil {
		if format == "json" {
			_ = outputBuildResult(cmd.OutOrStdout(), wetwire.BuildResult{
				Environment: in.Environment,
				Errors:      []string{err.Error()},
			}, format)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	result := wetwire.BuildResult{
		Success:     true,
		Environment: in.Environment,
		Path:        path,
		Warnings:    res.Warnings,
	}
	for _, n := range res.Network.Graph.Nodes() {
		result.Resources = append(result.Resources, n.Name)
	}
	return outputBuildResult(cmd.OutOrStdout(), result, format)
}

func outputBuildResult(w io.Writer, result wetwire.BuildResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if !result.Success {
			for _, e := range result.Errors {
				fmt.Fprintf(w, "ERROR: %s\n", e)
			}
			return nil
		}
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "WARNING: %s\n", warn)
		}
		fmt.Fprintf(w, "Build successful, wrote %s (%d resources)\n", result.Path, len(result.Resources))

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
