package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/network"
	"github.com/lex00/wetwire-vpc-go/internal/template"
)

func newListCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the resources of the generated template",
		Long: `List builds the template in memory and prints its resources in the order
CloudFormation would create them.

Examples:
    wetwire-vpc list
    wetwire-vpc list --env prod --format json`,
		Args: cobra.NoArgs,
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, err := rf.generator(cmd)
		if err != nil {
			return err
		}
		res, err := gen.Run(cmd.Context(), rf.inputs)
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}
		result, err := listResources(res.Network.Graph)
		if err != nil {
			return err
		}
		return outputListResult(cmd.OutOrStdout(), result, outputFormat)
	}

	return cmd
}

// listResources returns the graph's resources in creation order, each with
// the names it depends on.
func listResources(g *network.Graph) (wetwire.ListResult, error) {
	order, err := template.NewBuilder(g, template.Options{}).Order()
	if err != nil {
		return wetwire.ListResult{}, err
	}

	result := wetwire.ListResult{
		Resources: make([]wetwire.ListResource, 0, len(order)),
	}
	for _, name := range order {
		node, _ := g.Node(name)
		result.Resources = append(result.Resources, wetwire.ListResource{
			Name:      name,
			Type:      node.Kind().ResourceType(),
			DependsOn: node.Targets(),
		})
	}
	return result, nil
}

func outputListResult(w io.Writer, result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			if len(res.DependsOn) == 0 {
				fmt.Fprintf(w, "  %s: %s\n", res.Name, res.Type)
				continue
			}
			fmt.Fprintf(w, "  %s: %s (depends on %s)\n", res.Name, res.Type, strings.Join(res.DependsOn, ", "))
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
