package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-vpc-go/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat     string
		clusterByKind    bool
		includeDependsOn bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph of the network resources and the
references between them.

The output can be rendered with Graphviz:
    wetwire-vpc graph | dot -Tpng -o vpc.png

Examples:
    wetwire-vpc graph
    wetwire-vpc graph -k                 # cluster by resource kind
    wetwire-vpc graph -d                 # include DependsOn edges
    wetwire-vpc graph -f mermaid`,
		Args: cobra.NoArgs,
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&clusterByKind, "cluster", "k", false, "Cluster resources by kind")
	cmd.Flags().BoolVarP(&includeDependsOn, "depends-on", "d", false, "Draw DependsOn edges")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var graphFormat graph.Format
		switch outputFormat {
		case "dot":
			graphFormat = graph.FormatDOT
		case "mermaid":
			graphFormat = graph.FormatMermaid
		default:
			return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", outputFormat)
		}

		gen, err := rf.generator(cmd)
		if err != nil {
			return err
		}
		res, err := gen.Run(cmd.Context(), rf.inputs)
		if err != nil {
			return fmt.Errorf("graph failed: %w", err)
		}

		g := &graph.Generator{
			Format:           graphFormat,
			ClusterByKind:    clusterByKind,
			IncludeDependsOn: includeDependsOn,
		}
		return g.Generate(res.Network.Graph, cmd.OutOrStdout())
	}

	return cmd
}
