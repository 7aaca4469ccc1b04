// Package graph generates DOT and Mermaid format dependency graphs of a
// VPC network.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/lex00/wetwire-vpc-go/internal/network"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a network graph.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByKind groups nodes of the same resource kind.
	ClusterByKind bool

	// IncludeDependsOn draws DependsOn links as dashed edges.
	IncludeDependsOn bool
}

// Generate creates a dependency graph and writes it to w. Edges point from a
// node to the node it links to; Fn::GetAtt links are blue.
func (g *Generator) Generate(net *network.Graph, w io.Writer) error {
	graph := g.buildGraph(net)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(net *network.Graph) (string, error) {
	var sb strings.Builder
	if err := g.Generate(net, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(net *network.Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByKind {
		g.addClusteredNodes(graph, net)
	} else {
		for _, n := range net.Nodes() {
			graph.Node(n.Name).Label(label(n))
		}
	}

	for _, n := range net.Nodes() {
		for _, ref := range n.References() {
			if !net.Has(ref.Target) {
				continue
			}
			if ref.IsDependsOn() && !g.IncludeDependsOn {
				continue
			}

			e := graph.Edge(graph.Node(n.Name), graph.Node(ref.Target))
			switch {
			case ref.IsDependsOn():
				e.Attr("style", "dashed")
			case ref.Attribute != "":
				e.Attr("color", "blue")
				e.Label(ref.Attribute)
			}
		}
	}

	return graph
}

// addClusteredNodes adds nodes grouped by resource kind.
func (g *Generator) addClusteredNodes(graph *dot.Graph, net *network.Graph) {
	for _, kind := range network.Kinds() {
		nodes := net.OfKind(kind)
		if len(nodes) == 0 {
			continue
		}

		if len(nodes) == 1 {
			graph.Node(nodes[0].Name).Label(label(nodes[0]))
			continue
		}

		cluster := graph.Subgraph("cluster_"+kind.String(), dot.ClusterOption{})
		cluster.Attr("label", kind.String())
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, n := range nodes {
			cluster.Node(n.Name).Label(label(n))
		}
	}
}

func label(n *network.Node) string {
	return n.Name + "\\n[" + n.Kind().ResourceType() + "]"
}
