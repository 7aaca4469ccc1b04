// Package template renders a network graph as a CloudFormation template.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/network"
	"github.com/lex00/wetwire-vpc-go/internal/serialize"
	"github.com/lex00/wetwire-vpc-go/intrinsics"
)

// FormatVersion is the AWSTemplateFormatVersion of every generated template.
const FormatVersion = "2010-09-09"

// Options controls optional template sections.
type Options struct {
	Description string
	// Outputs exports the VPC ID and every subnet ID under
	// ${AWS::StackName}-<name>.
	Outputs bool
}

// Builder constructs CloudFormation templates from a network graph.
type Builder struct {
	graph *network.Graph
	opts  Options
}

// NewBuilder creates a template builder for g.
func NewBuilder(g *network.Graph, opts Options) *Builder {
	return &Builder{graph: g, opts: opts}
}

// Build constructs the CloudFormation template. Every link must resolve and
// the dependency graph must be acyclic.
func (b *Builder) Build() (*wetwire.Template, error) {
	order, err := b.Order()
	if err != nil {
		return nil, err
	}

	tmpl := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.opts.Description,
		Resources:                make(map[string]wetwire.ResourceDef, len(order)),
	}

	for _, name := range order {
		node, _ := b.graph.Node(name)

		props, err := serialize.Resource(node.Resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		tmpl.Resources[name] = wetwire.ResourceDef{
			Type:       node.Kind().ResourceType(),
			Properties: props,
			DependsOn:  node.DependsOn,
		}
	}

	if b.opts.Outputs {
		outputs, err := b.outputs()
		if err != nil {
			return nil, err
		}
		if len(outputs) > 0 {
			tmpl.Outputs = outputs
		}
	}

	return tmpl, nil
}

// Order returns the node names in dependency order: every node comes after
// the nodes it links to. Ties keep insertion order.
func (b *Builder) Order() ([]string, error) {
	if err := b.graph.Resolve(); err != nil {
		return nil, err
	}
	return b.topologicalSort()
}

func (b *Builder) outputs() (map[string]wetwire.Output, error) {
	out := make(map[string]wetwire.Output)

	add := func(node *network.Node, description string) error {
		key := node.Name + "Id"
		value, err := plain(intrinsics.Ref{LogicalName: node.Name})
		if err != nil {
			return err
		}
		export, err := plain(intrinsics.StackExportName(key))
		if err != nil {
			return err
		}
		out[key] = wetwire.Output{
			Description: description,
			Value:       value,
			Export:      &wetwire.OutputExport{Name: export},
		}
		return nil
	}

	for _, n := range b.graph.OfKind(network.KindVPC) {
		if err := add(n, "VPC ID"); err != nil {
			return nil, err
		}
	}
	for _, n := range b.graph.OfKind(network.KindSubnet) {
		subnet := n.Resource.(*network.Subnet)
		desc := fmt.Sprintf("Subnet %s in %s", subnet.CidrBlock, subnet.AvailabilityZone)
		if err := add(n, desc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// plain converts an intrinsic to the generic map form, so the YAML encoder
// renders it the same way as encoding/json.
func plain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// topologicalSort returns node names in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	nodes := b.graph.Nodes()
	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		position[n.Name] = i
	}

	// Build adjacency list
	dependents := make(map[string][]string)
	inDegree := make(map[string]int)
	for _, n := range nodes {
		inDegree[n.Name] = 0
	}
	for _, n := range nodes {
		for _, dep := range n.Targets() {
			if _, exists := position[dep]; exists {
				dependents[dep] = append(dependents[dep], n.Name)
				inDegree[n.Name]++
			}
		}
	}

	byPosition := func(q []string) {
		sort.Slice(q, func(i, j int) bool { return position[q[i]] < position[q[j]] })
	}

	// Kahn's algorithm
	var queue []string
	for _, n := range nodes {
		if inDegree[n.Name] == 0 {
			queue = append(queue, n.Name)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range dependents[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				byPosition(queue)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var cycle []string
	var findCycle func(name string) bool
	findCycle = func(name string) bool {
		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		node, _ := b.graph.Node(name)
		for _, dep := range node.Targets() {
			if !b.graph.Has(dep) {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					return true
				}
			} else if onPath[dep] {
				for i, p := range path {
					if p == dep {
						cycle = append(append([]string{}, path[i:]...), dep)
						break
					}
				}
				return true
			}
		}

		onPath[name] = false
		path = path[:len(path)-1]
		return false
	}

	for _, n := range b.graph.Nodes() {
		if !visited[n.Name] && findCycle(n.Name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " -> "))
	}
	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return yaml.Marshal(t)
}

// Render serializes the template in the named format, "json" or "yaml".
func Render(t *wetwire.Template, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return ToJSON(t)
	case "yaml", "yml":
		return ToYAML(t)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
