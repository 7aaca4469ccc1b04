// Package network models the VPC as a graph of typed resource nodes and
// builds that graph from a subnet plan.
//
// Nodes link to each other through the symbolic Ref and Attr types. Links are
// not checked when a node is added, so nodes can be declared in any order;
// Graph.Resolve reports the first link whose target was never declared.
package network

import (
	"fmt"
	"reflect"
	"strings"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

// Node is one named resource in the graph.
type Node struct {
	Name      string
	Resource  Resource
	DependsOn []string
}

// Kind returns the resource kind of the node.
func (n *Node) Kind() Kind { return n.Resource.Kind() }

// Reference is an outgoing link of a node. Property is the path of the
// field holding it, e.g. "AllocationId" or "DependsOn[0]". Attribute is set
// for Attr links.
type Reference struct {
	Property  string
	Target    string
	Attribute string
}

// IsDependsOn reports whether the link comes from the DependsOn list.
func (r Reference) IsDependsOn() bool {
	return strings.HasPrefix(r.Property, "DependsOn[")
}

// References returns the outgoing links of the node in field order,
// followed by its DependsOn entries.
func (n *Node) References() []Reference {
	var refs []Reference
	collectRefs(reflect.ValueOf(n.Resource), "", &refs)
	for i, dep := range n.DependsOn {
		refs = append(refs, Reference{Property: fmt.Sprintf("DependsOn[%d]", i), Target: dep})
	}
	return refs
}

// Targets returns the distinct names the node links to.
func (n *Node) Targets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ref := range n.References() {
		if !seen[ref.Target] {
			seen[ref.Target] = true
			out = append(out, ref.Target)
		}
	}
	return out
}

var (
	refType  = reflect.TypeOf(Ref{})
	attrType = reflect.TypeOf(Attr{})
)

func collectRefs(v reflect.Value, path string, out *[]Reference) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			collectRefs(v.Elem(), path, out)
		}
	case reflect.Struct:
		switch v.Type() {
		case refType:
			if r := v.Interface().(Ref); !r.IsZero() {
				*out = append(*out, Reference{Property: path, Target: r.Name})
			}
			return
		case attrType:
			if a := v.Interface().(Attr); !a.IsZero() {
				*out = append(*out, Reference{Property: path, Target: a.Name, Attribute: a.Attribute})
			}
			return
		}
		typ := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			collectRefs(v.Field(i), joinPath(path, propertyName(field)), out)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			collectRefs(v.Index(i), fmt.Sprintf("%s[%d]", path, i), out)
		}
	}
}

func propertyName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return name
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

// Graph is an insertion-ordered set of uniquely named nodes.
type Graph struct {
	nodes []*Node
	index map[string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add declares a node. A second node with the same name is rejected with a
// DuplicateNameError.
func (g *Graph) Add(name string, res Resource, dependsOn ...string) (*Node, error) {
	if _, exists := g.index[name]; exists {
		return nil, &wetwire.DuplicateNameError{Kind: "resource", Name: name}
	}
	n := &Node{Name: name, Resource: res, DependsOn: dependsOn}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n, nil
}

// Node returns the named node.
func (g *Graph) Node(name string) (*Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with the name exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// OfKind returns the nodes of one kind in insertion order.
func (g *Graph) OfKind(k Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// Count is the number of nodes.
func (g *Graph) Count() int { return len(g.nodes) }

// Resolve checks that every link points at a declared node. Nodes are
// checked in insertion order, so the reported error is deterministic.
func (g *Graph) Resolve() error {
	for _, n := range g.nodes {
		for _, ref := range n.References() {
			if !g.Has(ref.Target) {
				return &wetwire.UnresolvedReferenceError{From: n.Name, Property: ref.Property, Target: ref.Target}
			}
		}
	}
	return nil
}
