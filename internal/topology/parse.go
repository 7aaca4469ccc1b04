package topology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	keyWrapper      = "subnet_mapping"
	keyEnvironments = "environments"
	keyNumberOfAZs  = "number_of_azs"
	keyServices     = "service_name_for_subnets"
)

func parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping at the top level", root.Line)
	}
	if wrapped := lookup(root, keyWrapper); wrapped != nil {
		if wrapped.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: %s must be a mapping", wrapped.Line, keyWrapper)
		}
		root = wrapped
	}

	cfg := &Config{}

	envNode := lookup(root, keyEnvironments)
	if envNode == nil {
		return nil, fmt.Errorf("missing key %q", keyEnvironments)
	}
	err := eachPair(envNode, keyEnvironments, func(name string, value *yaml.Node) error {
		octet, err := decodeInt(value, keyEnvironments+"."+name)
		if err != nil {
			return err
		}
		cfg.environments = append(cfg.environments, Environment{Name: name, Octet: octet})
		return nil
	})
	if err != nil {
		return nil, err
	}

	azNode := lookup(root, keyNumberOfAZs)
	if azNode == nil {
		return nil, fmt.Errorf("missing key %q", keyNumberOfAZs)
	}
	if cfg.numberOfAZs, err = decodeInt(azNode, keyNumberOfAZs); err != nil {
		return nil, err
	}

	svcNode := lookup(root, keyServices)
	if svcNode == nil {
		return nil, fmt.Errorf("missing key %q", keyServices)
	}
	err = eachPair(svcNode, keyServices, func(tierName string, tierNode *yaml.Node) error {
		tier := Tier{Name: tierName}
		path := keyServices + "." + tierName
		err := eachPair(tierNode, path, func(name string, value *yaml.Node) error {
			octet, err := decodeInt(value, path+"."+name)
			if err != nil {
				return err
			}
			tier.Services = append(tier.Services, Service{Name: name, Octet: octet})
			return nil
		})
		if err != nil {
			return err
		}
		cfg.tiers = append(cfg.tiers, tier)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve follows alias nodes to the node they anchor.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

type pair struct {
	key   string
	value *yaml.Node
}

// pairs returns the entries of a mapping node in document order with aliases
// resolved and "<<" merge keys expanded. Merged entries come first; an
// explicit key overrides a merged one in place.
func pairs(m *yaml.Node, path string) ([]pair, error) {
	m = resolve(m)
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", m.Line, path)
	}

	var merged, own []pair
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], resolve(m.Content[i+1])
		if k.ShortTag() != "!!merge" {
			own = append(own, pair{key: k.Value, value: v})
			continue
		}
		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			src = resolve(src)
			if src.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: %s: merge key must reference a mapping", k.Line, path)
			}
			more, err := pairs(src, path)
			if err != nil {
				return nil, err
			}
			merged = append(merged, more...)
		}
	}

	out := make([]pair, 0, len(merged)+len(own))
	index := make(map[string]int)
	for _, p := range append(merged, own...) {
		if i, ok := index[p.key]; ok {
			out[i].value = p.value
			continue
		}
		index[p.key] = len(out)
		out = append(out, p)
	}
	return out, nil
}

// lookup returns the value node of key in a mapping node, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	ps, err := pairs(m, "")
	if err != nil {
		return nil
	}
	for _, p := range ps {
		if p.key == key {
			return p.value
		}
	}
	return nil
}

// eachPair walks a mapping node in document order.
func eachPair(m *yaml.Node, path string, fn func(key string, value *yaml.Node) error) error {
	ps, err := pairs(m, path)
	if err != nil {
		return err
	}
	for _, p := range ps {
		if err := fn(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// decodeInt accepts integer scalars and quoted integers such as "1".
func decodeInt(n *yaml.Node, path string) (int, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: %s must be an integer", n.Line, path)
	}
	if n.ShortTag() == "!!str" {
		v, err := strconv.Atoi(strings.TrimSpace(n.Value))
		if err != nil {
			return 0, fmt.Errorf("line %d: %s must be an integer: %q", n.Line, path, n.Value)
		}
		return v, nil
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, fmt.Errorf("line %d: %s must be an integer: %w", n.Line, path, err)
	}
	return v, nil
}
