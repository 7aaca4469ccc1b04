// Package topology loads the subnet mapping that drives VPC generation.
//
// The mapping file names the environments (each with its second CIDR octet),
// the number of availability zones, and the services of every tier (each
// with the octet prefix of its subnets). Document order is preserved so that
// planning is deterministic.
package topology

import (
	"errors"
	"fmt"
	"os"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

// Config is the immutable topology. Values are copied out by accessors so
// callers cannot mutate a loaded Config.
type Config struct {
	environments []Environment
	numberOfAZs  int
	tiers        []Tier
}

// Environment maps an environment name to the second octet of its VPC CIDR.
type Environment struct {
	Name  string
	Octet int
}

// Tier is a routing segment (dmz, app, internal, ...) and its services.
type Tier struct {
	Name     string
	Services []Service
}

// Service is a subnet family inside a tier.
type Service struct {
	Name  string
	Octet int
}

// New builds a Config from already-parsed values. It is used by tests and by
// callers that assemble a topology in code.
func New(environments []Environment, numberOfAZs int, tiers []Tier) (*Config, error) {
	c := &Config{numberOfAZs: numberOfAZs}
	c.environments = append(c.environments, environments...)
	for _, t := range tiers {
		c.tiers = append(c.tiers, Tier{Name: t.Name, Services: append([]Service(nil), t.Services...)})
	}
	if err := c.validate(); err != nil {
		return nil, &wetwire.ConfigLoadError{Err: err}
	}
	return c, nil
}

// Load reads and parses the mapping file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &wetwire.ConfigLoadError{Path: path, Err: err}
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, &wetwire.ConfigLoadError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse parses mapping YAML held in memory.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, &wetwire.ConfigLoadError{Err: err}
	}
	return cfg, nil
}

// Environments returns the environments in document order.
func (c *Config) Environments() []Environment {
	return append([]Environment(nil), c.environments...)
}

// NumberOfAZs is the number of availability zones every tier spans.
func (c *Config) NumberOfAZs() int {
	return c.numberOfAZs
}

// Tiers returns the tiers in document order.
func (c *Config) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = Tier{Name: t.Name, Services: append([]Service(nil), t.Services...)}
	}
	return out
}

// EnvironmentOctet returns the VPC octet of env.
func (c *Config) EnvironmentOctet(env string) (int, error) {
	for _, e := range c.environments {
		if e.Name == env {
			return e.Octet, nil
		}
	}
	return 0, &wetwire.LookupError{Kind: "environment", Key: env}
}

// ServiceCount is the total number of services across all tiers.
func (c *Config) ServiceCount() int {
	n := 0
	for _, t := range c.tiers {
		n += len(t.Services)
	}
	return n
}

// HasTier reports whether a tier with the given name is defined.
func (c *Config) HasTier(name string) bool {
	for _, t := range c.tiers {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (c *Config) validate() error {
	if len(c.environments) == 0 {
		return errors.New("environments: at least one environment is required")
	}
	if c.numberOfAZs < 1 {
		return fmt.Errorf("number_of_azs: must be at least 1, got %d", c.numberOfAZs)
	}
	if len(c.tiers) == 0 {
		return errors.New("service_name_for_subnets: at least one tier is required")
	}
	seen := make(map[string]bool)
	for _, e := range c.environments {
		if seen[e.Name] {
			return fmt.Errorf("environments: duplicate environment %q", e.Name)
		}
		seen[e.Name] = true
	}
	tiers := make(map[string]bool)
	for _, t := range c.tiers {
		if tiers[t.Name] {
			return fmt.Errorf("service_name_for_subnets: duplicate tier %q", t.Name)
		}
		tiers[t.Name] = true
		services := make(map[string]bool)
		for _, s := range t.Services {
			if services[s.Name] {
				return fmt.Errorf("service_name_for_subnets.%s: duplicate service %q", t.Name, s.Name)
			}
			services[s.Name] = true
		}
	}
	return nil
}
