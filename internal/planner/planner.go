// Package planner derives the subnet plan of an environment.
//
// For every availability zone, tier and service the plan holds one /24
// subnet: its CIDR, its logical ID and the zone it lives in.
package planner

import (
	"fmt"
	"net/netip"
	"strconv"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/naming"
	"github.com/lex00/wetwire-vpc-go/internal/topology"
)

// Entry is one planned subnet.
type Entry struct {
	ID       string
	CIDR     string
	Service  string
	Tier     string
	AZNumber int // 1-based
	AZName   string
}

// Plan is the ordered set of subnets for one environment.
type Plan struct {
	Environment string
	Account     string
	EnvOctet    int
	Entries     []Entry
	// Warnings lists non-fatal findings, such as CIDRs that are not valid
	// IPv4 prefixes.
	Warnings []string

	index map[string]int
}

// Options tunes planning.
type Options struct {
	// LegacyZoneIndex resolves zone names with the 1-based AZ number used as
	// a 0-based index, so AZ 1 lands in the second zone of the list. This
	// reproduces templates generated before the lookup was corrected.
	LegacyZoneIndex bool
}

// New plans the subnets of env. zones is the ordered list of available zone
// names of the target region.
func New(env, account string, cfg *topology.Config, zones []string, opts Options) (*Plan, error) {
	envOctet, err := cfg.EnvironmentOctet(env)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Environment: env,
		Account:     account,
		EnvOctet:    envOctet,
		index:       make(map[string]int),
	}

	tiers := cfg.Tiers()
	for az := 1; az <= cfg.NumberOfAZs(); az++ {
		azName, err := zoneName(zones, az, opts)
		if err != nil {
			return nil, err
		}
		for _, tier := range tiers {
			for _, svc := range tier.Services {
				entry := Entry{
					ID:       naming.SubnetID(account, env, svc.Name, az, tier.Name),
					CIDR:     CIDR(envOctet, svc.Octet, az),
					Service:  svc.Name,
					Tier:     tier.Name,
					AZNumber: az,
					AZName:   azName,
				}
				if err := p.add(entry); err != nil {
					return nil, err
				}
			}
		}
	}

	return p, nil
}

// CIDR renders 10.<envOctet>.<serviceOctet><az>.0/24. The service octet and
// the AZ number are concatenated as decimal strings, not added.
func CIDR(envOctet, serviceOctet, az int) string {
	return fmt.Sprintf("10.%d.%d%d.0/24", envOctet, serviceOctet, az)
}

// ValidPrefix reports whether cidr parses as an IPv4 prefix.
func ValidPrefix(cidr string) bool {
	p, err := netip.ParsePrefix(cidr)
	return err == nil && p.Addr().Is4()
}

func zoneName(zones []string, az int, opts Options) (string, error) {
	idx := az - 1
	if opts.LegacyZoneIndex {
		idx = az
	}
	if idx < 0 || idx >= len(zones) {
		return "", &wetwire.LookupError{
			Kind:   "availability zone",
			Key:    strconv.Itoa(az),
			Detail: fmt.Sprintf("index %d out of range for %d available zones", idx, len(zones)),
		}
	}
	return zones[idx], nil
}

func (p *Plan) add(e Entry) error {
	if _, exists := p.index[e.ID]; exists {
		return &wetwire.DuplicateNameError{Kind: "subnet", Name: e.ID}
	}
	if !ValidPrefix(e.CIDR) {
		p.Warnings = append(p.Warnings, fmt.Sprintf("subnet %s: %s is not a valid IPv4 prefix", e.ID, e.CIDR))
	}
	p.index[e.ID] = len(p.Entries)
	p.Entries = append(p.Entries, e)
	return nil
}

// Get returns the entry with the given ID.
func (p *Plan) Get(id string) (Entry, bool) {
	i, ok := p.index[id]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Len is the number of planned subnets.
func (p *Plan) Len() int {
	return len(p.Entries)
}

// ByService returns the entries of a service in plan order.
func (p *Plan) ByService(service string) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.Service == service {
			out = append(out, e)
		}
	}
	return out
}

// Result converts the plan to its JSON contract.
func (p *Plan) Result() wetwire.PlanResult {
	res := wetwire.PlanResult{
		Environment: p.Environment,
		Account:     p.Account,
		Subnets:     make([]wetwire.PlanSubnet, 0, len(p.Entries)),
		Warnings:    p.Warnings,
	}
	for _, e := range p.Entries {
		res.Subnets = append(res.Subnets, wetwire.PlanSubnet{
			ID:       e.ID,
			CIDR:     e.CIDR,
			Service:  e.Service,
			Tier:     e.Tier,
			AZNumber: e.AZNumber,
			AZName:   e.AZName,
		})
	}
	return res
}
