package linter

import (
	"fmt"
	"strconv"

	"github.com/lex00/wetwire-vpc-go/internal/naming"
	"github.com/lex00/wetwire-vpc-go/internal/topology"
)

// Rule is the interface for lint rules.
type Rule interface {
	ID() string
	Description() string
	Check(cfg *topology.Config) []Issue
}

// AllRules returns every rule in ID order.
func AllRules() []Rule {
	return []Rule{
		EnvironmentOctetRange{},
		ThirdOctetRange{},
		CIDRCollision{},
		MissingNatService{},
		MultipleNatServices{},
		InvalidName{},
	}
}

// thirdOctet is the decimal concatenation of the service octet and the AZ
// number, e.g. (30, 1) -> 301.
func thirdOctet(serviceOctet, az int) string {
	return strconv.Itoa(serviceOctet) + strconv.Itoa(az)
}

// EnvironmentOctetRange flags environment octets outside 0..255.
type EnvironmentOctetRange struct{}

func (r EnvironmentOctetRange) ID() string { return "VPC001" }
func (r EnvironmentOctetRange) Description() string {
	return "Environment octet must be between 0 and 255"
}

func (r EnvironmentOctetRange) Check(cfg *topology.Config) []Issue {
	var issues []Issue
	for _, env := range cfg.Environments() {
		if env.Octet < 0 || env.Octet > 255 {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Subject:  env.Name,
				Message:  fmt.Sprintf("environment %s: octet %d gives VPC CIDR 10.%d.0.0/16, which is not a valid prefix", env.Name, env.Octet, env.Octet),
			})
		}
	}
	return issues
}

// ThirdOctetRange flags services whose octet, followed by an AZ number,
// exceeds 255.
type ThirdOctetRange struct{}

func (r ThirdOctetRange) ID() string { return "VPC002" }
func (r ThirdOctetRange) Description() string {
	return "Service octet and AZ number must form a third octet of at most 255"
}

func (r ThirdOctetRange) Check(cfg *topology.Config) []Issue {
	var issues []Issue
	for _, tier := range cfg.Tiers() {
		for _, svc := range tier.Services {
			for az := 1; az <= cfg.NumberOfAZs(); az++ {
				octet := thirdOctet(svc.Octet, az)
				if n, err := strconv.Atoi(octet); err == nil && n >= 0 && n <= 255 {
					continue
				}
				issues = append(issues, Issue{
					Rule:       r.ID(),
					Severity:   SeverityWarning,
					Subject:    tier.Name + "." + svc.Name,
					Message:    fmt.Sprintf("service %s in tier %s: AZ %d yields third octet %s", svc.Name, tier.Name, az, octet),
					Suggestion: octetSuggestion(cfg.NumberOfAZs()),
				})
				break
			}
		}
	}
	return issues
}

// maxServiceOctet returns the largest service octet that stays within 255
// for every AZ number up to azs, or -1 when none does.
func maxServiceOctet(azs int) int {
	for octet := 255; octet >= 0; octet-- {
		ok := true
		for az := 1; az <= azs && ok; az++ {
			n, err := strconv.Atoi(thirdOctet(octet, az))
			ok = err == nil && n <= 255
		}
		if ok {
			return octet
		}
	}
	return -1
}

func octetSuggestion(azs int) string {
	if limit := maxServiceOctet(azs); limit >= 0 {
		return fmt.Sprintf("use a service octet of %d or less", limit)
	}
	return fmt.Sprintf("no service octet fits %d AZs; reduce number_of_azs", azs)
}

// CIDRCollision flags (service, az) pairs that derive the same subnet CIDR.
type CIDRCollision struct{}

func (r CIDRCollision) ID() string { return "VPC003" }
func (r CIDRCollision) Description() string {
	return "Subnets must not derive the same CIDR"
}

func (r CIDRCollision) Check(cfg *topology.Config) []Issue {
	var issues []Issue
	seen := make(map[string]string)
	for az := 1; az <= cfg.NumberOfAZs(); az++ {
		for _, tier := range cfg.Tiers() {
			for _, svc := range tier.Services {
				subject := fmt.Sprintf("%s.%s (AZ %d)", tier.Name, svc.Name, az)
				octet := thirdOctet(svc.Octet, az)
				if first, ok := seen[octet]; ok {
					issues = append(issues, Issue{
						Rule:     r.ID(),
						Severity: SeverityError,
						Subject:  tier.Name + "." + svc.Name,
						Message:  fmt.Sprintf("%s and %s both derive 10.x.%s.0/24", first, subject, octet),
					})
					continue
				}
				seen[octet] = subject
			}
		}
	}
	return issues
}

// MissingNatService flags topologies whose private tiers would route to NAT
// gateways that are never created.
type MissingNatService struct{}

func (r MissingNatService) ID() string { return "VPC004" }
func (r MissingNatService) Description() string {
	return "app and internal tiers need a nat service"
}

func (r MissingNatService) Check(cfg *topology.Config) []Issue {
	if natServiceCount(cfg) > 0 {
		return nil
	}
	var issues []Issue
	for _, tier := range []string{"app", "internal"} {
		if cfg.HasTier(tier) {
			issues = append(issues, Issue{
				Rule:       r.ID(),
				Severity:   SeverityError,
				Subject:    tier,
				Message:    fmt.Sprintf("tier %s routes through a NAT gateway but no tier defines a nat service", tier),
				Suggestion: "add a nat service, e.g. internal: {nat: 30}",
			})
		}
	}
	return issues
}

// MultipleNatServices flags topologies with more than one nat service. Only
// the first nat subnet of each AZ gets a gateway.
type MultipleNatServices struct{}

func (r MultipleNatServices) ID() string { return "VPC005" }
func (r MultipleNatServices) Description() string {
	return "Only one nat service is used per AZ"
}

func (r MultipleNatServices) Check(cfg *topology.Config) []Issue {
	var tiers []string
	for _, tier := range cfg.Tiers() {
		for _, svc := range tier.Services {
			if svc.Name == "nat" {
				tiers = append(tiers, tier.Name)
			}
		}
	}
	if len(tiers) < 2 {
		return nil
	}
	return []Issue{{
		Rule:     r.ID(),
		Severity: SeverityWarning,
		Subject:  "nat",
		Message:  fmt.Sprintf("nat service defined in tiers %v; only the one in tier %s gets NAT gateways", tiers, tiers[0]),
	}}
}

func natServiceCount(cfg *topology.Config) int {
	n := 0
	for _, tier := range cfg.Tiers() {
		for _, svc := range tier.Services {
			if svc.Name == "nat" {
				n++
			}
		}
	}
	return n
}

// InvalidName flags environment, tier and service names that cannot appear
// in a CloudFormation logical ID.
type InvalidName struct{}

func (r InvalidName) ID() string { return "VPC006" }
func (r InvalidName) Description() string {
	return "Environment, tier and service names must be alphanumeric"
}

func (r InvalidName) Check(cfg *topology.Config) []Issue {
	var issues []Issue
	check := func(kind, name string) {
		if naming.IsAlphanumeric(name) {
			return
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Subject:  name,
			Message:  fmt.Sprintf("%s name %q is not alphanumeric and cannot be part of a logical ID", kind, name),
		})
	}

	for _, env := range cfg.Environments() {
		check("environment", env.Name)
	}
	for _, tier := range cfg.Tiers() {
		check("tier", tier.Name)
		for _, svc := range tier.Services {
			check("service", svc.Name)
		}
	}
	return issues
}
