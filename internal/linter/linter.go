// Package linter checks a subnet topology before any subnet is planned.
//
// Rules:
//
//	VPC001: Environment octet must be a valid IPv4 octet
//	VPC002: Service octet and AZ number must form a valid third octet
//	VPC003: Two subnets must not derive the same CIDR
//	VPC004: app and internal tiers need a nat service
//	VPC005: Only one nat service is used per AZ
//	VPC006: Names must be alphanumeric
package linter

import (
	"github.com/lex00/wetwire-vpc-go/internal/topology"
)

// Severity of an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding of a rule.
type Issue struct {
	Rule       string
	Severity   Severity
	Message    string
	Subject    string // the environment, tier or service concerned
	Suggestion string
}

// Result contains the outcome of linting.
type Result struct {
	// Success is false when any issue has error severity.
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
}

// Lint runs the enabled rules over cfg.
func Lint(cfg *topology.Config, opts Options) Result {
	var issues []Issue
	for _, rule := range getRules(opts) {
		issues = append(issues, rule.Check(cfg)...)
	}

	success := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			success = false
			break
		}
	}
	return Result{Success: success, Issues: issues}
}

// LintFile loads a topology file and lints it.
func LintFile(path string, opts Options) (Result, error) {
	cfg, err := topology.Load(path)
	if err != nil {
		return Result{}, err
	}
	return Lint(cfg, opts), nil
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()

	if len(opts.EnabledRules) == 0 {
		return all
	}

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if enabled[r.ID()] {
			filtered = append(filtered, r)
		}
	}

	return filtered
}
