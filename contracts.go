// Package wetwire_vpc generates AWS CloudFormation templates for a tiered VPC.
//
// A small YAML topology describes environments, tiers and the services that
// live in each tier:
//
//	subnet_mapping:
//	  environments:
//	    uat: 1
//	  number_of_azs: 2
//	  service_name_for_subnets:
//	    dmz:
//	      web: 10
//	    app:
//	      svc: 20
//
// The wetwire-vpc CLI plans one /24 subnet per (AZ, tier, service), wires the
// VPC, gateways, route tables and flow logs, and writes the resulting template
// to <environment>_vpc.
package wetwire_vpc

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any           `json:"Value" yaml:"Value"`
	Export      *OutputExport `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// OutputExport names a cross-stack export. Name may be a plain string or an
// intrinsic such as Fn::Sub.
type OutputExport struct {
	Name any `json:"Name" yaml:"Name"`
}

// BuildResult is the JSON output from `wetwire-vpc build`.
type BuildResult struct {
	Success     bool     `json:"success"`
	Environment string   `json:"environment"`
	Path        string   `json:"path,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// PlanResult is the JSON output from `wetwire-vpc plan`.
type PlanResult struct {
	Environment string       `json:"environment"`
	Account     string       `json:"account"`
	Subnets     []PlanSubnet `json:"subnets"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// PlanSubnet is a single planned subnet.
type PlanSubnet struct {
	ID       string `json:"id"`
	CIDR     string `json:"cidr"`
	Service  string `json:"service"`
	Tier     string `json:"tier"`
	AZNumber int    `json:"az_number"`
	AZName   string `json:"az_name"`
}

// LintResult is the JSON output from `wetwire-vpc lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single linting issue.
type LintIssue struct {
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
	Subject  string `json:"subject,omitempty"`
}

// ValidateResult is the JSON output from `wetwire-vpc validate`.
type ValidateResult struct {
	Success  bool     `json:"success"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `wetwire-vpc list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// TemplateDiff groups resources by how they changed between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry describes one changed resource.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts changes by category.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `wetwire-vpc diff`.
type DiffResult struct {
	Success bool         `json:"success"`
	Diff    TemplateDiff `json:"diff"`
	Summary DiffSummary  `json:"summary"`
}
