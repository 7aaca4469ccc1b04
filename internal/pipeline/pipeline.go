// Package pipeline runs the generation stages in order: load the topology,
// plan subnets, build the network graph, attach flow logs, render the
// template and write the artifact.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/artifact"
	"github.com/lex00/wetwire-vpc-go/internal/network"
	"github.com/lex00/wetwire-vpc-go/internal/planner"
	"github.com/lex00/wetwire-vpc-go/internal/template"
	"github.com/lex00/wetwire-vpc-go/internal/topology"
	"github.com/lex00/wetwire-vpc-go/internal/zones"
)

// Defaults for Inputs.
const (
	DefaultConfigPath  = "subnet_mapping.yml"
	DefaultEnvironment = "uat"
	DefaultAccount     = "mordor"
	DefaultRegion      = "ap-south-1"
	DefaultFormat      = "json"
)

// Inputs are the run parameters of one generation.
type Inputs struct {
	ConfigPath  string
	Environment string
	Account     string
	Region      string
	OutputDir   string
	Format      string // "json" or "yaml"
	Description string

	LegacyZoneIndex bool
	Outputs         bool
}

// DefaultInputs returns Inputs populated with the defaults.
func DefaultInputs() Inputs {
	return Inputs{
		ConfigPath:  DefaultConfigPath,
		Environment: DefaultEnvironment,
		Account:     DefaultAccount,
		Region:      DefaultRegion,
		OutputDir:   ".",
		Format:      DefaultFormat,
	}
}

// Result holds the output of every stage.
type Result struct {
	Config   *topology.Config
	Plan     *planner.Plan
	Network  *network.Network
	Template *wetwire.Template
	// Warnings collects the planner and builder warnings.
	Warnings []string
}

// Generator runs the stages against one zone provider.
type Generator struct {
	log   zerolog.Logger
	zones zones.Provider
}

// New creates a Generator.
func New(log zerolog.Logger, provider zones.Provider) *Generator {
	return &Generator{log: log, zones: provider}
}

// Plan loads the topology and plans the subnets of in.Environment.
func (g *Generator) Plan(ctx context.Context, in Inputs) (*topology.Config, *planner.Plan, error) {
	g.log.Debug().Str("path", in.ConfigPath).Msg("loading topology")
	cfg, err := topology.Load(in.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	g.log.Debug().Str("region", in.Region).Msg("querying availability zones")
	zoneNames, err := g.zones.AvailableZones(ctx, in.Region)
	if err != nil {
		return nil, nil, fmt.Errorf("listing availability zones in %s: %w", in.Region, err)
	}

	plan, err := planner.New(in.Environment, in.Account, cfg, zoneNames, planner.Options{
		LegacyZoneIndex: in.LegacyZoneIndex,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("planning subnets: %w", err)
	}
	g.log.Debug().
		Str("environment", in.Environment).
		Int("subnets", plan.Len()).
		Strs("zones", zoneNames).
		Msg("planned subnets")

	for _, w := range plan.Warnings {
		g.log.Warn().Str("stage", "plan").Msg(w)
	}
	return cfg, plan, nil
}

// Run executes every stage except the write.
func (g *Generator) Run(ctx context.Context, in Inputs) (*Result, error) {
	cfg, plan, err := g.Plan(ctx, in)
	if err != nil {
		return nil, err
	}

	net, err := network.Build(plan, cfg)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	for _, w := range net.Warnings {
		g.log.Warn().Str("stage", "build").Msg(w)
	}

	if err := network.AttachFlowLogs(net); err != nil {
		return nil, fmt.Errorf("attaching flow logs: %w", err)
	}
	g.log.Debug().Int("resources", net.Graph.Count()).Msg("built network graph")

	tmpl, err := template.NewBuilder(net.Graph, template.Options{
		Description: in.Description,
		Outputs:     in.Outputs,
	}).Build()
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}

	warnings := append(append([]string{}, plan.Warnings...), net.Warnings...)
	return &Result{
		Config:   cfg,
		Plan:     plan,
		Network:  net,
		Template: tmpl,
		Warnings: warnings,
	}, nil
}

// Write renders the template in in.Format and writes it to
// <in.OutputDir>/<in.Environment>_vpc.
func (g *Generator) Write(res *Result, in Inputs) (string, error) {
	data, err := template.Render(res.Template, in.Format)
	if err != nil {
		return "", err
	}

	path, err := artifact.Write(in.OutputDir, in.Environment, data)
	if err != nil {
		return "", err
	}
	g.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("wrote template")
	return path, nil
}

// Generate runs every stage and writes the artifact.
func (g *Generator) Generate(ctx context.Context, in Inputs) (*Result, string, error) {
	res, err := g.Run(ctx, in)
	if err != nil {
		return nil, "", err
	}
	path, err := g.Write(res, in)
	if err != nil {
		return res, "", err
	}
	return res, path, nil
}
