package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-vpc-go/internal/pipeline"
	"github.com/lex00/wetwire-vpc-go/internal/zones"
)

// runFlags are the generation inputs shared by build, plan, list, graph and
// watch.
type runFlags struct {
	inputs pipeline.Inputs
	zones  string
}

// addRunFlags registers the shared flags on cmd and returns their target.
func addRunFlags(cmd *cobra.Command) *runFlags {
	rf := &runFlags{inputs: pipeline.DefaultInputs()}
	in := &rf.inputs

	cmd.Flags().StringVarP(&in.ConfigPath, "config", "c", in.ConfigPath, "Topology file")
	cmd.Flags().StringVarP(&in.Environment, "env", "e", in.Environment, "Environment to generate")
	cmd.Flags().StringVar(&in.Account, "account", in.Account, "Account name used in subnet identifiers")
	cmd.Flags().StringVar(&in.Region, "region", in.Region, "AWS region whose availability zones are used")
	cmd.Flags().StringVar(&rf.zones, "zones", "", "Comma-separated availability zones (skips the EC2 lookup)")
	cmd.Flags().BoolVar(&in.LegacyZoneIndex, "legacy-az-index", false, "Use zone list index N instead of N-1 for AZ number N")
	cmd.Flags().BoolVar(&in.Outputs, "outputs", false, "Export the VPC and subnet IDs as stack outputs")
	cmd.Flags().StringVar(&in.Description, "description", "", "Template description")

	return rf
}

// provider returns the static zone list when --zones is set, otherwise an
// EC2 lookup using the default AWS credential chain.
func (rf *runFlags) provider(ctx context.Context) (zones.Provider, error) {
	if rf.zones != "" {
		return zones.ParseStatic(rf.zones), nil
	}
	p, err := zones.NewEC2FromEnvironment(ctx, rf.inputs.Region)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// generator builds a pipeline.Generator for cmd.
func (rf *runFlags) generator(cmd *cobra.Command) (*pipeline.Generator, error) {
	log, err := loggerFor(cmd)
	if err != nil {
		return nil, err
	}
	provider, err := rf.provider(cmd.Context())
	if err != nil {
		return nil, err
	}
	return pipeline.New(log, provider), nil
}
