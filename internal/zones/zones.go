// Package zones resolves the availability zones of a region.
//
// The planner consumes only the ordered list of zone names; where the list
// comes from is up to the Provider.
package zones

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Provider returns the currently available zone names of a region, in the
// order the planner should assign them.
type Provider interface {
	AvailableZones(ctx context.Context, region string) ([]string, error)
}

// Static serves a fixed zone list regardless of region.
type Static []string

// AvailableZones returns a copy of the list.
func (s Static) AvailableZones(ctx context.Context, region string) ([]string, error) {
	return append([]string(nil), s...), nil
}

// ParseStatic splits a comma-separated zone list, dropping blanks.
func ParseStatic(list string) Static {
	var out Static
	for _, z := range strings.Split(list, ",") {
		if z = strings.TrimSpace(z); z != "" {
			out = append(out, z)
		}
	}
	return out
}

// DescribeAvailabilityZonesAPI is the subset of the EC2 client used here.
type DescribeAvailabilityZonesAPI interface {
	DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
}

// EC2 queries DescribeAvailabilityZones for zones in the "available" state.
type EC2 struct {
	client DescribeAvailabilityZonesAPI
}

// NewEC2 wraps an existing client.
func NewEC2(client DescribeAvailabilityZonesAPI) *EC2 {
	return &EC2{client: client}
}

// NewEC2FromEnvironment builds a client from the default credential chain.
func NewEC2FromEnvironment(ctx context.Context, region string) (*EC2, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewEC2(ec2.NewFromConfig(cfg)), nil
}

// AvailableZones returns the zone names of region in the order EC2 lists them.
func (p *EC2) AvailableZones(ctx context.Context, region string) ([]string, error) {
	out, err := p.client.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	}, func(o *ec2.Options) {
		if region != "" {
			o.Region = region
		}
	})
	if err != nil {
		return nil, fmt.Errorf("describing availability zones in %s: %w", region, err)
	}

	names := make([]string, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		names = append(names, aws.ToString(az.ZoneName))
	}
	return names, nil
}
