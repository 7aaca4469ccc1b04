package network

import (
	"fmt"

	"github.com/lex00/wetwire-vpc-go/internal/naming"
	"github.com/lex00/wetwire-vpc-go/internal/planner"
	"github.com/lex00/wetwire-vpc-go/internal/topology"
	"github.com/lex00/wetwire-vpc-go/intrinsics"
)

const (
	// DefaultRoute is the destination of every internet and NAT route.
	DefaultRoute = "0.0.0.0/0"

	// NatService is the service whose subnets host the NAT gateways.
	NatService = "nat"

	// TierDMZ routes to the internet gateway.
	TierDMZ = "dmz"
	// TierApp routes to the NAT gateway of its AZ.
	TierApp = "app"
	// TierInternal routes to the NAT gateway of its AZ.
	TierInternal = "internal"
)

// Network is the built VPC graph.
type Network struct {
	Graph       *Graph
	Environment string
	VPC         Ref
	// NatGateways maps an AZ number to the name of its NAT gateway.
	NatGateways map[int]string
	Warnings    []string
}

// Build assembles the VPC, its internet gateway, subnets, NAT gateways,
// route tables, routes and subnet associations for a plan, then resolves
// every link. A route to a NAT gateway that was never created fails with an
// UnresolvedReferenceError.
func Build(plan *planner.Plan, cfg *topology.Config) (*Network, error) {
	b := &builder{
		plan: plan,
		cfg:  cfg,
		env:  plan.Environment,
		net: &Network{
			Graph:       NewGraph(),
			Environment: plan.Environment,
			NatGateways: make(map[int]string),
		},
	}

	steps := []func() error{
		b.vpc,
		b.internetGateway,
		b.subnets,
		b.natGateways,
		b.routeTables,
		b.associations,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if err := b.net.Graph.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving network graph: %w", err)
	}
	return b.net, nil
}

type builder struct {
	plan *planner.Plan
	cfg  *topology.Config
	env  string
	net  *Network
}

func (b *builder) add(name string, res Resource, dependsOn ...string) error {
	_, err := b.net.Graph.Add(name, res, dependsOn...)
	return err
}

func (b *builder) vpc() error {
	name := naming.VPC(b.env)
	b.net.VPC = Ref{Name: name}
	return b.add(name, &VPC{
		CidrBlock:          fmt.Sprintf("10.%d.0.0/16", b.plan.EnvOctet),
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		InstanceTenancy:    "default",
		Tags:               []intrinsics.Tag{intrinsics.NameTag(name)},
	})
}

func (b *builder) internetGateway() error {
	if err := b.add(naming.InternetGateway, &InternetGateway{}); err != nil {
		return err
	}
	return b.add(naming.GatewayAttachment, &VPCGatewayAttachment{
		VpcId:             b.net.VPC,
		InternetGatewayId: Ref{Name: naming.InternetGateway},
	})
}

func (b *builder) subnets() error {
	for _, e := range b.plan.Entries {
		err := b.add(e.ID, &Subnet{
			VpcId:            b.net.VPC,
			CidrBlock:        e.CIDR,
			AvailabilityZone: e.AZName,
			Tags:             []intrinsics.Tag{intrinsics.NameTag(naming.SubnetTag(e.ID))},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// natGateways creates one elastic IP and NAT gateway per AZ, placed in the
// first nat subnet of that AZ.
func (b *builder) natGateways() error {
	for _, e := range b.plan.ByService(NatService) {
		if existing, ok := b.net.NatGateways[e.AZNumber]; ok {
			b.net.Warnings = append(b.net.Warnings, fmt.Sprintf(
				"subnet %s: AZ %d already has NAT gateway %s, not creating another", e.ID, e.AZNumber, existing))
			continue
		}

		eip := naming.NatEIP(b.env, e.AZNumber)
		if err := b.add(eip, &EIP{Domain: "vpc"}); err != nil {
			return err
		}
		gw := naming.NatGateway(b.env, e.AZNumber)
		err := b.add(gw, &NatGateway{
			AllocationId: Attr{Name: eip, Attribute: "AllocationId"},
			SubnetId:     Ref{Name: e.ID},
		})
		if err != nil {
			return err
		}
		b.net.NatGateways[e.AZNumber] = gw
	}
	return nil
}

// routeTables creates a route table per (tier, az) and its default route.
// dmz routes to the internet gateway, app and internal to the NAT gateway of
// the same AZ, and any other tier stays local.
func (b *builder) routeTables() error {
	for _, tier := range b.cfg.Tiers() {
		for az := 1; az <= b.cfg.NumberOfAZs(); az++ {
			rt := naming.RouteTable(b.env, tier.Name, az)
			err := b.add(rt, &RouteTable{
				VpcId: b.net.VPC,
				Tags:  []intrinsics.Tag{intrinsics.NameTag(rt)},
			})
			if err != nil {
				return err
			}

			switch tier.Name {
			case TierDMZ:
				err = b.add(naming.InternetRoute(b.env, tier.Name, az), &Route{
					RouteTableId:         Ref{Name: rt},
					DestinationCidrBlock: DefaultRoute,
					GatewayId:            Ref{Name: naming.InternetGateway},
				}, naming.GatewayAttachment)
			case TierApp, TierInternal:
				// Points at the gateway name even when the AZ has none, so
				// Resolve reports the missing gateway.
				err = b.add(naming.NatRoute(b.env, tier.Name, az), &Route{
					RouteTableId:         Ref{Name: rt},
					DestinationCidrBlock: DefaultRoute,
					NatGatewayId:         Ref{Name: naming.NatGateway(b.env, az)},
				})
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) associations() error {
	for _, e := range b.plan.Entries {
		rt := naming.RouteTable(b.env, e.Tier, e.AZNumber)
		err := b.add(naming.RouteTableAssociation(rt, e.ID, e.AZNumber), &SubnetRouteTableAssociation{
			SubnetId:     Ref{Name: e.ID},
			RouteTableId: Ref{Name: rt},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
