package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

func TestKind_ResourceType(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		expected string
	}{
		{KindVPC, "VPC", "AWS::EC2::VPC"},
		{KindNatGateway, "NatGateway", "AWS::EC2::NatGateway"},
		{KindSubnetRouteTableAssociation, "SubnetRouteTableAssociation", "AWS::EC2::SubnetRouteTableAssociation"},
		{KindLogGroup, "LogGroup", "AWS::Logs::LogGroup"},
		{KindIAMRole, "IAMRole", "AWS::IAM::Role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.expected, tt.kind.ResourceType())
		})
	}

	assert.Len(t, Kinds(), 12)
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestRef_MarshalJSON(t *testing.T) {
	data, err := Ref{Name: "UATVPC"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "UATVPC"}`, string(data))

	data, err = Attr{Name: "Uat1NatEIP", Attribute: "AllocationId"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::GetAtt": ["Uat1NatEIP", "AllocationId"]}`, string(data))

	assert.True(t, Ref{}.IsZero())
	assert.True(t, Attr{}.IsZero())
}

func TestGraph_AddRejectsDuplicates(t *testing.T) {
	g := NewGraph()
	_, err := g.Add("InternetGateway", &InternetGateway{})
	require.NoError(t, err)

	_, err = g.Add("InternetGateway", &InternetGateway{})
	var dup *wetwire.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "InternetGateway", dup.Name)
	assert.Equal(t, 1, g.Count())
}

func TestGraph_OrderAndLookup(t *testing.T) {
	g := NewGraph()
	_, _ = g.Add("B", &InternetGateway{})
	_, _ = g.Add("A", &VPC{CidrBlock: "10.0.0.0/16"})
	_, _ = g.Add("C", &InternetGateway{})

	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)

	n, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, KindVPC, n.Kind())

	_, ok = g.Node("missing")
	assert.False(t, ok)

	assert.Len(t, g.OfKind(KindInternetGateway), 2)
}

func TestNode_References(t *testing.T) {
	n := &Node{
		Name: "Uat1NatGW",
		Resource: &NatGateway{
			AllocationId: Attr{Name: "Uat1NatEIP", Attribute: "AllocationId"},
			SubnetId:     Ref{Name: "mordorUatNat1Internal"},
		},
		DependsOn: []string{"IGWAttachment"},
	}

	assert.Equal(t, []Reference{
		{Property: "AllocationId", Target: "Uat1NatEIP", Attribute: "AllocationId"},
		{Property: "SubnetId", Target: "mordorUatNat1Internal"},
		{Property: "DependsOn[0]", Target: "IGWAttachment"},
	}, n.References())
	assert.True(t, n.References()[2].IsDependsOn())
	assert.False(t, n.References()[0].IsDependsOn())
}

func TestNode_ReferencesSkipUnsetLinks(t *testing.T) {
	n := &Node{
		Name: "UatDmz1IGW",
		Resource: &Route{
			RouteTableId:         Ref{Name: "UatDmz1RT"},
			DestinationCidrBlock: DefaultRoute,
			GatewayId:            Ref{Name: "InternetGateway"},
		},
	}
	assert.Equal(t, []string{"UatDmz1RT", "InternetGateway"}, n.Targets())
}

func TestGraph_Resolve(t *testing.T) {
	g := NewGraph()
	_, _ = g.Add("VPC", &VPC{CidrBlock: "10.1.0.0/16"})
	_, _ = g.Add("RT", &RouteTable{VpcId: Ref{Name: "VPC"}})
	require.NoError(t, g.Resolve())

	_, _ = g.Add("Route", &Route{
		RouteTableId:         Ref{Name: "RT"},
		DestinationCidrBlock: DefaultRoute,
		NatGatewayId:         Ref{Name: "Uat2NatGW"},
	})

	err := g.Resolve()
	var unresolved *wetwire.UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "Route", unresolved.From)
	assert.Equal(t, "NatGatewayId", unresolved.Property)
	assert.Equal(t, "Uat2NatGW", unresolved.Target)
}

func TestGraph_ResolveDependsOn(t *testing.T) {
	g := NewGraph()
	_, _ = g.Add("FlowLog", &LogGroup{LogGroupName: "x"}, "Missing")

	err := g.Resolve()
	var unresolved *wetwire.UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "DependsOn[0]", unresolved.Property)
}
