package template

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-vpc-go"
	"github.com/lex00/wetwire-vpc-go/internal/network"
	"github.com/lex00/wetwire-vpc-go/internal/planner"
	"github.com/lex00/wetwire-vpc-go/internal/serialize"
	"github.com/lex00/wetwire-vpc-go/internal/topology"
)

const scenarioYAML = `
environments: {uat: 1}
number_of_azs: 2
service_name_for_subnets:
  dmz: {web: 10}
  app: {svc: 20}
  internal: {nat: 30}
`

func scenarioNetwork(t testing.TB) *network.Network {
	t.Helper()
	cfg, err := topology.Parse([]byte(scenarioYAML))
	require.NoError(t, err)
	plan, err := planner.New("uat", "mordor", cfg, []string{"ap-south-1a", "ap-south-1b", "ap-south-1c"}, planner.Options{})
	require.NoError(t, err)
	net, err := network.Build(plan, cfg)
	require.NoError(t, err)
	require.NoError(t, network.AttachFlowLogs(net))
	return net
}

func TestBuilder_Build_Scenario(t *testing.T) {
	net := scenarioNetwork(t)

	tmpl, err := NewBuilder(net.Graph, Options{Description: "uat VPC"}).Build()
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Equal(t, "uat VPC", tmpl.Description)
	assert.Len(t, tmpl.Resources, net.Graph.Count())
	assert.Nil(t, tmpl.Outputs)

	vpc := tmpl.Resources["UATVPC"]
	assert.Equal(t, "AWS::EC2::VPC", vpc.Type)
	assert.Equal(t, "10.1.0.0/16", vpc.Properties["CidrBlock"])
	assert.Equal(t, "default", vpc.Properties["InstanceTenancy"])

	subnet := tmpl.Resources["mordorUatWeb1Dmz"]
	assert.Equal(t, "AWS::EC2::Subnet", subnet.Type)
	assert.Equal(t, map[string]any{"Ref": "UATVPC"}, subnet.Properties["VpcId"])
	assert.Equal(t, "10.1.101.0/24", subnet.Properties["CidrBlock"])
	assert.Equal(t, "ap-south-1a", subnet.Properties["AvailabilityZone"])

	gw := tmpl.Resources["Uat2NatGW"]
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"Uat2NatEIP", "AllocationId"}}, gw.Properties["AllocationId"])

	route := tmpl.Resources["UatApp2NAT"]
	assert.Equal(t, map[string]any{"Ref": "Uat2NatGW"}, route.Properties["NatGatewayId"])
	assert.NotContains(t, route.Properties, "GatewayId")

	igwRoute := tmpl.Resources["UatDmz1IGW"]
	assert.Equal(t, []string{"IGWAttachment"}, igwRoute.DependsOn)

	flowLog := tmpl.Resources["VPCFlowLog"]
	assert.Equal(t, "AWS::EC2::FlowLog", flowLog.Type)
	assert.Equal(t, []string{"VPCLogGroup"}, flowLog.DependsOn)
}

func TestBuilder_Build_FlowLogRole(t *testing.T) {
	tmpl, err := NewBuilder(scenarioNetwork(t).Graph, Options{}).Build()
	require.NoError(t, err)

	data, err := json.Marshal(tmpl.Resources["vpcflowlogrole"].Properties)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"AssumeRolePolicyDocument": {
			"Statement": [{
				"Effect": "Allow",
				"Principal": {"Service": "vpc-flow-logs.amazonaws.com"},
				"Action": ["sts:AssumeRole"]
			}]
		},
		"Policies": [{
			"PolicyName": "vpc_flow_logs_policy",
			"PolicyDocument": {
				"Id": "vpc_flow_logs_policy",
				"Version": "2012-10-17",
				"Statement": [{
					"Effect": "Allow",
					"Action": [
						"logs:CreateLogGroup",
						"logs:CreateLogStream",
						"logs:PutLogEvents",
						"logs:DescribeLogGroups",
						"logs:DescribeLogStreams"
					],
					"Resource": ["arn:aws:logs:*:*:*"]
				}]
			}
		}]
	}`, string(data))
}

func TestBuilder_Order(t *testing.T) {
	net := scenarioNetwork(t)

	order, err := NewBuilder(net.Graph, Options{}).Order()
	require.NoError(t, err)
	require.Len(t, order, net.Graph.Count())

	position := make(map[string]int)
	for i, name := range order {
		position[name] = i
	}
	for _, n := range net.Graph.Nodes() {
		for _, dep := range n.Targets() {
			assert.Less(t, position[dep], position[n.Name], "%s must come after %s", n.Name, dep)
		}
	}
	assert.Equal(t, "UATVPC", order[0])
}

func TestBuilder_DetectCycle(t *testing.T) {
	g := network.NewGraph()
	_, _ = g.Add("A", &network.InternetGateway{}, "B")
	_, _ = g.Add("B", &network.InternetGateway{}, "A")

	_, err := NewBuilder(g, Options{}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency detected: A -> B -> A")
}

func TestBuilder_Build_Unresolved(t *testing.T) {
	g := network.NewGraph()
	_, _ = g.Add("RT", &network.RouteTable{VpcId: network.Ref{Name: "Missing"}})

	_, err := NewBuilder(g, Options{}).Build()
	var unresolved *wetwire.UnresolvedReferenceError
	assert.True(t, errors.As(err, &unresolved))
}

func TestBuilder_Build_Outputs(t *testing.T) {
	tmpl, err := NewBuilder(scenarioNetwork(t).Graph, Options{Outputs: true}).Build()
	require.NoError(t, err)

	require.Len(t, tmpl.Outputs, 7)

	vpc := tmpl.Outputs["UATVPCId"]
	assert.Equal(t, map[string]any{"Ref": "UATVPC"}, vpc.Value)
	require.NotNil(t, vpc.Export)
	assert.Equal(t, map[string]any{"Fn::Sub": "${AWS::StackName}-UATVPCId"}, vpc.Export.Name)

	subnet := tmpl.Outputs["mordorUatNat2InternalId"]
	assert.Equal(t, "Subnet 10.1.302.0/24 in ap-south-1b", subnet.Description)
}

// Parsing the rendered JSON back yields the same resource names, types and
// property keys as the graph.
func TestToJSON_RoundTrip(t *testing.T) {
	net := scenarioNetwork(t)
	tmpl, err := NewBuilder(net.Graph, Options{}).Build()
	require.NoError(t, err)

	data, err := ToJSON(tmpl)
	require.NoError(t, err)

	var parsed wetwire.Template
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Resources, net.Graph.Count())

	for _, n := range net.Graph.Nodes() {
		res, ok := parsed.Resources[n.Name]
		require.True(t, ok, "missing %s", n.Name)
		assert.Equal(t, n.Kind().ResourceType(), res.Type)

		props, err := serialize.Resource(n.Resource)
		require.NoError(t, err)
		assert.Equal(t, sortedKeys(props), sortedKeys(res.Properties), n.Name)
	}
}

func TestToYAML_RoundTrip(t *testing.T) {
	tmpl, err := NewBuilder(scenarioNetwork(t).Graph, Options{Outputs: true}).Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])

	resources := parsed["Resources"].(map[string]any)
	assert.Len(t, resources, len(tmpl.Resources))

	outputs := parsed["Outputs"].(map[string]any)
	vpc := outputs["UATVPCId"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "UATVPC"}, vpc["Value"])
}

func TestRender(t *testing.T) {
	tmpl := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Resources: map[string]wetwire.ResourceDef{
			"InternetGateway": {Type: "AWS::EC2::InternetGateway"},
		},
	}

	tests := []struct {
		format  string
		prefix  string
		wantErr bool
	}{
		{format: "", prefix: "{"},
		{format: "json", prefix: "{"},
		{format: "yaml", prefix: "AWSTemplateFormatVersion"},
		{format: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(tmpl, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, string(data)[:len(tt.prefix)], tt.prefix)
		})
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
