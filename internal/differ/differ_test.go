package differ

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

func subnet(cidr, az string) wetwire.ResourceDef {
	return wetwire.ResourceDef{
		Type: "AWS::EC2::Subnet",
		Properties: map[string]any{
			"CidrBlock":        cidr,
			"AvailabilityZone": az,
			"VpcId":            map[string]any{"Ref": "UATVPC"},
		},
	}
}

func TestCompare(t *testing.T) {
	t1 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"mordorUatWeb1Dmz": subnet("10.1.101.0/24", "ap-south-1b"),
			"mordorUatSvc1App": subnet("10.1.201.0/24", "ap-south-1b"),
		},
	}
	t2 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"mordorUatWeb1Dmz":      subnet("10.1.101.0/24", "ap-south-1a"),
			"mordorUatNat1Internal": subnet("10.1.301.0/24", "ap-south-1a"),
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, "mordorUatSvc1App", result.Diff.Removed[0].Resource)

	require.Len(t, result.Diff.Added, 1)
	assert.Equal(t, "mordorUatNat1Internal", result.Diff.Added[0].Resource)
	assert.Equal(t, "AWS::EC2::Subnet", result.Diff.Added[0].Type)

	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "mordorUatWeb1Dmz", result.Diff.Modified[0].Resource)
	assert.Equal(t, []string{"AvailabilityZone modified (requires replacement)"}, result.Diff.Modified[0].Changes)

	assert.Equal(t, wetwire.DiffSummary{Added: 1, Removed: 1, Modified: 1, Total: 3}, result.Summary)
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"UATVPC": {Type: "AWS::EC2::VPC", Properties: map[string]any{"CidrBlock": "10.1.0.0/16"}},
		},
	}

	result, err := Compare(tmpl, tmpl, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Total)
}

func TestCompare_PropertyChanges(t *testing.T) {
	rt := func(props map[string]any, deps ...string) *wetwire.Template {
		return &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
			"UatDmz1IGW": {Type: "AWS::EC2::Route", Properties: props, DependsOn: deps},
		}}
	}

	t1 := rt(map[string]any{"GatewayId": map[string]any{"Ref": "InternetGateway"}, "DestinationCidrBlock": "0.0.0.0/0"}, "IGWAttachment")
	t2 := rt(map[string]any{"NatGatewayId": map[string]any{"Ref": "Uat1NatGW"}, "DestinationCidrBlock": "0.0.0.0/0"})

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, []string{
		"GatewayId removed",
		"NatGatewayId added",
		"DependsOn changed",
	}, result.Diff.Modified[0].Changes)
}

func TestCompare_IgnoreOrder(t *testing.T) {
	tags := func(keys ...string) *wetwire.Template {
		var list []any
		for _, k := range keys {
			list = append(list, map[string]any{"Key": k, "Value": "x"})
		}
		return &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
			"UATVPC": {Type: "AWS::EC2::VPC", Properties: map[string]any{"Tags": list}},
		}}
	}

	t1 := tags("Name", "Team")
	t2 := tags("Team", "Name")

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Modified)

	result, err = Compare(t1, t2, Options{IgnoreOrder: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Total)
}

func TestCompare_Outputs(t *testing.T) {
	t1 := &wetwire.Template{Outputs: map[string]wetwire.Output{
		"UATVPCId":  {Value: map[string]any{"Ref": "UATVPC"}},
		"OldSubnet": {Value: map[string]any{"Ref": "Old"}},
	}}
	t2 := &wetwire.Template{Outputs: map[string]wetwire.Output{
		"UATVPCId": {Value: map[string]any{"Ref": "PRODVPC"}},
	}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, "Outputs.OldSubnet", result.Diff.Removed[0].Resource)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "Output", result.Diff.Modified[0].Type)
}

func TestCompareFiles_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "uat_vpc")
	yamlPath := filepath.Join(dir, "uat_vpc.yaml")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Resources": {
    "UATVPC": {"Type": "AWS::EC2::VPC", "Properties": {"CidrBlock": "10.1.0.0/16", "EnableDnsSupport": true}}
  }
}`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(`AWSTemplateFormatVersion: "2010-09-09"
Resources:
  UATVPC:
    Type: AWS::EC2::VPC
    Properties:
      CidrBlock: 10.2.0.0/16
      EnableDnsSupport: true
`), 0644))

	result, err := CompareFiles(jsonPath, yamlPath, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, []string{"CidrBlock modified (requires replacement)"}, result.Diff.Modified[0].Changes)
}

func TestLoadTemplate_Errors(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(bad, []byte("{not: [valid"), 0644))
	_, err = LoadTemplate(bad)
	assert.Error(t, err)
}
