package serialize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRef struct {
	Name string
}

func (r testRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.Name})
}

func (r testRef) IsZero() bool { return r.Name == "" }

type testTag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type testSubnet struct {
	VpcId            testRef           `json:"VpcId"`
	CidrBlock        string            `json:"CidrBlock,omitempty"`
	MapPublicIp      bool              `json:"MapPublicIpOnLaunch,omitempty"`
	Tags             []testTag         `json:"Tags,omitempty"`
	PrivateDnsName   *testDNSOptions   `json:"PrivateDnsNameOptionsOnLaunch,omitempty"`
	Extra            map[string]string `json:"Extra,omitempty"`
	RetentionInDays  int               `json:"RetentionInDays,omitempty"`
	GatewayId        testRef           `json:"GatewayId,omitempty"`
	Ignored          string            `json:"-"`
	internalHostname string
}

type testDNSOptions struct {
	HostnameType string `json:"HostnameType"`
}

func TestResource_SimpleStruct(t *testing.T) {
	props, err := Resource(testSubnet{CidrBlock: "10.1.101.0/24"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"CidrBlock": "10.1.101.0/24"}, props)
}

func TestResource_MarshalerFields(t *testing.T) {
	props, err := Resource(testSubnet{
		VpcId:     testRef{Name: "UATVPC"},
		CidrBlock: "10.1.101.0/24",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Ref": "UATVPC"}, props["VpcId"])
	assert.NotContains(t, props, "GatewayId")
}

func TestResource_WithNestedStruct(t *testing.T) {
	props, err := Resource(testSubnet{
		PrivateDnsName: &testDNSOptions{HostnameType: "ip-name"},
	})
	require.NoError(t, err)

	opts := props["PrivateDnsNameOptionsOnLaunch"].(map[string]any)
	assert.Equal(t, "ip-name", opts["HostnameType"])
}

func TestResource_WithSlice(t *testing.T) {
	props, err := Resource(testSubnet{
		Tags: []testTag{
			{Key: "Name", Value: "mordorUatWeb1DmzSubnet"},
			{Key: "Tier", Value: "dmz"},
		},
	})
	require.NoError(t, err)

	tags := props["Tags"].([]any)
	require.Len(t, tags, 2)
	tag0 := tags[0].(map[string]any)
	assert.Equal(t, "Name", tag0["Key"])
	assert.Equal(t, "mordorUatWeb1DmzSubnet", tag0["Value"])
}

func TestResource_WithMap(t *testing.T) {
	props, err := Resource(testSubnet{Extra: map[string]string{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, props["Extra"])
}

func TestResource_ScalarTypes(t *testing.T) {
	props, err := Resource(testSubnet{MapPublicIp: true, RetentionInDays: 7})
	require.NoError(t, err)

	assert.Equal(t, true, props["MapPublicIpOnLaunch"])
	assert.EqualValues(t, 7, props["RetentionInDays"])
}

func TestResource_OmitsZeroValues(t *testing.T) {
	props, err := Resource(testSubnet{Ignored: "x", internalHostname: "y"})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestResource_WithPointer(t *testing.T) {
	props, err := Resource(&testSubnet{CidrBlock: "10.1.201.0/24"})
	require.NoError(t, err)
	assert.Equal(t, "10.1.201.0/24", props["CidrBlock"])

	var nilSubnet *testSubnet
	props, err = Resource(nilSubnet)
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestResource_NonStruct(t *testing.T) {
	props, err := Resource("not a struct")
	require.NoError(t, err)
	assert.Nil(t, props)
}
