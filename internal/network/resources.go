package network

import "github.com/lex00/wetwire-vpc-go/intrinsics"

// Resource is the attribute set of one node. Field json tags are the
// CloudFormation property names.
type Resource interface {
	Kind() Kind
}

// VPC is an AWS::EC2::VPC.
type VPC struct {
	CidrBlock          string           `json:"CidrBlock"`
	EnableDnsHostnames bool             `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   bool             `json:"EnableDnsSupport,omitempty"`
	InstanceTenancy    string           `json:"InstanceTenancy,omitempty"`
	Tags               []intrinsics.Tag `json:"Tags,omitempty"`
}

// InternetGateway is an AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []intrinsics.Tag `json:"Tags,omitempty"`
}

// VPCGatewayAttachment is an AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	VpcId             Ref `json:"VpcId"`
	InternetGatewayId Ref `json:"InternetGatewayId"`
}

// Subnet is an AWS::EC2::Subnet.
type Subnet struct {
	VpcId            Ref              `json:"VpcId"`
	CidrBlock        string           `json:"CidrBlock"`
	AvailabilityZone string           `json:"AvailabilityZone"`
	Tags             []intrinsics.Tag `json:"Tags,omitempty"`
}

// EIP is an AWS::EC2::EIP.
type EIP struct {
	Domain string `json:"Domain"`
}

// NatGateway is an AWS::EC2::NatGateway.
type NatGateway struct {
	AllocationId Attr             `json:"AllocationId"`
	SubnetId     Ref              `json:"SubnetId"`
	Tags         []intrinsics.Tag `json:"Tags,omitempty"`
}

// RouteTable is an AWS::EC2::RouteTable.
type RouteTable struct {
	VpcId Ref              `json:"VpcId"`
	Tags  []intrinsics.Tag `json:"Tags,omitempty"`
}

// Route is an AWS::EC2::Route. Exactly one of GatewayId and NatGatewayId is
// set.
type Route struct {
	RouteTableId         Ref    `json:"RouteTableId"`
	DestinationCidrBlock string `json:"DestinationCidrBlock"`
	GatewayId            Ref    `json:"GatewayId,omitempty"`
	NatGatewayId         Ref    `json:"NatGatewayId,omitempty"`
}

// SubnetRouteTableAssociation is an AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	SubnetId     Ref `json:"SubnetId"`
	RouteTableId Ref `json:"RouteTableId"`
}

// LogGroup is an AWS::Logs::LogGroup.
type LogGroup struct {
	LogGroupName    string `json:"LogGroupName"`
	RetentionInDays int    `json:"RetentionInDays,omitempty"`
}

// FlowLog is an AWS::EC2::FlowLog.
type FlowLog struct {
	DeliverLogsPermissionArn Attr   `json:"DeliverLogsPermissionArn"`
	LogGroupName             string `json:"LogGroupName"`
	ResourceId               Ref    `json:"ResourceId"`
	ResourceType             string `json:"ResourceType"`
	TrafficType              string `json:"TrafficType"`
}

// IAMRole is an AWS::IAM::Role.
type IAMRole struct {
	AssumeRolePolicyDocument intrinsics.PolicyDocument `json:"AssumeRolePolicyDocument"`
	Policies                 []RolePolicy              `json:"Policies,omitempty"`
}

// RolePolicy is an inline policy of an IAMRole.
type RolePolicy struct {
	PolicyName     string                    `json:"PolicyName"`
	PolicyDocument intrinsics.PolicyDocument `json:"PolicyDocument"`
}

func (*VPC) Kind() Kind                         { return KindVPC }
func (*InternetGateway) Kind() Kind             { return KindInternetGateway }
func (*VPCGatewayAttachment) Kind() Kind        { return KindVPCGatewayAttachment }
func (*Subnet) Kind() Kind                      { return KindSubnet }
func (*EIP) Kind() Kind                         { return KindEIP }
func (*NatGateway) Kind() Kind                  { return KindNatGateway }
func (*RouteTable) Kind() Kind                  { return KindRouteTable }
func (*Route) Kind() Kind                       { return KindRoute }
func (*SubnetRouteTableAssociation) Kind() Kind { return KindSubnetRouteTableAssociation }
func (*LogGroup) Kind() Kind                    { return KindLogGroup }
func (*FlowLog) Kind() Kind                     { return KindFlowLog }
func (*IAMRole) Kind() Kind                     { return KindIAMRole }
