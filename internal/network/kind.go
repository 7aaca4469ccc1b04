package network

// Kind tags the resource type of a graph node.
type Kind int

const (
	KindVPC Kind = iota
	KindInternetGateway
	KindVPCGatewayAttachment
	KindSubnet
	KindEIP
	KindNatGateway
	KindRouteTable
	KindRoute
	KindSubnetRouteTableAssociation
	KindLogGroup
	KindFlowLog
	KindIAMRole
)

var kindInfo = map[Kind]struct {
	name         string
	resourceType string
}{
	KindVPC:                         {"VPC", "AWS::EC2::VPC"},
	KindInternetGateway:             {"InternetGateway", "AWS::EC2::InternetGateway"},
	KindVPCGatewayAttachment:        {"VPCGatewayAttachment", "AWS::EC2::VPCGatewayAttachment"},
	KindSubnet:                      {"Subnet", "AWS::EC2::Subnet"},
	KindEIP:                         {"EIP", "AWS::EC2::EIP"},
	KindNatGateway:                  {"NatGateway", "AWS::EC2::NatGateway"},
	KindRouteTable:                  {"RouteTable", "AWS::EC2::RouteTable"},
	KindRoute:                       {"Route", "AWS::EC2::Route"},
	KindSubnetRouteTableAssociation: {"SubnetRouteTableAssociation", "AWS::EC2::SubnetRouteTableAssociation"},
	KindLogGroup:                    {"LogGroup", "AWS::Logs::LogGroup"},
	KindFlowLog:                     {"FlowLog", "AWS::EC2::FlowLog"},
	KindIAMRole:                     {"IAMRole", "AWS::IAM::Role"},
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindInfo))
	for k := KindVPC; k <= KindIAMRole; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return "Unknown"
}

// ResourceType returns the CloudFormation type name, e.g. "AWS::EC2::VPC".
func (k Kind) ResourceType() string {
	return kindInfo[k].resourceType
}
