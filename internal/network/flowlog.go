package network

import "github.com/lex00/wetwire-vpc-go/intrinsics"

// Flow log resource names and fixed settings.
const (
	FlowLogRole       = "vpcflowlogrole"
	FlowLogPolicy     = "vpc_flow_logs_policy"
	FlowLogGroup      = "VPCLogGroup"
	FlowLogName       = "VPCFlowLog"
	FlowLogGroupName  = "VPCFlowLog"
	FlowLogRetention  = 7
	FlowLogPrincipal  = "vpc-flow-logs.amazonaws.com"
	logsResourceScope = "arn:aws:logs:*:*:*"
)

// AttachFlowLogs records all traffic of the VPC to a CloudWatch log group
// through a dedicated IAM role.
func AttachFlowLogs(n *Network) error {
	g := n.Graph

	trust := intrinsics.PolicyStatement{
		Effect:    "Allow",
		Principal: intrinsics.ServicePrincipal{FlowLogPrincipal},
		Action:    []any{"sts:AssumeRole"},
	}
	write := intrinsics.Allow(
		"logs:CreateLogGroup",
		"logs:CreateLogStream",
		"logs:PutLogEvents",
		"logs:DescribeLogGroups",
		"logs:DescribeLogStreams",
	)
	write.Resource = []any{logsResourceScope}

	policy := intrinsics.NewPolicyDocument(write)
	policy.Id = FlowLogPolicy

	_, err := g.Add(FlowLogRole, &IAMRole{
		AssumeRolePolicyDocument: intrinsics.PolicyDocument{Statement: []any{trust}},
		Policies: []RolePolicy{{
			PolicyName:     FlowLogPolicy,
			PolicyDocument: policy,
		}},
	})
	if err != nil {
		return err
	}

	_, err = g.Add(FlowLogGroup, &LogGroup{
		LogGroupName:    FlowLogGroupName,
		RetentionInDays: FlowLogRetention,
	})
	if err != nil {
		return err
	}

	_, err = g.Add(FlowLogName, &FlowLog{
		DeliverLogsPermissionArn: Attr{Name: FlowLogRole, Attribute: "Arn"},
		LogGroupName:             FlowLogGroupName,
		ResourceId:               n.VPC,
		ResourceType:             "VPC",
		TrafficType:              "ALL",
	}, FlowLogGroup)
	return err
}
