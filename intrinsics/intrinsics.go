// Package intrinsics provides the CloudFormation intrinsic functions used by
// the VPC template.
//
// The core types are re-exported from cloudformation-schema-go:
//
//	Ref{LogicalName: "UATVPC"}                      → {"Ref": "UATVPC"}
//	GetAtt{LogicalName: "Uat1NatEIP", Attribute: "AllocationId"}
//	                                                → {"Fn::GetAtt": ["Uat1NatEIP", "AllocationId"]}
//	Sub{String: "${AWS::StackName}-VPCId"}          → {"Fn::Sub": "${AWS::StackName}-VPCId"}
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// NameTag returns the conventional Name tag.
func NameTag(name string) Tag {
	return Tag{Key: "Name", Value: name}
}

// StackExportName returns an export name prefixed with the stack name, so
// the same template can be deployed once per environment without clashes.
func StackExportName(suffix string) Sub {
	return Sub{String: "${AWS::StackName}-" + suffix}
}
