// Package intrinsics provides CloudFormation intrinsic functions.
// This file contains IAM policy document types and helpers.
package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the current IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument represents an IAM policy document.
//
// Example:
//
//	var TrustPolicy = PolicyDocument{
//	    Version:   PolicyVersion,
//	    Statement: []any{AssumeRoleStatement},
//	}
type PolicyDocument struct {
	Id        string `json:"Id,omitempty"`
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
}

// Allow returns a statement with Effect="Allow" for the given actions.
func Allow(actions ...string) PolicyStatement {
	list := make([]any, len(actions))
	for i, a := range actions {
		list[i] = a
	}
	return PolicyStatement{Effect: "Allow", Action: list}
}

// ServicePrincipal represents a service principal (e.g., vpc-flow-logs.amazonaws.com).
// Serializes to {"Service": ...} format.
//
// Examples:
//
//	ServicePrincipal{"vpc-flow-logs.amazonaws.com"}
//	ServicePrincipal{"ec2.amazonaws.com", "lambda.amazonaws.com"}
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"Service": p[0]})
	}
	return json.Marshal(map[string]any{"Service": []any(p)})
}
