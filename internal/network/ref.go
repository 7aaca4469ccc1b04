package network

import (
	"encoding/json"

	"github.com/lex00/wetwire-vpc-go/intrinsics"
)

// Ref is a symbolic link to another node. It serializes to {"Ref": Name}.
type Ref struct {
	Name string
}

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(intrinsics.Ref{LogicalName: r.Name})
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.Name == "" }

// Attr is a symbolic link to an attribute of another node. It serializes to
// {"Fn::GetAtt": [Name, Attribute]}.
type Attr struct {
	Name      string
	Attribute string
}

// MarshalJSON implements json.Marshaler.
func (a Attr) MarshalJSON() ([]byte, error) {
	return json.Marshal(intrinsics.GetAtt{LogicalName: a.Name, Attribute: a.Attribute})
}

// IsZero reports whether the reference is unset.
func (a Attr) IsZero() bool { return a.Name == "" }
