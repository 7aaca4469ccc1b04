// Package naming derives the logical resource names used in the VPC template.
//
// Names double as CloudFormation logical IDs and as the keys that other
// resources reference, so every function here is deterministic.
package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// Title upper-cases the first letter of every word and lower-cases the rest.
// A word is a run of letters; digits and punctuation end it, so "nat2gw"
// becomes "Nat2Gw" and "UatDmz1RT" becomes "Uatdmz1Rt".
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// IsAlphanumeric reports whether s is a non-empty string of ASCII letters
// and digits, the character set CloudFormation accepts for logical IDs.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// SubnetID is account + Title(env) + Title(service) + az + Title(tier).
func SubnetID(account, env, service string, az int, tier string) string {
	return account + Title(env) + Title(service) + strconv.Itoa(az) + Title(tier)
}

// VPC names the VPC resource, e.g. "UATVPC".
func VPC(env string) string {
	return strings.ToUpper(env) + "VPC"
}

const (
	// InternetGateway is the single internet gateway of the VPC.
	InternetGateway = "InternetGateway"
	// GatewayAttachment attaches InternetGateway to the VPC.
	GatewayAttachment = "IGWAttachment"
)

// NatEIP names the elastic IP backing the NAT gateway of an AZ.
func NatEIP(env string, az int) string {
	return Title(env) + strconv.Itoa(az) + "NatEIP"
}

// NatGateway names the NAT gateway of an AZ.
func NatGateway(env string, az int) string {
	return Title(env) + strconv.Itoa(az) + "NatGW"
}

// RouteTable names the route table of a (tier, az) pair.
func RouteTable(env, tier string, az int) string {
	return Title(env) + Title(tier) + strconv.Itoa(az) + "RT"
}

// InternetRoute names the default route of a dmz route table.
func InternetRoute(env, tier string, az int) string {
	return Title(env) + Title(tier) + strconv.Itoa(az) + "IGW"
}

// NatRoute names the default route of a private route table.
func NatRoute(env, tier string, az int) string {
	return Title(env) + Title(tier) + strconv.Itoa(az) + "NAT"
}

// RouteTableAssociation names the association between a subnet and its
// route table.
func RouteTableAssociation(routeTable, subnetID string, az int) string {
	return Title(routeTable) + Title(subnetID) + strconv.Itoa(az) + "RTA"
}

// SubnetTag is the Name tag value of a subnet.
func SubnetTag(subnetID string) string {
	return subnetID + "Subnet"
}
