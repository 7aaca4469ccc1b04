// Package differ provides semantic comparison of generated VPC templates.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons, e.g. for
	// Tags or policy actions.
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    wetwire.TemplateDiff
	Summary wetwire.DiffSummary
}

// replacementProperties lists, per resource type, the properties whose
// change makes CloudFormation replace the resource.
var replacementProperties = map[string]map[string]bool{
	"AWS::EC2::VPC":        {"CidrBlock": true, "InstanceTenancy": true},
	"AWS::EC2::Subnet":     {"CidrBlock": true, "AvailabilityZone": true, "VpcId": true},
	"AWS::EC2::NatGateway": {"AllocationId": true, "SubnetId": true},
	"AWS::EC2::RouteTable": {"VpcId": true},
	"AWS::EC2::Route":      {"RouteTableId": true, "DestinationCidrBlock": true},
	"AWS::EC2::FlowLog":    {"ResourceId": true, "ResourceType": true, "TrafficType": true, "LogGroupName": true, "DeliverLogsPermissionArn": true},
	"AWS::Logs::LogGroup":  {"LogGroupName": true},
	"AWS::EC2::EIP":        {"Domain": true},

	"AWS::EC2::SubnetRouteTableAssociation": {"SubnetId": true},
}

// Compare compares two CloudFormation templates and returns differences.
func Compare(template1, template2 *wetwire.Template, opts Options) (*Result, error) {
	result := &Result{}

	res1 := template1.Resources
	res2 := template2.Resources

	// Find added resources (in template2 but not in template1)
	for name, def := range res2 {
		if _, exists := res1[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, wetwire.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Find removed resources (in template1 but not in template2)
	for name, def := range res1 {
		if _, exists := res2[name]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, wetwire.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Find modified resources
	for name, def1 := range res1 {
		if def2, exists := res2[name]; exists {
			changes := compareResources(def1, def2, opts)
			if len(changes) > 0 {
				result.Diff.Modified = append(result.Diff.Modified, wetwire.DiffEntry{
					Resource: name,
					Type:     def1.Type,
					Changes:  changes,
				})
			}
		}
	}

	compareOutputs(template1.Outputs, template2.Outputs, &result.Diff, opts)

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = wetwire.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*wetwire.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var template wetwire.Template

	if err := json.Unmarshal(data, &template); err != nil {
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &template, nil
}

// compareResources compares two resource definitions and returns changes.
func compareResources(def1, def2 wetwire.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	for _, change := range compareProperties(def1.Properties, def2.Properties, opts) {
		if replacementProperties[def1.Type][change.key] {
			changes = append(changes, change.String()+" (requires replacement)")
		} else {
			changes = append(changes, change.String())
		}
	}

	if !reflect.DeepEqual(normalizeStrings(def1.DependsOn), normalizeStrings(def2.DependsOn)) {
		changes = append(changes, "DependsOn changed")
	}

	return changes
}

type propertyChange struct {
	key  string
	verb string
}

func (c propertyChange) String() string { return c.key + " " + c.verb }

// compareProperties compares top-level property maps.
func compareProperties(props1, props2 map[string]any, opts Options) []propertyChange {
	var changes []propertyChange

	for key, val2 := range props2 {
		if val1, exists := props1[key]; exists {
			if !deepEqual(val1, val2, opts) {
				changes = append(changes, propertyChange{key, "modified"})
			}
		} else {
			changes = append(changes, propertyChange{key, "added"})
		}
	}

	for key := range props1 {
		if _, exists := props2[key]; !exists {
			changes = append(changes, propertyChange{key, "removed"})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].String() < changes[j].String() })
	return changes
}

// compareOutputs records output changes as entries of type "Output".
func compareOutputs(out1, out2 map[string]wetwire.Output, diff *wetwire.TemplateDiff, opts Options) {
	for name := range out2 {
		if _, exists := out1[name]; !exists {
			diff.Added = append(diff.Added, wetwire.DiffEntry{Resource: "Outputs." + name, Type: "Output"})
		}
	}
	for name, o1 := range out1 {
		o2, exists := out2[name]
		if !exists {
			diff.Removed = append(diff.Removed, wetwire.DiffEntry{Resource: "Outputs." + name, Type: "Output"})
			continue
		}
		if !deepEqual(toGeneric(o1), toGeneric(o2), opts) {
			diff.Modified = append(diff.Modified, wetwire.DiffEntry{
				Resource: "Outputs." + name,
				Type:     "Output",
				Changes:  []string{"Output modified"},
			})
		}
	}
}

// toGeneric converts v to its encoding/json form so JSON- and YAML-loaded
// templates compare equal.
func toGeneric(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// deepEqual compares two values deeply, optionally ignoring order.
func deepEqual(a, b any, opts Options) bool {
	a, b = toGeneric(a), toGeneric(b)
	if opts.IgnoreOrder {
		a = normalizeValue(a)
		b = normalizeValue(b)
	}
	return reflect.DeepEqual(a, b)
}

// normalizeValue sorts every array by the JSON encoding of its elements.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, elem := range val {
			result[i] = normalizeValue(elem)
		}
		sort.Slice(result, func(i, j int) bool {
			return encode(result[i]) < encode(result[j])
		})
		return result
	case map[string]any:
		result := make(map[string]any)
		for k, v := range val {
			result[k] = normalizeValue(v)
		}
		return result
	default:
		return v
	}
}

func encode(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func normalizeStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []wetwire.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
