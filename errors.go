package wetwire_vpc

import "fmt"

// ConfigLoadError reports a missing or malformed topology file.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading topology: %v", e.Err)
	}
	return fmt.Sprintf("loading topology %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// LookupError reports a key that is absent from a lookup table, such as an
// unknown environment or an availability zone index past the end of the
// zone list.
type LookupError struct {
	// Kind is what was looked up, e.g. "environment" or "availability zone".
	Kind   string
	Key    string
	Detail string
}

func (e *LookupError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s %q not found: %s", e.Kind, e.Key, e.Detail)
}

// UnresolvedReferenceError reports a node property that points at a node
// that was never added to the graph.
type UnresolvedReferenceError struct {
	From     string
	Property string
	Target   string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s.%s references undefined resource %q", e.From, e.Property, e.Target)
}

// DuplicateNameError reports a second declaration of an identifier that must
// be unique.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
}

// WriteError reports a failure to persist the generated template.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
