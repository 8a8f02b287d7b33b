// Package validate compares a concrete implementation's supplied members
// against the mandatory members its interface registry makes binding at
// the implementation's targeted revision, and computes the capability
// set the implementation actually supports.
package validate

import (
	"fmt"
	"sort"

	"github.com/GoCodeAlone/contract"
)

// Implementation describes one concrete implementing type: the revision
// range it claims to satisfy and the member names it actually defines
// (including members inherited from non-interface ancestors).
type Implementation struct {
	// Name identifies the implementing type in diagnostics.
	Name string

	// APIVersion is the interface revision this implementation targets.
	APIVersion int

	// MinimumVersion is the lowest interface revision the
	// implementation remains compatible with. Defaults to 0.
	MinimumVersion int

	// Version is an optional human-oriented version string for the
	// implementation itself (validated as semver by the manifest layer).
	Version string

	// DeclaredCapabilities are capability tags the author claims
	// explicitly; they are merged with the computed set.
	DeclaredCapabilities []string

	// Supplied lists the member names the implementation defines.
	Supplied []string
}

// Result is the validator's cached output for one implementation. It is
// a pure function of the registry and the implementation descriptor:
// re-running the validator on unchanged inputs yields identical sets.
type Result struct {
	// Interface is the validated-against interface name.
	Interface string

	// Implementation is the implementing type's name.
	Implementation string

	// APIVersion echoes the revision the binding set was resolved at.
	APIVersion int

	// Unimplemented lists binding mandatory members the implementation
	// failed to supply, sorted, no duplicates.
	Unimplemented []string

	// Capabilities is the union of declared and computed capability
	// tags, sorted.
	Capabilities []string
}

// Usable reports whether the implementation may be instantiated.
func (r *Result) Usable() bool { return len(r.Unimplemented) == 0 }

// Supports reports whether the capability tag is in the computed set.
func (r *Result) Supports(tag string) bool {
	for _, c := range r.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Options tunes validation behavior.
type Options struct {
	// LenientCapabilities downgrades a partially implemented capability
	// tag from a CapabilityInconsistencyError to silently omitting the
	// tag from the computed set. The strict default surfaces author
	// mistakes at declaration time.
	LenientCapabilities bool
}

// Check validates an implementation against a registry with strict
// capability handling.
func Check(reg *contract.Registry, impl Implementation) (*Result, error) {
	return CheckWith(reg, impl, Options{})
}

// CheckWith validates an implementation against a registry.
//
// Failure modes: *contract.DeclarationError for malformed version
// attributes, *contract.CapabilityInconsistencyError for a partially
// implemented capability tag (unless Options.LenientCapabilities). Both
// are structural and detected once, at declaration time.
func CheckWith(reg *contract.Registry, impl Implementation, opts Options) (*Result, error) {
	if reg == nil {
		return nil, &contract.DeclarationError{
			Implementation: impl.Name,
			Reason:         "interface registry is required",
		}
	}
	if impl.Name == "" {
		return nil, &contract.DeclarationError{
			Interface: reg.Name(),
			Reason:    "implementation name is required",
		}
	}
	if impl.APIVersion < 0 {
		return nil, &contract.DeclarationError{
			Interface:      reg.Name(),
			Implementation: impl.Name,
			Reason:         fmt.Sprintf("api version %d must be non-negative", impl.APIVersion),
		}
	}
	if impl.MinimumVersion < 0 {
		return nil, &contract.DeclarationError{
			Interface:      reg.Name(),
			Implementation: impl.Name,
			Reason:         fmt.Sprintf("minimum version %d must be non-negative", impl.MinimumVersion),
		}
	}
	if impl.MinimumVersion > impl.APIVersion {
		return nil, &contract.DeclarationError{
			Interface:      reg.Name(),
			Implementation: impl.Name,
			Reason: fmt.Sprintf("minimum version %d exceeds api version %d",
				impl.MinimumVersion, impl.APIVersion),
		}
	}

	supplied := make(map[string]bool, len(impl.Supplied))
	for _, name := range impl.Supplied {
		supplied[name] = true
	}

	binding := reg.BindingMembers(impl.APIVersion)

	var unimplemented []string
	for _, m := range binding {
		if !supplied[m.Name] {
			unimplemented = append(unimplemented, m.Name)
		}
	}

	computed, err := capabilitySet(reg.Name(), impl.Name, binding, supplied, opts)
	if err != nil {
		return nil, err
	}

	caps := make(map[string]bool, len(computed)+len(impl.DeclaredCapabilities))
	for _, tag := range computed {
		caps[tag] = true
	}
	for _, tag := range impl.DeclaredCapabilities {
		if tag != "" {
			caps[tag] = true
		}
	}
	merged := make([]string, 0, len(caps))
	for tag := range caps {
		merged = append(merged, tag)
	}
	sort.Strings(merged)

	return &Result{
		Interface:      reg.Name(),
		Implementation: impl.Name,
		APIVersion:     impl.APIVersion,
		Unimplemented:  unimplemented,
		Capabilities:   merged,
	}, nil
}
