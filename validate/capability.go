package validate

import (
	"sort"

	"github.com/GoCodeAlone/contract"
)

// capabilitySet groups the binding mandatory members by capability tag
// and computes which tags the implementation fully supports.
//
// A tag is all-or-nothing: supplying at least one of its binding members
// commits the implementation to all of them. A partial tag is a
// CapabilityInconsistencyError under strict options, or silently absent
// under lenient options. Never a partial tag in the computed set.
func capabilitySet(iface, impl string, binding []contract.Member, supplied map[string]bool, opts Options) ([]string, error) {
	groups := make(map[string][]string)
	for _, m := range binding {
		for _, tag := range m.Capabilities {
			groups[tag] = append(groups[tag], m.Name)
		}
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var computed []string
	for _, tag := range tags {
		members := groups[tag]
		var missing []string
		for _, name := range members {
			if !supplied[name] {
				missing = append(missing, name)
			}
		}
		switch {
		case len(missing) == 0:
			computed = append(computed, tag)
		case len(missing) == len(members):
			// Tag untouched; simply absent.
		case opts.LenientCapabilities:
			// Partial tag dropped without error.
		default:
			sort.Strings(missing)
			return nil, &contract.CapabilityInconsistencyError{
				Interface:      iface,
				Implementation: impl,
				Capability:     tag,
				Missing:        missing,
			}
		}
	}
	return computed, nil
}
