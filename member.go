package contract

import (
	"fmt"
	"sort"
)

// Kind distinguishes who supplies a member slot.
type Kind int

const (
	// Mandatory members must be supplied by every implementation,
	// subject to version gating.
	Mandatory Kind = iota

	// Provided members are supplied by the interface itself for
	// implementations to call.
	Provided
)

func (k Kind) String() string {
	switch k {
	case Mandatory:
		return "mandatory"
	case Provided:
		return "provided"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Member describes one named method or property slot on an interface.
// Methods and properties share a single namespace. Members are immutable
// once a registry has been built.
type Member struct {
	// Name is the member identifier, unique within a registry.
	Name string

	// Kind records whether the member is mandatory for implementors
	// or provided by the interface.
	Kind Kind

	// Property is true for property slots. Properties and methods are
	// validated identically but may not substitute for each other.
	Property bool

	// IntroducedAt is the interface revision in which the member first
	// appeared. 0 means present since the interface's inception.
	IntroducedAt int

	// Capabilities lists the optional feature groups the member
	// belongs to. Normalized (sorted, deduplicated) at build time.
	Capabilities []string
}

// BindingAt reports whether the member is demanded of an implementation
// targeting the given revision.
func (m Member) BindingAt(revision int) bool {
	return m.IntroducedAt <= revision
}

// Tagged reports whether the member belongs to the given capability group.
func (m Member) Tagged(tag string) bool {
	for _, c := range m.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

func (m Member) validate(iface string) error {
	if m.Name == "" {
		return &DeclarationError{Interface: iface, Reason: "member name is required"}
	}
	if m.IntroducedAt < 0 {
		return &DeclarationError{
			Interface: iface,
			Members:   []string{m.Name},
			Reason:    fmt.Sprintf("introduced-at revision %d must be non-negative", m.IntroducedAt),
		}
	}
	return nil
}

// normalized returns a copy with capabilities sorted and deduplicated so
// registries never alias caller-owned slices.
func (m Member) normalized() Member {
	if len(m.Capabilities) == 0 {
		m.Capabilities = nil
		return m
	}
	caps := make([]string, 0, len(m.Capabilities))
	seen := make(map[string]bool, len(m.Capabilities))
	for _, c := range m.Capabilities {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		caps = append(caps, c)
	}
	sort.Strings(caps)
	m.Capabilities = caps
	return m
}
