package contract

import (
	"fmt"
	"sort"
)

// Registry is the flattened, conflict-resolved view of one interface and
// its interface ancestors. It is built exactly once at declaration time
// and immutable thereafter, so a single Registry may be shared by
// reference across every implementation of the interface and read
// concurrently without locking.
type Registry struct {
	name            string
	currentRevision int
	mandatory       map[string]Member
	provided        map[string]Member
}

// Name returns the interface name.
func (r *Registry) Name() string { return r.name }

// CurrentRevision returns the interface's declared revision counter.
func (r *Registry) CurrentRevision() int { return r.currentRevision }

// Member looks up a member by name in either partition.
func (r *Registry) Member(name string) (Member, bool) {
	if m, ok := r.mandatory[name]; ok {
		return m, true
	}
	m, ok := r.provided[name]
	return m, ok
}

// Mandatory returns all mandatory members, sorted by name.
func (r *Registry) Mandatory() []Member { return sortedMembers(r.mandatory) }

// Provided returns all provided members, sorted by name.
func (r *Registry) Provided() []Member { return sortedMembers(r.provided) }

// Capabilities returns the sorted set of capability tags carried by any
// member of the registry.
func (r *Registry) Capabilities() []string {
	seen := make(map[string]bool)
	for _, m := range r.mandatory {
		for _, c := range m.Capabilities {
			seen[c] = true
		}
	}
	for _, m := range r.provided {
		for _, c := range m.Capabilities {
			seen[c] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for c := range seen {
		tags = append(tags, c)
	}
	sort.Strings(tags)
	return tags
}

func sortedMembers(set map[string]Member) []Member {
	members := make([]Member, 0, len(set))
	for _, m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// MemberOption adjusts a member declaration on a Builder.
type MemberOption func(*Member)

// Since sets the interface revision in which the member first appeared.
func Since(revision int) MemberOption {
	return func(m *Member) { m.IntroducedAt = revision }
}

// Caps tags the member with one or more capability groups.
func Caps(tags ...string) MemberOption {
	return func(m *Member) { m.Capabilities = append(m.Capabilities, tags...) }
}

// Builder accumulates an interface declaration and produces its Registry.
type Builder struct {
	name      string
	revision  int
	members   []Member
	ancestors []*Registry
}

// NewInterface starts a declaration for an interface at the given
// revision. Validation happens in Build.
func NewInterface(name string, revision int) *Builder {
	return &Builder{name: name, revision: revision}
}

// Mandatory declares a mandatory method.
func (b *Builder) Mandatory(name string, opts ...MemberOption) *Builder {
	return b.add(name, Mandatory, false, opts)
}

// MandatoryProperty declares a mandatory property.
func (b *Builder) MandatoryProperty(name string, opts ...MemberOption) *Builder {
	return b.add(name, Mandatory, true, opts)
}

// Provided declares a method the interface supplies to implementors.
func (b *Builder) Provided(name string, opts ...MemberOption) *Builder {
	return b.add(name, Provided, false, opts)
}

// ProvidedProperty declares a property the interface supplies to implementors.
func (b *Builder) ProvidedProperty(name string, opts ...MemberOption) *Builder {
	return b.add(name, Provided, true, opts)
}

// Add declares a fully specified member.
func (b *Builder) Add(m Member) *Builder {
	b.members = append(b.members, m)
	return b
}

// Extends records interface ancestors whose registries are merged into
// this one. Multiple inheritance is permitted.
func (b *Builder) Extends(ancestors ...*Registry) *Builder {
	b.ancestors = append(b.ancestors, ancestors...)
	return b
}

func (b *Builder) add(name string, kind Kind, property bool, opts []MemberOption) *Builder {
	m := Member{Name: name, Kind: kind, Property: property}
	for _, opt := range opts {
		opt(&m)
	}
	return b.Add(m)
}

// Build merges the declared members with the ancestor registries and
// returns the immutable Registry. All declaration invariants are
// enforced here; a violation is a *DeclarationError.
//
// Merge rules: a member inherited unchanged keeps its original
// IntroducedAt (the earliest across ancestors). A member re-declared
// here must preserve Kind and Property and must not lower IntroducedAt.
// Two ancestors supplying the same name with conflicting Kind or
// Property cannot be merged.
func (b *Builder) Build() (*Registry, error) {
	if b.name == "" {
		return nil, &DeclarationError{Reason: "interface name is required"}
	}
	if b.revision < 0 {
		return nil, &DeclarationError{
			Interface: b.name,
			Reason:    fmt.Sprintf("revision %d must be non-negative", b.revision),
		}
	}

	merged := make(map[string]Member)

	for _, anc := range b.ancestors {
		if anc == nil {
			return nil, &DeclarationError{Interface: b.name, Reason: "nil ancestor registry"}
		}
		if anc.currentRevision > b.revision {
			return nil, &DeclarationError{
				Interface: b.name,
				Reason: fmt.Sprintf("revision %d is lower than ancestor %q revision %d",
					b.revision, anc.name, anc.currentRevision),
			}
		}
		for _, set := range []map[string]Member{anc.mandatory, anc.provided} {
			for name, m := range set {
				existing, ok := merged[name]
				if !ok {
					merged[name] = m
					continue
				}
				if existing.Kind != m.Kind || existing.Property != m.Property {
					return nil, &DeclarationError{
						Interface: b.name,
						Members:   []string{name},
						Reason:    fmt.Sprintf("incompatible interface merge with ancestor %q", anc.name),
					}
				}
				// Same member reachable through several ancestors:
				// keep its earliest introduction.
				if m.IntroducedAt < existing.IntroducedAt {
					merged[name] = m
				}
			}
		}
	}

	declared := make(map[string]bool, len(b.members))
	for _, m := range b.members {
		if err := m.validate(b.name); err != nil {
			return nil, err
		}
		if declared[m.Name] {
			return nil, &DeclarationError{
				Interface: b.name,
				Members:   []string{m.Name},
				Reason:    "member declared twice",
			}
		}
		declared[m.Name] = true

		if m.IntroducedAt > b.revision {
			return nil, &DeclarationError{
				Interface: b.name,
				Members:   []string{m.Name},
				Reason: fmt.Sprintf("introduced-at revision %d exceeds interface revision %d",
					m.IntroducedAt, b.revision),
			}
		}

		if inherited, ok := merged[m.Name]; ok {
			if inherited.Kind != m.Kind {
				return nil, &DeclarationError{
					Interface: b.name,
					Members:   []string{m.Name},
					Reason: fmt.Sprintf("override changes kind from %s to %s",
						inherited.Kind, m.Kind),
				}
			}
			if inherited.Property != m.Property {
				return nil, &DeclarationError{
					Interface: b.name,
					Members:   []string{m.Name},
					Reason:    "override may not substitute a property for a method or vice versa",
				}
			}
			if m.IntroducedAt < inherited.IntroducedAt {
				return nil, &DeclarationError{
					Interface: b.name,
					Members:   []string{m.Name},
					Reason: fmt.Sprintf("override lowers introduced-at revision from %d to %d",
						inherited.IntroducedAt, m.IntroducedAt),
				}
			}
		}
		merged[m.Name] = m.normalized()
	}

	reg := &Registry{
		name:            b.name,
		currentRevision: b.revision,
		mandatory:       make(map[string]Member),
		provided:        make(map[string]Member),
	}
	for name, m := range merged {
		m = m.normalized()
		switch m.Kind {
		case Mandatory:
			reg.mandatory[name] = m
		case Provided:
			reg.provided[name] = m
		default:
			return nil, &DeclarationError{
				Interface: b.name,
				Members:   []string{name},
				Reason:    fmt.Sprintf("unknown member kind %d", int(m.Kind)),
			}
		}
	}
	return reg, nil
}
