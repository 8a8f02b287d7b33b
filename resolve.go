package contract

import "sort"

// BindingMandatory returns the names of the mandatory members that are
// binding at the given revision, sorted. A member is binding iff its
// IntroducedAt is at most the revision, which is what keeps interface
// evolution backward-compatible: a member added after an
// implementation's targeted revision is never demanded of it.
//
// Pure and total; revision 0 yields exactly the revision-0 mandatory set.
func (r *Registry) BindingMandatory(revision int) []string {
	members := r.BindingMembers(revision)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names
}

// BindingMembers returns the mandatory member descriptors binding at the
// given revision, sorted by name.
func (r *Registry) BindingMembers(revision int) []Member {
	members := make([]Member, 0, len(r.mandatory))
	for _, m := range r.mandatory {
		if m.BindingAt(revision) {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}
