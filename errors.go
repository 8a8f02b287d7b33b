package contract

import (
	"fmt"
	"strings"
)

// DeclarationError reports malformed interface or implementation
// metadata: bad version integers, duplicate members, or an inconsistent
// inheritance merge. It is raised at declaration time and is fatal to the
// declared type's usability.
type DeclarationError struct {
	// Interface is the name of the interface being declared or merged.
	Interface string

	// Implementation is the implementing type's name, when the error
	// concerns an implementation declaration.
	Implementation string

	// Members lists the offending member names, sorted.
	Members []string

	// Reason describes the violation.
	Reason string
}

func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("contract: invalid declaration")
	if e.Interface != "" {
		fmt.Fprintf(&b, " of interface %q", e.Interface)
	}
	if e.Implementation != "" {
		fmt.Fprintf(&b, " (implementation %q)", e.Implementation)
	}
	if len(e.Members) > 0 {
		fmt.Fprintf(&b, ", member(s) %s", strings.Join(e.Members, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// CapabilityInconsistencyError reports a capability group that an
// implementation supplies only partially: at least one binding member of
// the tag is present while others are missing. Detected at validation
// time and fatal to the implementation's usability.
type CapabilityInconsistencyError struct {
	Interface      string
	Implementation string

	// Capability is the partially implemented tag.
	Capability string

	// Missing lists the binding members of the tag the implementation
	// failed to supply, sorted.
	Missing []string
}

func (e *CapabilityInconsistencyError) Error() string {
	return fmt.Sprintf("contract: implementation %q of interface %q partially implements capability %q: missing %s",
		e.Implementation, e.Interface, e.Capability, strings.Join(e.Missing, ", "))
}

// AbstractMemberError reports an attempt to construct an implementation
// whose unimplemented-member set is non-empty. It is fatal to the
// construction attempt only; the type itself is simply not constructible.
type AbstractMemberError struct {
	Interface      string
	Implementation string

	// Missing lists the unimplemented mandatory members, sorted, with
	// no duplicates.
	Missing []string
}

func (e *AbstractMemberError) Error() string {
	return fmt.Sprintf("contract: cannot construct %q: unimplemented mandatory member(s) %s of interface %q",
		e.Implementation, strings.Join(e.Missing, ", "), e.Interface)
}
