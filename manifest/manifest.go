// Package manifest declares interfaces and implementations in JSON or
// YAML files and converts valid declarations into contract registries
// and implementation descriptors.
package manifest

import (
	"fmt"
	"regexp"

	"github.com/GoCodeAlone/contract"
	"github.com/GoCodeAlone/contract/validate"
)

// MemberSpec is one member declaration in an interface manifest.
type MemberSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         string   `json:"kind" yaml:"kind"` // "mandatory" or "provided"
	Property     bool     `json:"property,omitempty" yaml:"property,omitempty"`
	Since        int      `json:"since,omitempty" yaml:"since,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// InterfaceManifest declares a versioned interface contract.
type InterfaceManifest struct {
	Name        string       `json:"name" yaml:"name"`
	Revision    int          `json:"revision" yaml:"revision"`
	Version     string       `json:"version,omitempty" yaml:"version,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Members     []MemberSpec `json:"members" yaml:"members"`
}

// ImplementationManifest declares a concrete implementation of an
// interface and the revision range it targets.
type ImplementationManifest struct {
	Name           string   `json:"name" yaml:"name"`
	Interface      string   `json:"interface" yaml:"interface"`
	APIVersion     int      `json:"apiVersion" yaml:"apiVersion"`
	MinimumVersion int      `json:"minimumVersion,omitempty" yaml:"minimumVersion,omitempty"`
	Version        string   `json:"version,omitempty" yaml:"version,omitempty"`
	Author         string   `json:"author,omitempty" yaml:"author,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Capabilities   []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Supplies       []string `json:"supplies" yaml:"supplies"`
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

func isValidName(name string) bool {
	if len(name) < 2 {
		return len(name) == 1 && name[0] >= 'a' && name[0] <= 'z'
	}
	return nameRe.MatchString(name)
}

// Validate checks that the interface manifest has all required fields,
// well-formed version attributes, and internally consistent members.
// Violations are *contract.DeclarationError values.
func (m *InterfaceManifest) Validate() error {
	if m.Name == "" {
		return &contract.DeclarationError{Reason: "manifest: interface name is required"}
	}
	if !isValidName(m.Name) {
		return &contract.DeclarationError{
			Interface: m.Name,
			Reason:    "manifest: name must be lowercase alphanumeric with hyphens",
		}
	}
	if m.Revision < 0 {
		return &contract.DeclarationError{
			Interface: m.Name,
			Reason:    fmt.Sprintf("manifest: revision %d must be non-negative", m.Revision),
		}
	}
	if m.Version != "" {
		if _, err := ParseSemver(m.Version); err != nil {
			return &contract.DeclarationError{
				Interface: m.Name,
				Reason:    fmt.Sprintf("manifest: invalid version %q: %v", m.Version, err),
			}
		}
	}
	if len(m.Members) == 0 {
		return &contract.DeclarationError{
			Interface: m.Name,
			Reason:    "manifest: at least one member is required",
		}
	}
	for _, spec := range m.Members {
		if spec.Name == "" {
			return &contract.DeclarationError{
				Interface: m.Name,
				Reason:    "manifest: member name is required",
			}
		}
		if _, err := parseKind(spec.Kind); err != nil {
			return &contract.DeclarationError{
				Interface: m.Name,
				Members:   []string{spec.Name},
				Reason:    fmt.Sprintf("manifest: %v", err),
			}
		}
	}
	return nil
}

func parseKind(kind string) (contract.Kind, error) {
	switch kind {
	case "mandatory":
		return contract.Mandatory, nil
	case "provided":
		return contract.Provided, nil
	}
	return 0, fmt.Errorf("unknown member kind %q (want \"mandatory\" or \"provided\")", kind)
}

// Build validates the manifest and constructs its contract registry.
// Registry-level invariants (duplicate members, introduced-at bounds)
// are enforced by the contract builder.
func (m *InterfaceManifest) Build() (*contract.Registry, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := contract.NewInterface(m.Name, m.Revision)
	for _, spec := range m.Members {
		kind, _ := parseKind(spec.Kind)
		b.Add(contract.Member{
			Name:         spec.Name,
			Kind:         kind,
			Property:     spec.Property,
			IntroducedAt: spec.Since,
			Capabilities: spec.Capabilities,
		})
	}
	return b.Build()
}

// Validate checks the implementation manifest's required fields and
// version attributes. Violations are *contract.DeclarationError values.
func (m *ImplementationManifest) Validate() error {
	if m.Name == "" {
		return &contract.DeclarationError{
			Interface: m.Interface,
			Reason:    "manifest: implementation name is required",
		}
	}
	if !isValidName(m.Name) {
		return &contract.DeclarationError{
			Interface:      m.Interface,
			Implementation: m.Name,
			Reason:         "manifest: name must be lowercase alphanumeric with hyphens",
		}
	}
	if m.Interface == "" {
		return &contract.DeclarationError{
			Implementation: m.Name,
			Reason:         "manifest: interface name is required",
		}
	}
	if m.APIVersion < 0 {
		return &contract.DeclarationError{
			Interface:      m.Interface,
			Implementation: m.Name,
			Reason:         fmt.Sprintf("manifest: api version %d must be non-negative", m.APIVersion),
		}
	}
	if m.MinimumVersion < 0 || m.MinimumVersion > m.APIVersion {
		return &contract.DeclarationError{
			Interface:      m.Interface,
			Implementation: m.Name,
			Reason: fmt.Sprintf("manifest: minimum version %d out of range [0, %d]",
				m.MinimumVersion, m.APIVersion),
		}
	}
	if m.Version != "" {
		if _, err := ParseSemver(m.Version); err != nil {
			return &contract.DeclarationError{
				Interface:      m.Interface,
				Implementation: m.Name,
				Reason:         fmt.Sprintf("manifest: invalid version %q: %v", m.Version, err),
			}
		}
	}
	return nil
}

// Implementation converts the manifest into a validator descriptor.
func (m *ImplementationManifest) Implementation() validate.Implementation {
	return validate.Implementation{
		Name:                 m.Name,
		APIVersion:           m.APIVersion,
		MinimumVersion:       m.MinimumVersion,
		Version:              m.Version,
		DeclaredCapabilities: m.Capabilities,
		Supplied:             m.Supplies,
	}
}
