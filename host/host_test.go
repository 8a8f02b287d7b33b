package host

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GoCodeAlone/contract"
	"github.com/GoCodeAlone/contract/gate"
	"github.com/GoCodeAlone/contract/validate"
)

func vaultRegistry(t *testing.T) *contract.Registry {
	t.Helper()
	reg, err := contract.NewInterface("vault", 1).
		Mandatory("save").
		Mandatory("encrypt", contract.Caps("crypto")).
		Mandatory("decrypt", contract.Caps("crypto")).
		Mandatory("rotate", contract.Since(1), contract.Caps("rotation")).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestHost_IsUsable(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)

	if _, err := h.Register(reg, validate.Implementation{
		Name:       "full-vault",
		APIVersion: 0,
		Supplied:   []string{"save", "encrypt", "decrypt"},
	}, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := h.Register(reg, validate.Implementation{
		Name:       "no-save-vault",
		APIVersion: 0,
		Supplied:   []string{"encrypt", "decrypt"},
	}, 0); err != nil {
		t.Fatalf("register: %v", err)
	}

	if !h.IsUsable("full-vault") {
		t.Error("IsUsable(full-vault) = false, want true")
	}
	if h.IsUsable("no-save-vault") {
		t.Error("IsUsable(no-save-vault) = true, want false")
	}
	if h.IsUsable("ghost") {
		t.Error("IsUsable(ghost) = true, want false")
	}
}

func TestHost_CapabilityQueries(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)

	if _, err := h.Register(reg, validate.Implementation{
		Name:                 "full-vault",
		APIVersion:           1,
		DeclaredCapabilities: []string{"fips"},
		Supplied:             []string{"save", "encrypt", "decrypt", "rotate"},
	}, 0); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := h.CapabilitiesOf("full-vault")
	want := []string{"crypto", "fips", "rotation"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CapabilitiesOf = %v, want %v", got, want)
	}
	if !h.SupportsCapability("full-vault", "crypto") {
		t.Error("SupportsCapability(crypto) = false, want true")
	}
	if h.SupportsCapability("full-vault", "sharding") {
		t.Error("SupportsCapability(sharding) = true, want false")
	}
	if h.CapabilitiesOf("ghost") != nil {
		t.Error("CapabilitiesOf(ghost) should be nil")
	}
}

func TestHost_ResolveHighestPriority(t *testing.T) {
	h := New(gate.New())
	reg := vaultRegistry(t)

	impls := []struct {
		name     string
		priority int
	}{
		{"vault-a", 1},
		{"vault-b", 10},
		{"vault-c", 5},
	}
	for _, im := range impls {
		if _, err := h.Register(reg, validate.Implementation{
			Name:       im.name,
			APIVersion: 0,
			Supplied:   []string{"save", "encrypt", "decrypt"},
		}, im.priority); err != nil {
			t.Fatalf("register %s: %v", im.name, err)
		}
	}

	p, err := h.Resolve("crypto")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Implementation != "vault-b" {
		t.Errorf("Resolve = %q, want vault-b", p.Implementation)
	}

	providers := h.Providers("crypto")
	if len(providers) != 3 {
		t.Fatalf("len(Providers) = %d, want 3", len(providers))
	}
	if providers[0].Implementation != "vault-b" {
		t.Errorf("Providers[0] = %q, want vault-b", providers[0].Implementation)
	}

	if !h.HasProvider("crypto") {
		t.Error("HasProvider(crypto) = false, want true")
	}
	if h.HasProvider("sharding") {
		t.Error("HasProvider(sharding) = true, want false")
	}
	if _, err := h.Resolve("sharding"); err == nil {
		t.Error("expected error resolving capability with no providers")
	}
}

func TestHost_UnusableImplementationNotIndexed(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)

	if _, err := h.Register(reg, validate.Implementation{
		Name:       "no-save-vault",
		APIVersion: 0,
		Supplied:   []string{"encrypt", "decrypt"},
	}, 100); err != nil {
		t.Fatalf("register: %v", err)
	}

	if h.HasProvider("crypto") {
		t.Error("unusable implementation must not be indexed as a provider")
	}
}

func TestHost_Capabilities(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)

	if _, err := h.Register(reg, validate.Implementation{
		Name:       "full-vault",
		APIVersion: 1,
		Supplied:   []string{"save", "encrypt", "decrypt", "rotate"},
	}, 0); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := h.Capabilities()
	want := []string{"crypto", "rotation"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Capabilities() = %v, want %v", got, want)
	}
}

func TestHost_ReRegisterNotIndexedTwice(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)
	impl := validate.Implementation{
		Name:       "full-vault",
		APIVersion: 0,
		Supplied:   []string{"save", "encrypt", "decrypt"},
	}

	for i := 0; i < 3; i++ {
		if _, err := h.Register(reg, impl, 0); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	if got := len(h.Providers("crypto")); got != 1 {
		t.Errorf("len(Providers) = %d, want 1 after repeated registration", got)
	}
}

func TestHost_ConstructDelegatesToGate(t *testing.T) {
	h := New(nil)
	reg := vaultRegistry(t)

	if _, err := h.Register(reg, validate.Implementation{
		Name:       "no-save-vault",
		APIVersion: 0,
		Supplied:   []string{"encrypt", "decrypt"},
	}, 0); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := h.Construct("no-save-vault", func() any { return nil })
	var abs *contract.AbstractMemberError
	if !errors.As(err, &abs) {
		t.Fatalf("expected AbstractMemberError, got %v", err)
	}
	want := []string{"save"}
	if !reflect.DeepEqual(abs.Missing, want) {
		t.Errorf("Missing = %v, want %v", abs.Missing, want)
	}
}
