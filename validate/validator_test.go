package validate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GoCodeAlone/contract"
)

func storageRegistry(t *testing.T) *contract.Registry {
	t.Helper()
	reg, err := contract.NewInterface("storage", 1).
		Mandatory("save").
		Mandatory("load").
		Mandatory("delete").
		Mandatory("list", contract.Since(1), contract.Caps("list")).
		Provided("log").
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestCheck_AllSupplied(t *testing.T) {
	reg := storageRegistry(t)

	res, err := Check(reg, Implementation{
		Name:       "disk-store",
		APIVersion: 0,
		Supplied:   []string{"save", "load", "delete"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Usable() {
		t.Errorf("Usable() = false, want true; unimplemented %v", res.Unimplemented)
	}
	if len(res.Unimplemented) != 0 {
		t.Errorf("Unimplemented = %v, want empty", res.Unimplemented)
	}
}

func TestCheck_MemberNotBindingAtOlderRevision(t *testing.T) {
	reg := storageRegistry(t)

	// list was introduced at revision 1; a revision-0 implementation
	// cannot be asked for it.
	res, err := Check(reg, Implementation{
		Name:       "legacy-store",
		APIVersion: 0,
		Supplied:   []string{"save", "load", "delete"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Usable() {
		t.Errorf("revision-0 implementation should be usable, unimplemented %v", res.Unimplemented)
	}
}

func TestCheck_MemberBindingAtTargetedRevision(t *testing.T) {
	reg := storageRegistry(t)

	res, err := Check(reg, Implementation{
		Name:       "legacy-store",
		APIVersion: 1,
		Supplied:   []string{"save", "load", "delete"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"list"}
	if !reflect.DeepEqual(res.Unimplemented, want) {
		t.Errorf("Unimplemented = %v, want %v", res.Unimplemented, want)
	}
	if res.Usable() {
		t.Error("Usable() = true, want false")
	}
}

func TestCheck_MinimumVersionExceedsAPIVersion(t *testing.T) {
	reg := storageRegistry(t)

	_, err := Check(reg, Implementation{
		Name:           "bad-range",
		APIVersion:     1,
		MinimumVersion: 2,
		Supplied:       []string{"save", "load", "delete", "list"},
	})
	var decl *contract.DeclarationError
	if !errors.As(err, &decl) {
		t.Fatalf("expected DeclarationError, got %v", err)
	}
	if decl.Implementation != "bad-range" {
		t.Errorf("Implementation = %q, want %q", decl.Implementation, "bad-range")
	}
}

func TestCheck_NegativeVersions(t *testing.T) {
	reg := storageRegistry(t)

	if _, err := Check(reg, Implementation{Name: "x", APIVersion: -1}); err == nil {
		t.Error("expected declaration error for negative api version")
	}
	if _, err := Check(reg, Implementation{Name: "x", APIVersion: 0, MinimumVersion: -1}); err == nil {
		t.Error("expected declaration error for negative minimum version")
	}
}

func TestCheck_MissingName(t *testing.T) {
	reg := storageRegistry(t)
	if _, err := Check(reg, Implementation{APIVersion: 0}); err == nil {
		t.Error("expected declaration error for missing implementation name")
	}
}

func TestCheck_NilRegistry(t *testing.T) {
	if _, err := Check(nil, Implementation{Name: "x"}); err == nil {
		t.Error("expected declaration error for nil registry")
	}
}

func cryptoRegistry(t *testing.T) *contract.Registry {
	t.Helper()
	reg, err := contract.NewInterface("vault", 0).
		Mandatory("save").
		Mandatory("encrypt", contract.Caps("crypto")).
		Mandatory("decrypt", contract.Caps("crypto")).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestCheck_PartialCapabilityIsFatal(t *testing.T) {
	reg := cryptoRegistry(t)

	_, err := Check(reg, Implementation{
		Name:       "half-vault",
		APIVersion: 0,
		Supplied:   []string{"save", "encrypt"},
	})
	var inc *contract.CapabilityInconsistencyError
	if !errors.As(err, &inc) {
		t.Fatalf("expected CapabilityInconsistencyError, got %v", err)
	}
	if inc.Capability != "crypto" {
		t.Errorf("Capability = %q, want %q", inc.Capability, "crypto")
	}
	want := []string{"decrypt"}
	if !reflect.DeepEqual(inc.Missing, want) {
		t.Errorf("Missing = %v, want %v", inc.Missing, want)
	}
}

func TestCheck_FullCapabilityComputed(t *testing.T) {
	reg := cryptoRegistry(t)

	res, err := Check(reg, Implementation{
		Name:       "full-vault",
		APIVersion: 0,
		Supplied:   []string{"save", "encrypt", "decrypt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"crypto"}
	if !reflect.DeepEqual(res.Capabilities, want) {
		t.Errorf("Capabilities = %v, want %v", res.Capabilities, want)
	}
	if !res.Supports("crypto") {
		t.Error("Supports(crypto) = false, want true")
	}
	if res.Supports("list") {
		t.Error("Supports(list) = true, want false")
	}
}

func TestCheck_UntouchedCapabilityAbsent(t *testing.T) {
	reg := cryptoRegistry(t)

	res, err := Check(reg, Implementation{
		Name:       "plain-vault",
		APIVersion: 0,
		Supplied:   []string{"save"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Capabilities) != 0 {
		t.Errorf("Capabilities = %v, want empty", res.Capabilities)
	}
	// Untagged members are still demanded; the tagged ones too once binding.
	want := []string{"decrypt", "encrypt"}
	if !reflect.DeepEqual(res.Unimplemented, want) {
		t.Errorf("Unimplemented = %v, want %v", res.Unimplemented, want)
	}
}

func TestCheckWith_LenientCapabilities(t *testing.T) {
	reg := cryptoRegistry(t)

	res, err := CheckWith(reg, Implementation{
		Name:       "half-vault",
		APIVersion: 0,
		Supplied:   []string{"save", "encrypt"},
	}, Options{LenientCapabilities: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Supports("crypto") {
		t.Error("partial tag must not appear in the computed set")
	}
	want := []string{"decrypt"}
	if !reflect.DeepEqual(res.Unimplemented, want) {
		t.Errorf("Unimplemented = %v, want %v", res.Unimplemented, want)
	}
}

func TestCheck_DeclaredCapabilitiesMerged(t *testing.T) {
	reg := cryptoRegistry(t)

	res, err := Check(reg, Implementation{
		Name:                 "full-vault",
		APIVersion:           0,
		DeclaredCapabilities: []string{"zeroize", "crypto"},
		Supplied:             []string{"save", "encrypt", "decrypt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"crypto", "zeroize"}
	if !reflect.DeepEqual(res.Capabilities, want) {
		t.Errorf("Capabilities = %v, want %v", res.Capabilities, want)
	}
}

func TestCheck_Idempotent(t *testing.T) {
	reg := storageRegistry(t)
	impl := Implementation{
		Name:       "legacy-store",
		APIVersion: 1,
		Supplied:   []string{"save", "load", "delete"},
	}

	first, err := Check(reg, impl)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	second, err := Check(reg, impl)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ across runs: %+v vs %+v", first, second)
	}
}

func TestCheck_BackwardCompatibilityLaw(t *testing.T) {
	reg, err := contract.NewInterface("storage", 3).
		Mandatory("save").
		Mandatory("load").
		Mandatory("archive", contract.Since(3)).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	supplied := []string{"save", "load"}
	// Valid at revisions 0..2; revision 3 demands archive.
	for v := 0; v <= 2; v++ {
		res, err := Check(reg, Implementation{Name: "old", APIVersion: v, Supplied: supplied})
		if err != nil {
			t.Fatalf("revision %d: %v", v, err)
		}
		if !res.Usable() {
			t.Errorf("revision %d: Usable() = false, unimplemented %v", v, res.Unimplemented)
		}
	}
	res, err := Check(reg, Implementation{Name: "old", APIVersion: 3, Supplied: supplied})
	if err != nil {
		t.Fatalf("revision 3: %v", err)
	}
	if res.Usable() {
		t.Error("revision 3 should demand archive")
	}
}
