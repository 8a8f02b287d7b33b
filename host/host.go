// Package host is the application-facing query surface over the gate:
// usability and capability lookups for registered implementations, plus
// a per-capability provider index for discovery.
package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GoCodeAlone/contract"
	"github.com/GoCodeAlone/contract/gate"
	"github.com/GoCodeAlone/contract/validate"
)

// Provider records one usable implementation offering a capability.
type Provider struct {
	// Implementation is the providing type's name.
	Implementation string

	// Priority determines provider selection order; higher values win.
	Priority int

	// Capabilities is the implementation's full computed capability set.
	Capabilities []string
}

// Host wraps a Gate with discovery queries. Safe for concurrent use.
type Host struct {
	gate *gate.Gate

	mu        sync.RWMutex
	providers map[string][]Provider
	indexed   map[string]bool
}

// New creates a Host over the given gate. A nil gate gets a fresh one.
func New(g *gate.Gate) *Host {
	if g == nil {
		g = gate.New()
	}
	return &Host{
		gate:      g,
		providers: make(map[string][]Provider),
		indexed:   make(map[string]bool),
	}
}

// Gate exposes the underlying gate.
func (h *Host) Gate() *gate.Gate { return h.gate }

// Register validates and caches the implementation via the gate and, if
// it came out usable, indexes it as a provider for each capability it
// supports.
func (h *Host) Register(reg *contract.Registry, impl validate.Implementation, priority int) (*gate.Record, error) {
	rec, err := h.gate.Register(reg, impl)
	if err != nil {
		return rec, err
	}
	if !rec.Usable() {
		return rec, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// The gate dedupes re-registrations; dedupe the index too.
	if h.indexed[impl.Name] {
		return rec, nil
	}
	h.indexed[impl.Name] = true
	for _, tag := range rec.Result.Capabilities {
		h.providers[tag] = append(h.providers[tag], Provider{
			Implementation: impl.Name,
			Priority:       priority,
			Capabilities:   rec.Result.Capabilities,
		})
	}
	return rec, nil
}

// IsUsable reports whether the named implementation validated cleanly
// and has an empty unimplemented set. False for unknown names.
func (h *Host) IsUsable(name string) bool {
	rec, ok := h.gate.Record(name)
	return ok && rec.Usable()
}

// CapabilitiesOf returns the computed capability set of the named
// implementation, sorted. Nil for unknown or invalid names.
func (h *Host) CapabilitiesOf(name string) []string {
	rec, ok := h.gate.Record(name)
	if !ok || rec.Result == nil {
		return nil
	}
	caps := make([]string, len(rec.Result.Capabilities))
	copy(caps, rec.Result.Capabilities)
	return caps
}

// SupportsCapability reports whether the named implementation carries
// the capability tag.
func (h *Host) SupportsCapability(name, tag string) bool {
	rec, ok := h.gate.Record(name)
	return ok && rec.Result != nil && rec.Result.Supports(tag)
}

// HasProvider reports whether at least one usable implementation
// provides the capability.
func (h *Host) HasProvider(tag string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.providers[tag]) > 0
}

// Resolve returns the highest-priority provider for a capability.
func (h *Host) Resolve(tag string) (*Provider, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.providers[tag]
	if len(entries) == 0 {
		return nil, fmt.Errorf("host: no providers registered for capability %q", tag)
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if e.Priority > best.Priority {
			best = e
		}
	}
	return &best, nil
}

// Providers returns all providers for a capability, highest priority
// first. Nil when none are registered.
func (h *Host) Providers(tag string) []Provider {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.providers[tag]
	if len(entries) == 0 {
		return nil
	}
	result := make([]Provider, len(entries))
	copy(result, entries)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Priority > result[j].Priority })
	return result
}

// Capabilities returns the sorted list of capability tags that have at
// least one provider.
func (h *Host) Capabilities() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tags := make([]string, 0, len(h.providers))
	for tag, entries := range h.providers {
		if len(entries) > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Construct builds an instance of the named implementation through the
// gate's precondition check.
func (h *Host) Construct(name string, factory func() any) (*gate.Instance, error) {
	return h.gate.Construct(name, factory)
}
