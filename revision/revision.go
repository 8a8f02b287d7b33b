// Package revision keeps an in-memory changelog of interface revision
// bumps. The contract engine can only enforce revision monotonicity
// within a single merge; this history gives interface authors the same
// guarantee across releases.
package revision

import (
	"sort"
	"sync"
	"time"

	"github.com/GoCodeAlone/contract"
)

// Entry records one revision bump of an interface.
type Entry struct {
	Interface   string    `json:"interface"`
	Revision    int       `json:"revision"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// History stores revision entries per interface, sorted ascending.
// Safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries map[string][]*Entry
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{entries: make(map[string][]*Entry)}
}

// Record appends a revision entry for an interface. Revisions must be
// non-negative and never lower than the interface's last recorded
// revision; a regression is a *contract.DeclarationError.
func (h *History) Record(iface string, revision int, description, author string) (*Entry, error) {
	if iface == "" {
		return nil, &contract.DeclarationError{Reason: "revision: interface name is required"}
	}
	if revision < 0 {
		return nil, &contract.DeclarationError{
			Interface: iface,
			Reason:    "revision: revision must be non-negative",
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.entries[iface]
	if len(entries) > 0 {
		last := entries[len(entries)-1].Revision
		if revision < last {
			return nil, &contract.DeclarationError{
				Interface: iface,
				Reason:    "revision: revision counter may only move upward",
			}
		}
	}

	e := &Entry{
		Interface:   iface,
		Revision:    revision,
		Description: description,
		Author:      author,
		RecordedAt:  time.Now(),
	}
	h.entries[iface] = append(h.entries[iface], e)
	return e, nil
}

// Current returns the latest recorded revision for an interface.
func (h *History) Current(iface string) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.entries[iface]
	if len(entries) == 0 {
		return 0, false
	}
	return entries[len(entries)-1].Revision, true
}

// List returns all entries for an interface, newest first.
func (h *History) List(iface string) []*Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.entries[iface]
	result := make([]*Entry, len(entries))
	copy(result, entries)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Revision > result[j].Revision
	})
	return result
}

// Interfaces returns the names of all interfaces with history, sorted.
func (h *History) Interfaces() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of recorded entries for an interface.
func (h *History) Count(iface string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries[iface])
}

// Verify checks a freshly built registry against the recorded history:
// the registry's current revision must not be below the last recorded
// revision for its interface.
func (h *History) Verify(reg *contract.Registry) error {
	last, ok := h.Current(reg.Name())
	if !ok {
		return nil
	}
	if reg.CurrentRevision() < last {
		return &contract.DeclarationError{
			Interface: reg.Name(),
			Reason:    "revision: declared revision regresses below recorded history",
		}
	}
	return nil
}
