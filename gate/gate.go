// Package gate caches validation results per implementing type and
// enforces them as a precondition on construction. Validation runs at
// most once per registered type; construction is a cheap lookup against
// the cached result.
package gate

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/GoCodeAlone/contract"
	"github.com/GoCodeAlone/contract/validate"
)

// State tracks an implementing type through its declaration lifecycle.
type State int

const (
	// Undeclared means the type has never been registered.
	Undeclared State = iota

	// Validating means a registration is in flight.
	Validating

	// Valid means validation succeeded; instantiation is subject only
	// to the per-construction unimplemented-set check.
	Valid

	// Invalid means validation failed; the type can never be
	// instantiated and attempts re-return the original error.
	Invalid
)

func (s State) String() string {
	switch s {
	case Undeclared:
		return "undeclared"
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Record is the cached outcome of validating one implementing type.
type Record struct {
	// Interface is the name of the interface validated against.
	Interface string

	// Implementation is the implementing type's name.
	Implementation string

	// State is Valid or Invalid once registration returns.
	State State

	// Result holds the validator output when State is Valid.
	Result *validate.Result

	// Err holds the original validation error when State is Invalid.
	Err error

	// RegisteredAt is when the record was published.
	RegisteredAt time.Time
}

// Usable reports whether construction of the type can succeed.
func (r *Record) Usable() bool {
	return r.State == Valid && r.Result != nil && r.Result.Usable()
}

// Observer receives lifecycle notifications from the gate.
type Observer interface {
	ValidationDone(rec *Record)
	ConstructionDone(implementation string)
	ConstructionRefused(implementation string, missing []string)
}

// Instance is a live, gate-approved instance of an implementing type.
type Instance struct {
	// ID is a unique identifier for this construction.
	ID string

	// Implementation is the constructed type's name.
	Implementation string

	// Value is whatever the caller's factory produced.
	Value any
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the slog logger used for declaration events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// WithObserver attaches an observer for validation and construction
// events. May be given multiple times.
func WithObserver(obs Observer) Option {
	return func(g *Gate) { g.observers = append(g.observers, obs) }
}

// Gate owns the per-type validation cache. Safe for concurrent use:
// racing first registrations of the same type all observe the single
// published record.
type Gate struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	logger    *slog.Logger
	observers []Observer
	opts      validate.Options
}

// entry guards the one-time validation of a single type. The sync.Once
// is the initialization barrier; the record pointer is published
// atomically before Do returns, so every racing caller reads the same
// completed result and probes never block on an in-flight validation.
type entry struct {
	once   sync.Once
	record atomic.Pointer[Record]
}

// New creates an empty gate.
func New(opts ...Option) *Gate {
	g := &Gate{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// WithValidateOptions returns an Option setting the validator options
// used for every registration.
func WithValidateOptions(opts validate.Options) Option {
	return func(g *Gate) { g.opts = opts }
}

// Register validates the implementation against the registry, at most
// once per implementation name, and caches the outcome. Re-registering
// a name returns the original record: a Valid record's error is nil, an
// Invalid record re-returns the original validation error rather than
// recomputing it.
func (g *Gate) Register(reg *contract.Registry, impl validate.Implementation) (*Record, error) {
	if impl.Name == "" {
		return nil, &contract.DeclarationError{Reason: "implementation name is required"}
	}

	g.mu.Lock()
	e, ok := g.entries[impl.Name]
	if !ok {
		e = &entry{}
		g.entries[impl.Name] = e
	}
	g.mu.Unlock()

	e.once.Do(func() {
		rec := &Record{
			Implementation: impl.Name,
			RegisteredAt:   time.Now(),
		}
		if reg != nil {
			rec.Interface = reg.Name()
		}

		res, err := validate.CheckWith(reg, impl, g.opts)
		if err != nil {
			rec.State = Invalid
			rec.Err = err
			g.logger.Warn("implementation declaration rejected",
				"interface", rec.Interface,
				"implementation", impl.Name,
				"error", err)
		} else {
			rec.State = Valid
			rec.Result = res
			g.logger.Debug("implementation validated",
				"interface", rec.Interface,
				"implementation", impl.Name,
				"unimplemented", len(res.Unimplemented),
				"capabilities", res.Capabilities)
		}
		e.record.Store(rec)

		for _, obs := range g.observers {
			obs.ValidationDone(rec)
		}
	})

	rec := e.record.Load()
	if rec.State == Invalid {
		return rec, rec.Err
	}
	return rec, nil
}

// Record returns the cached record for an implementation name.
func (g *Gate) Record(name string) (*Record, bool) {
	g.mu.RLock()
	e, ok := g.entries[name]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}
	rec := e.record.Load()
	if rec == nil {
		return nil, false
	}
	return rec, true
}

// State returns the lifecycle state for an implementation name.
// Undeclared when the name has never been registered.
func (g *Gate) State(name string) State {
	g.mu.RLock()
	e, ok := g.entries[name]
	g.mu.RUnlock()
	if !ok {
		return Undeclared
	}
	rec := e.record.Load()
	if rec == nil {
		return Validating
	}
	return rec.State
}

// Implementations returns the registered implementation names, sorted.
func (g *Gate) Implementations() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.entries))
	for name := range g.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Construct runs the instantiation precondition for the named type and,
// if it passes, invokes factory and wraps its product in an Instance.
//
// The check consults only the cached record: an Invalid type re-returns
// its original validation error, and a Valid type with a non-empty
// unimplemented set is refused with an *contract.AbstractMemberError
// listing the missing members, sorted.
func (g *Gate) Construct(name string, factory func() any) (*Instance, error) {
	rec, ok := g.Record(name)
	if !ok {
		return nil, fmt.Errorf("gate: implementation %q is not registered", name)
	}

	if rec.State == Invalid {
		g.refused(name, nil)
		return nil, rec.Err
	}

	if missing := rec.Result.Unimplemented; len(missing) > 0 {
		g.refused(name, missing)
		return nil, &contract.AbstractMemberError{
			Interface:      rec.Interface,
			Implementation: name,
			Missing:        missing,
		}
	}

	if factory == nil {
		return nil, fmt.Errorf("gate: factory for %q is required", name)
	}

	inst := &Instance{
		ID:             uuid.NewString(),
		Implementation: name,
		Value:          factory(),
	}
	for _, obs := range g.observers {
		obs.ConstructionDone(name)
	}
	return inst, nil
}

func (g *Gate) refused(name string, missing []string) {
	g.logger.Warn("construction refused",
		"implementation", name,
		"missing", missing)
	for _, obs := range g.observers {
		obs.ConstructionRefused(name, missing)
	}
}
