package observe

import (
	"log/slog"
	"strings"

	"github.com/GoCodeAlone/contract/gate"
)

// Reporter logs gate events through slog. It implements gate.Observer
// and renders enough context (interface, implementation, members) for a
// host to act on without inspecting engine internals.
type Reporter struct {
	logger *slog.Logger
}

// NewReporter creates a Reporter. A nil logger uses slog.Default.
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// ValidationDone implements gate.Observer.
func (r *Reporter) ValidationDone(rec *gate.Record) {
	switch {
	case rec.State == gate.Invalid:
		r.logger.Error("implementation declaration invalid",
			"interface", rec.Interface,
			"implementation", rec.Implementation,
			"error", rec.Err)
	case !rec.Usable():
		r.logger.Warn("implementation is abstract",
			"interface", rec.Interface,
			"implementation", rec.Implementation,
			"unimplemented", strings.Join(rec.Result.Unimplemented, ","))
	default:
		r.logger.Info("implementation registered",
			"interface", rec.Interface,
			"implementation", rec.Implementation,
			"capabilities", strings.Join(rec.Result.Capabilities, ","))
	}
}

// ConstructionDone implements gate.Observer.
func (r *Reporter) ConstructionDone(implementation string) {
	r.logger.Debug("instance constructed", "implementation", implementation)
}

// ConstructionRefused implements gate.Observer.
func (r *Reporter) ConstructionRefused(implementation string, missing []string) {
	r.logger.Warn("construction refused",
		"implementation", implementation,
		"missing", strings.Join(missing, ","))
}
