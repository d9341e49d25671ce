// Package reconcile implements the matching engine that merges a teaching
// roster with videoconference session logs. For every distinct teacher it
// runs three ordered completion passes plus a creation pass, tracking
// consumed log entries so no session is ever applied to two rows. A run is
// all-or-nothing: the engine works on a clone of the roster and only the
// returned table reflects the merge.
package reconcile

import (
	"context"
	"time"

	"github.com/aulatools/conciliador/pkg/errors"
	"github.com/aulatools/conciliador/pkg/logging"
	"github.com/aulatools/conciliador/pkg/metrics"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

// Engine reconciles a roster table against a session-log set.
type Engine struct {
	proximityWindow float64
	notify          Notifier
}

// Notifier receives human-readable warnings during a run, fire-and-forget.
type Notifier func(message string)

// New creates an Engine with options.
func New(opts ...Option) (*Engine, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		proximityWindow: options.proximityWindow,
		notify:          options.notify,
	}, nil
}

// Run reconciles the roster against the session log and returns the merged
// table with update/creation counts. The input table is never modified; on
// error the caller's state is untouched.
func (e *Engine) Run(ctx context.Context, table *roster.Table, logs *sessionlog.Set) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	if table == nil || len(table.Rows) == 0 {
		return nil, errors.ErrNoRoster
	}
	if logs == nil || logs.Len() == 0 {
		return nil, errors.ErrNoSessions
	}
	teachers := table.Teachers()
	if len(teachers) == 0 {
		return nil, errors.ErrNoTeachers
	}

	work := table.Clone()
	result := &Result{Table: work}
	state := &runState{
		keys:    sessionlog.NewKeySet(),
		starts:  sessionlog.NewStartSet(),
		entries: logs.Entries(),
		result:  result,
		notify:  e.notify,
	}

	for _, teacher := range teachers {
		tlog := logger.With().Str("docente", teacher).Logger()

		updated := e.completeExistingRows(state, work, teacher)
		updated += e.fillEmptyRows(state, work, teacher)
		updated += e.matchByProximity(state, work, teacher)
		created := e.createMissingRows(state, work, teacher)

		result.Updated += updated
		result.Created += created
		tlog.Debug().
			Int("updated", updated).
			Int("created", created).
			Msg("Teacher reconciled")
	}

	// Safety pass: derived columns for every row, matched or not.
	for _, row := range work.Rows {
		metrics.ApplyConditional(row)
	}
	EnsureComputedHeaders(work)

	result.Metadata = ResultMetadata{
		StartTime: start,
		EndTime:   time.Now(),
		Teachers:  len(teachers),
		Entries:   logs.Len(),
	}
	result.Metadata.Duration = result.Metadata.EndTime.Sub(start)

	logger.Info().
		Int("teachers", len(teachers)).
		Int("updated", result.Updated).
		Int("created", result.Created).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

// EnsureComputedHeaders appends the derived-column headers the engine
// maintains. Kept as its own step so header bookkeeping stays out of the
// row passes.
func EnsureComputedHeaders(t *roster.Table) {
	t.EnsureHeaders(roster.HeaderTiempoEfectivo, roster.HeaderEficiencia)
}

// runState carries the consumption tracking shared by all passes of one
// run. The two sets are deliberately separate: key consumption identifies
// sessions by their parsed (course, section, session) triple, while the
// proximity fallback fires precisely for entries whose topic never parsed,
// so those are tracked by their literal start-time value.
type runState struct {
	keys    sessionlog.KeySet
	starts  sessionlog.StartSet
	entries []sessionlog.Entry
	result  *Result
	notify  Notifier
}

func (s *runState) warn(message string) {
	s.result.Warnings = append(s.result.Warnings, message)
	if s.notify != nil {
		s.notify(message)
	}
}
