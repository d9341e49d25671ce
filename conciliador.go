// Package conciliador reconciles a teaching roster against videoconference
// session logs and normalizes the result into a fixed per-group session
// grid. It is the library entry point; the packages under pkg/ expose the
// individual stages.
package conciliador

import (
	"context"

	"github.com/aulatools/conciliador/pkg/grid"
	"github.com/aulatools/conciliador/pkg/reconcile"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

// Re-exports so most callers only need this package.
type (
	// Option configures the reconciliation engine.
	Option = reconcile.Option

	// Result is the outcome of a Process run.
	Result = reconcile.Result
)

// Engine option constructors.
var (
	WithProximityWindow = reconcile.WithProximityWindow
	WithNotifier        = reconcile.WithNotifier
)

// Process runs the full pipeline over a roster: reconciliation against the
// session log, then session-grid normalization. The input table is never
// modified; the returned Result carries the replacement table. On error the
// caller's state is untouched.
func Process(ctx context.Context, table *roster.Table, logs *sessionlog.Set, opts ...reconcile.Option) (*reconcile.Result, error) {
	engine, err := reconcile.New(opts...)
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx, table, logs)
	if err != nil {
		return nil, err
	}

	result.Table = grid.Normalize(ctx, result.Table, logs)
	reconcile.EnsureComputedHeaders(result.Table)
	return result, nil
}
