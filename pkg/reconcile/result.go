package reconcile

import (
	"fmt"
	"time"

	"github.com/aulatools/conciliador/pkg/roster"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Table is the merged roster. It replaces the caller's table
	// wholesale; the input is never touched.
	Table *roster.Table

	// Updated counts existing rows that received data from the log.
	Updated int

	// Created counts rows materialized for log sessions absent from the
	// roster.
	Created int

	// Warnings are the human-readable notices produced during the run
	// (ambiguous section matches, section mismatches).
	Warnings []string

	// Metadata describes the run itself.
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation run.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Teachers is the number of distinct teachers processed.
	Teachers int

	// Entries is the session-log size the run saw.
	Entries int
}

// HasChanges reports whether the run modified or added any row.
func (r *Result) HasChanges() bool {
	return r.Updated > 0 || r.Created > 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d filas actualizadas, %d filas creadas (%d docentes, %d sesiones registradas)",
		r.Updated, r.Created, r.Metadata.Teachers, r.Metadata.Entries)
}
