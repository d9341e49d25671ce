// Package metrics computes the derived time columns of a roster row:
// effective dictated time and efficiency.
package metrics

import (
	"fmt"
	"math"

	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/timeparse"
)

const (
	// ToleranceMinutes is how much late-start wait is absorbed before it
	// starts counting against the effective time.
	ToleranceMinutes = 10

	// DefaultScheduled is the scheduled-hours value assumed when the
	// column is blank.
	DefaultScheduled = "03:00:00"
)

// EffectiveTime computes the effective dictated time for a row from its
// end-of-class field minus any wait beyond the tolerance, as zero-padded
// HH:MM:00. Returns ok=false when the row has no end-of-class value.
func EffectiveTime(r *roster.Row) (string, bool) {
	if r.Empty(roster.FieldHoraFin) {
		return "", false
	}
	end := timeparse.ToMinutes(r.Text(roster.FieldHoraFin))
	wait := timeparse.ToMinutes(r.Text(roster.FieldEspera))
	adjusted := math.Max(wait-ToleranceMinutes, 0)
	return timeparse.FormatMinutes(math.Max(end-adjusted, 0)), true
}

// Efficiency computes effective time as a percentage of scheduled hours,
// rounded to an integer. The scheduled column defaults to DefaultScheduled
// when blank. Returns ok=false when effective time cannot be determined or
// the scheduled time is zero.
func Efficiency(r *roster.Row) (string, bool) {
	effective := r.Text(roster.FieldTiempoEfectivo)
	if effective == "" {
		var ok bool
		if effective, ok = EffectiveTime(r); !ok {
			return "", false
		}
	}
	scheduled := r.Text(roster.FieldHorasProgramadas)
	if scheduled == "" {
		scheduled = DefaultScheduled
	}
	scheduledMin := timeparse.ToMinutes(scheduled)
	if scheduledMin == 0 {
		return "", false
	}
	pct := math.Round(timeparse.ToMinutes(effective) / scheduledMin * 100)
	return fmt.Sprintf("%d%%", int(pct)), true
}

// ApplyConditional recomputes the derived columns in place. Effective time
// is only filled when currently empty, since the user may have corrected it
// by hand; efficiency is recomputed whenever an effective time is present
// so it never drifts out of sync.
func ApplyConditional(r *roster.Row) {
	if r.Empty(roster.FieldTiempoEfectivo) {
		if effective, ok := EffectiveTime(r); ok {
			r.SetString(roster.FieldTiempoEfectivo, effective)
		}
	}
	if !r.Empty(roster.FieldTiempoEfectivo) {
		if pct, ok := Efficiency(r); ok {
			r.SetString(roster.FieldEficiencia, pct)
		}
	}
}
