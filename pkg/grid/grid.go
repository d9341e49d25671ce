// Package grid normalizes a reconciled roster so every (teacher, course,
// section) group carries exactly one row per session slot. Existing rows
// are kept as the same objects; only their session number is canonicalized
// and their derived columns recomputed. Missing slots get placeholder rows
// that inherit the group's scheduling metadata.
package grid

import (
	"context"
	"strconv"

	"github.com/aulatools/conciliador/pkg/logging"
	"github.com/aulatools/conciliador/pkg/metrics"
	"github.com/aulatools/conciliador/pkg/normalize"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
	"github.com/aulatools/conciliador/pkg/timeparse"
)

// SessionsPerGroup is how many session slots every group is normalized to.
const SessionsPerGroup = 16

// placeholderFields is the metadata copied from a group's first row into a
// synthesized placeholder. Everything else starts blank.
var placeholderFields = []roster.Field{
	roster.FieldDocente,
	roster.FieldCurso,
	roster.FieldSeccion,
	roster.FieldModelo,
	roster.FieldModalidad,
	roster.FieldCiclo,
	roster.FieldPeriodo,
	roster.FieldAula,
	roster.FieldDias,
	roster.FieldHoraProgInicio,
	roster.FieldHoraProgFin,
	roster.FieldTurno,
}

type groupKey struct {
	docente string
	curso   string
	seccion string
}

// Normalize rebuilds the table so each group holds sessions 1 through
// SessionsPerGroup exactly once, in group first-appearance order. Rows
// lacking teacher, course, or section cannot be grouped and are appended
// unchanged at the end. The session log, when provided, fills placeholder
// rows whose exact triple appears in it.
func Normalize(ctx context.Context, table *roster.Table, logs *sessionlog.Set) *roster.Table {
	logger := logging.FromContext(ctx)

	out := &roster.Table{Headers: append([]string(nil), table.Headers...)}

	var order []groupKey
	groups := make(map[groupKey][]*roster.Row)
	var loose []*roster.Row

	for _, row := range table.Rows {
		key := groupKey{
			docente: normalize.TeacherName(row.Text(roster.FieldDocente)),
			curso:   normalize.CourseName(row.Text(roster.FieldCurso)),
			seccion: normalize.Section(row.Text(roster.FieldSeccion)),
		}
		if key.docente == "" || key.curso == "" || key.seccion == "" {
			loose = append(loose, row)
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	placeholders := 0
	for _, key := range order {
		rows := groups[key]
		bySession := make(map[int]*roster.Row, SessionsPerGroup)
		for _, row := range rows {
			n := row.Sesion()
			if n < 1 || n > SessionsPerGroup {
				continue
			}
			if _, taken := bySession[n]; !taken {
				bySession[n] = row
			}
		}
		if len(bySession) == 0 {
			// No usable session number anywhere in the group.
			bySession[1] = rows[0]
		}

		first := rows[0]
		for n := 1; n <= SessionsPerGroup; n++ {
			row, ok := bySession[n]
			if !ok {
				row = synthesize(first, n, logs)
				placeholders++
			} else {
				row.SetString(roster.FieldSesion, strconv.Itoa(n))
				row.SetIfEmpty(roster.FieldHorasProgramadas, metrics.DefaultScheduled)
			}
			metrics.ApplyConditional(row)
			out.Rows = append(out.Rows, row)
		}
	}

	for _, row := range loose {
		metrics.ApplyConditional(row)
		out.Rows = append(out.Rows, row)
	}

	logger.Debug().
		Int("groups", len(order)).
		Int("placeholders", placeholders).
		Int("ungrouped", len(loose)).
		Msg("Session grid normalized")

	return out
}

// synthesize builds the placeholder row for a missing session slot.
func synthesize(first *roster.Row, sesion int, logs *sessionlog.Set) *roster.Row {
	row := roster.NewRow()
	for _, f := range placeholderFields {
		if v := first.Get(f); v != nil {
			s := *v
			row.Set(f, &s)
		}
	}
	row.SetString(roster.FieldSesion, strconv.Itoa(sesion))
	row.SetString(roster.FieldHorasProgramadas, metrics.DefaultScheduled)

	if logs != nil {
		lookupSession(row, first, sesion, logs)
	}
	return row
}

// lookupSession scans the log for an entry matching this exact (course,
// section, session) triple and teacher, and copies its times when found.
func lookupSession(row, first *roster.Row, sesion int, logs *sessionlog.Set) {
	want := sessionlog.NewKey(first.Text(roster.FieldCurso), first.Text(roster.FieldSeccion), sesion)
	for _, entry := range logs.Entries() {
		if !normalize.MatchTeacher(entry.Host, first.Text(roster.FieldDocente)) {
			continue
		}
		topic, ok := sessionlog.ParseTopic(entry.Topic)
		if !ok || !topic.HasSesion || topic.Key() != want {
			continue
		}
		date, startClock := timeparse.SplitTimestamp(entry.Start)
		_, endClock := timeparse.SplitTimestamp(entry.End)
		if date != "" {
			row.SetString(roster.FieldFecha, date)
		}
		if startClock != "" {
			row.SetString(roster.FieldHoraInicio, startClock)
		}
		if endClock != "" {
			row.SetString(roster.FieldHoraFin, endClock)
		}
		if shift, ok := timeparse.DetectShift(startClock); ok {
			row.SetString(roster.FieldTurno, shift)
		}
		return
	}
}
