package reconcile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aulatools/conciliador/pkg/metrics"
	"github.com/aulatools/conciliador/pkg/normalize"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
	"github.com/aulatools/conciliador/pkg/timeparse"
)

// ModeloVirtual is the delivery-model value stamped on rows completed or
// created from a videoconference log entry.
const ModeloVirtual = "VIRTUAL"

// completeExistingRows is the exact-completion pass: rows that already
// carry course, section, and session are matched against unconsumed log
// entries whose topic parses to the same triple. First unconsumed match
// wins, in log order.
func (e *Engine) completeExistingRows(s *runState, work *roster.Table, teacher string) int {
	updated := 0
	for _, row := range work.Rows {
		if row.Text(roster.FieldDocente) != teacher {
			continue
		}
		if row.Empty(roster.FieldCurso) || row.Empty(roster.FieldSeccion) || row.Sesion() == 0 {
			continue
		}
		rowKey := sessionlog.NewKey(row.Text(roster.FieldCurso), row.Text(roster.FieldSeccion), row.Sesion())
		if s.keys.Has(rowKey) {
			continue
		}
		for _, entry := range s.entries {
			if !normalize.MatchTeacher(entry.Host, teacher) {
				continue
			}
			topic, ok := sessionlog.ParseTopic(entry.Topic)
			if !ok || !topic.HasSesion {
				continue
			}
			if topic.Key() != rowKey {
				continue
			}
			s.keys.Consume(rowKey)
			applyEntry(row, entry, topic.Curso)
			updated++
			break
		}
	}
	return updated
}

// fillEmptyRows is the empty-row pass: rows of the teacher with a missing
// course, section, or session take their triple from the first unconsumed
// parseable log entry for that teacher. A partially filled row only accepts
// entries consistent with the fields it already has, so a row that knows
// its course never gets another course's session.
func (e *Engine) fillEmptyRows(s *runState, work *roster.Table, teacher string) int {
	updated := 0
	for _, row := range work.Rows {
		if row.Text(roster.FieldDocente) != teacher {
			continue
		}
		if !row.Empty(roster.FieldCurso) && !row.Empty(roster.FieldSeccion) && row.Sesion() != 0 {
			continue
		}
		for _, entry := range s.entries {
			if !normalize.MatchTeacher(entry.Host, teacher) {
				continue
			}
			topic, ok := sessionlog.ParseTopic(entry.Topic)
			if !ok {
				continue
			}
			if !row.Empty(roster.FieldCurso) &&
				normalize.CourseName(row.Text(roster.FieldCurso)) != normalize.CourseName(topic.Curso) {
				continue
			}
			if !row.Empty(roster.FieldSeccion) {
				if matched, _ := normalize.MatchSection(row.Text(roster.FieldSeccion), topic.Seccion); !matched {
					continue
				}
			}
			key := topic.Key()
			if n := row.Sesion(); n != 0 && n != key.Sesion {
				continue
			}
			if s.keys.Has(key) {
				continue
			}
			s.keys.Consume(key)
			row.SetString(roster.FieldCurso, topic.Curso)
			row.SetString(roster.FieldSeccion, "PEAD-"+topic.Seccion)
			row.SetString(roster.FieldSesion, strconv.Itoa(key.Sesion))
			applyEntry(row, entry, topic.Curso)
			updated++
			break
		}
	}
	return updated
}

// matchByProximity is the fallback for rows that still miss date, start, or
// end but know their own start time: the nearest log entry by start-time
// distance wins, within the acceptance window. Consumption here is keyed by
// the entry's literal start-time string.
func (e *Engine) matchByProximity(s *runState, work *roster.Table, teacher string) int {
	updated := 0
	for _, row := range work.Rows {
		if row.Text(roster.FieldDocente) != teacher {
			continue
		}
		if !row.Empty(roster.FieldFecha) && !row.Empty(roster.FieldHoraInicio) && !row.Empty(roster.FieldHoraFin) {
			continue
		}
		if row.Empty(roster.FieldHoraInicio) {
			continue
		}
		rowStart := timeparse.ToMinutes(row.Text(roster.FieldHoraInicio))

		var best *sessionlog.Entry
		bestDiff := math.MaxFloat64
		for i := range s.entries {
			entry := &s.entries[i]
			if !normalize.MatchTeacher(entry.Host, teacher) || s.starts.Has(entry.Start) {
				continue
			}
			_, clock := timeparse.SplitTimestamp(entry.Start)
			if clock == "" {
				continue
			}
			diff := math.Abs(timeparse.ToMinutes(clock) - rowStart)
			if diff < bestDiff {
				best, bestDiff = entry, diff
			}
		}
		if best == nil || bestDiff > e.proximityWindow {
			continue
		}
		s.starts.Consume(best.Start)
		fillTimes(row, *best)
		updated++
	}
	return updated
}

// createMissingRows materializes a roster row for every log entry of the
// teacher whose key is still unconsumed and not already represented in the
// roster. An existing row always wins over creating a duplicate.
func (e *Engine) createMissingRows(s *runState, work *roster.Table, teacher string) int {
	created := 0
	for _, entry := range s.entries {
		if !normalize.MatchTeacher(entry.Host, teacher) {
			continue
		}
		topic, ok := sessionlog.ParseTopic(entry.Topic)
		if !ok {
			continue
		}
		key := topic.Key()
		if s.keys.Has(key) {
			continue
		}
		if rowExists(work, teacher, key) {
			s.keys.Consume(key)
			continue
		}
		e.checkSectionConsistency(s, work, teacher, topic.Seccion)
		s.keys.Consume(key)

		row := roster.NewRow()
		row.SetString(roster.FieldDocente, teacher)
		row.SetString(roster.FieldCurso, topic.Curso)
		row.SetString(roster.FieldSeccion, "PEAD-"+topic.Seccion)
		row.SetString(roster.FieldSesion, strconv.Itoa(key.Sesion))
		row.SetString(roster.FieldHorasProgramadas, metrics.DefaultScheduled)
		applyEntry(row, entry, topic.Curso)
		if effective, ok := metrics.EffectiveTime(row); ok {
			row.SetString(roster.FieldTiempoEfectivo, effective)
		}
		work.Rows = append(work.Rows, row)
		created++
	}
	return created
}

// checkSectionConsistency warns when a created entry's section disagrees
// with the sections already present for the teacher, or only matches them
// through the ambiguous substring fallback.
func (e *Engine) checkSectionConsistency(s *runState, work *roster.Table, teacher, seccion string) {
	sawSection := false
	for _, row := range work.Rows {
		if row.Text(roster.FieldDocente) != teacher || row.Empty(roster.FieldSeccion) {
			continue
		}
		sawSection = true
		matched, ambiguous := normalize.MatchSection(row.Text(roster.FieldSeccion), seccion)
		if matched {
			if ambiguous {
				s.warn(fmt.Sprintf(
					"Sección ambigua para %s: %q coincide parcialmente con %q",
					teacher, seccion, row.Text(roster.FieldSeccion)))
			}
			return
		}
	}
	if sawSection {
		s.warn(fmt.Sprintf(
			"Sección %q de la sesión registrada no coincide con las secciones existentes de %s",
			seccion, teacher))
	}
}

// rowExists re-checks for a roster row already holding the key; creation is
// suppressed even when the key was never consumed during this run.
func rowExists(work *roster.Table, teacher string, key sessionlog.Key) bool {
	for _, row := range work.Rows {
		if row.Text(roster.FieldDocente) != teacher {
			continue
		}
		if row.Empty(roster.FieldCurso) || row.Empty(roster.FieldSeccion) || row.Sesion() == 0 {
			continue
		}
		if sessionlog.NewKey(row.Text(roster.FieldCurso), row.Text(roster.FieldSeccion), row.Sesion()) == key {
			return true
		}
	}
	return false
}

// applyEntry fills a row's session fields from a log entry: times only
// where empty, course and shift unconditionally, delivery model only when
// blank.
func applyEntry(row *roster.Row, entry sessionlog.Entry, curso string) {
	fillTimes(row, entry)
	row.SetString(roster.FieldCurso, curso)
	_, clock := timeparse.SplitTimestamp(entry.Start)
	if shift, ok := timeparse.DetectShift(clock); ok {
		row.SetString(roster.FieldTurno, shift)
	}
	row.SetIfEmpty(roster.FieldModelo, ModeloVirtual)
}

// fillTimes copies date, start, and end from the entry into empty cells.
func fillTimes(row *roster.Row, entry sessionlog.Entry) {
	date, startClock := timeparse.SplitTimestamp(entry.Start)
	_, endClock := timeparse.SplitTimestamp(entry.End)

	if date != "" {
		row.SetIfEmpty(roster.FieldFecha, date)
	}
	if startClock != "" {
		row.SetIfEmpty(roster.FieldHoraInicio, startClock)
	}
	if endClock != "" {
		row.SetIfEmpty(roster.FieldHoraFin, endClock)
	}
	if row.Empty(roster.FieldTurno) {
		if shift, ok := timeparse.DetectShift(startClock); ok {
			row.SetString(roster.FieldTurno, shift)
		}
	}
}
