package grid_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulatools/conciliador/pkg/grid"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

func newRow(docente, curso, seccion, sesion string) *roster.Row {
	r := roster.NewRow()
	r.SetString(roster.FieldDocente, docente)
	r.SetString(roster.FieldCurso, curso)
	r.SetString(roster.FieldSeccion, seccion)
	if sesion != "" {
		r.SetString(roster.FieldSesion, sesion)
	}
	return r
}

func newTable(rows ...*roster.Row) *roster.Table {
	t := roster.NewTable([]string{"DOCENTE", "CURSO", "SECCION", "SESION", "FECHA"})
	t.Rows = append(t.Rows, rows...)
	return t
}

func sessions(t *roster.Table) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Text(roster.FieldSesion)
	}
	return out
}

func TestNormalizeFillsEverySlot(t *testing.T) {
	table := newTable(
		newRow("Juan Perez", "Redes", "PEAD-A", "3"),
		newRow("Juan Perez", "Redes", "PEAD-A", "7"),
	)

	out := grid.Normalize(context.Background(), table, nil)

	require.Len(t, out.Rows, grid.SessionsPerGroup)
	want := make([]string, grid.SessionsPerGroup)
	for i := range want {
		want[i] = strconv.Itoa(i + 1)
	}
	assert.Equal(t, want, sessions(out))

	// Existing rows land in their own slots.
	assert.Same(t, table.Rows[0], out.Rows[2])
	assert.Same(t, table.Rows[1], out.Rows[6])
}

func TestNormalizePlaceholderInheritsMetadata(t *testing.T) {
	first := newRow("Juan Perez", "Redes", "PEAD-A", "1")
	first.SetString(roster.FieldModalidad, "DISTANCIA")
	first.SetString(roster.FieldCiclo, "V")
	first.SetString(roster.FieldTurno, "MAÑANA")
	first.SetString(roster.FieldFecha, "03/10/2025")
	first.SetString(roster.FieldHoraInicio, "07:00:00 AM")

	out := grid.Normalize(context.Background(), newTable(first), nil)

	placeholder := out.Rows[1]
	assert.Equal(t, "Juan Perez", placeholder.Text(roster.FieldDocente))
	assert.Equal(t, "DISTANCIA", placeholder.Text(roster.FieldModalidad))
	assert.Equal(t, "V", placeholder.Text(roster.FieldCiclo))
	assert.Equal(t, "MAÑANA", placeholder.Text(roster.FieldTurno))
	assert.Equal(t, "03:00:00", placeholder.Text(roster.FieldHorasProgramadas))

	// Per-session values never leak into placeholders.
	assert.True(t, placeholder.Empty(roster.FieldFecha))
	assert.True(t, placeholder.Empty(roster.FieldHoraInicio))
}

func TestNormalizeGroupsByNormalizedTriple(t *testing.T) {
	// Accents, case, and the PEAD prefix must not split a group.
	table := newTable(
		newRow("Juan Perez", "Computación II", "PEAD-A", "1"),
		newRow("Juan Perez", "COMPUTACION II", "A", "2"),
	)

	out := grid.Normalize(context.Background(), table, nil)
	assert.Len(t, out.Rows, grid.SessionsPerGroup)
}

func TestNormalizeDropsDuplicateSessionNumbers(t *testing.T) {
	kept := newRow("Juan Perez", "Redes", "PEAD-A", "2")
	kept.SetString(roster.FieldFecha, "03/10/2025")
	dup := newRow("Juan Perez", "Redes", "PEAD-A", "2")
	dup.SetString(roster.FieldFecha, "10/10/2025")

	out := grid.Normalize(context.Background(), newTable(kept, dup), nil)

	require.Len(t, out.Rows, grid.SessionsPerGroup)
	assert.Same(t, kept, out.Rows[1])
	for _, r := range out.Rows {
		assert.NotSame(t, dup, r)
	}
}

func TestNormalizeForcesSessionOne(t *testing.T) {
	row := newRow("Juan Perez", "Redes", "PEAD-A", "")

	out := grid.Normalize(context.Background(), newTable(row), nil)

	require.Len(t, out.Rows, grid.SessionsPerGroup)
	assert.Same(t, row, out.Rows[0])
	assert.Equal(t, "1", row.Text(roster.FieldSesion))
}

func TestNormalizeOutOfRangeSessionTreatedAsMissing(t *testing.T) {
	row := newRow("Juan Perez", "Redes", "PEAD-A", "99")

	out := grid.Normalize(context.Background(), newTable(row), nil)

	// 99 is outside the grid; the only row still anchors session 1.
	require.Len(t, out.Rows, grid.SessionsPerGroup)
	assert.Same(t, row, out.Rows[0])
	assert.Equal(t, "1", row.Text(roster.FieldSesion))
}

func TestNormalizeAppendsUngroupableRows(t *testing.T) {
	loose := newRow("Juan Perez", "", "", "5")
	table := newTable(
		newRow("Juan Perez", "Redes", "PEAD-A", "1"),
		loose,
	)

	out := grid.Normalize(context.Background(), table, nil)

	require.Len(t, out.Rows, grid.SessionsPerGroup+1)
	last := out.Rows[len(out.Rows)-1]
	assert.Same(t, loose, last)
	assert.Equal(t, "5", last.Text(roster.FieldSesion))
}

func TestNormalizeLooksUpPlaceholderTimes(t *testing.T) {
	logs := sessionlog.NewSet()
	logs.Add(sessionlog.Entry{
		Host:  "Juan Perez",
		Topic: "Redes - PEAD-A Sesion 2",
		Start: "October 10, 2025 7:00:00 a.m.",
		End:   "October 10, 2025 10:00:00 a.m.",
	})

	out := grid.Normalize(context.Background(), newTable(newRow("Juan Perez", "Redes", "PEAD-A", "1")), logs)

	placeholder := out.Rows[1]
	assert.Equal(t, "10/10/2025", placeholder.Text(roster.FieldFecha))
	assert.Equal(t, "07:00:00 AM", placeholder.Text(roster.FieldHoraInicio))
	assert.Equal(t, "10:00:00 AM", placeholder.Text(roster.FieldHoraFin))
	assert.Equal(t, "MAÑANA", placeholder.Text(roster.FieldTurno))
	assert.NotEmpty(t, placeholder.Text(roster.FieldTiempoEfectivo))

	// Slots with no matching log entry stay blank.
	assert.True(t, out.Rows[2].Empty(roster.FieldFecha))
}

func TestNormalizeIdempotent(t *testing.T) {
	table := newTable(
		newRow("Juan Perez", "Redes", "PEAD-A", "3"),
		newRow("Maria Lopez", "Fisica", "PEAD-C", "1"),
	)

	first := grid.Normalize(context.Background(), table, nil)
	second := grid.Normalize(context.Background(), first, nil)

	require.Equal(t, len(first.Rows), len(second.Rows))
	assert.Equal(t, sessions(first), sessions(second))
	for i := range first.Rows {
		assert.Same(t, first.Rows[i], second.Rows[i])
	}
}
