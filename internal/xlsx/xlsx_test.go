package xlsx_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulatools/conciliador/internal/utils/ptr"
	"github.com/aulatools/conciliador/internal/xlsx"
	"github.com/aulatools/conciliador/pkg/roster"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	table := roster.NewTable([]string{"DOCENTE", "CURSO", "SECCION", "SESION", "COORDINADOR"})

	row := roster.NewRow()
	row.SetString(roster.FieldDocente, "Juan Perez")
	row.SetString(roster.FieldCurso, "Redes")
	row.SetString(roster.FieldSeccion, "PEAD-A")
	row.SetString(roster.FieldSesion, "3")
	row.SetHeader("COORDINADOR", ptr.String("C. Ruiz"))
	table.Rows = append(table.Rows, row)

	sparse := roster.NewRow()
	sparse.SetString(roster.FieldDocente, "Maria Lopez")
	table.Rows = append(table.Rows, sparse)

	require.NoError(t, xlsx.Write(path, table))

	loaded, err := xlsx.Load(path)
	require.NoError(t, err)

	assert.Equal(t, table.Headers, loaded.Headers)
	require.Len(t, loaded.Rows, 2)

	got := loaded.Rows[0]
	assert.Equal(t, "Juan Perez", got.Text(roster.FieldDocente))
	assert.Equal(t, "Redes", got.Text(roster.FieldCurso))
	assert.Equal(t, "PEAD-A", got.Text(roster.FieldSeccion))
	assert.Equal(t, "3", got.Text(roster.FieldSesion))
	require.NotNil(t, got.GetHeader("COORDINADOR"), "unknown columns survive the round trip")
	assert.Equal(t, "C. Ruiz", *got.GetHeader("COORDINADOR"))

	// Empty cells come back as nil, not "".
	assert.Nil(t, loaded.Rows[1].Get(roster.FieldCurso))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := xlsx.Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
