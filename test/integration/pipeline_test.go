package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aulatools/conciliador"
	"github.com/aulatools/conciliador/internal/csvlog"
	"github.com/aulatools/conciliador/internal/report"
	"github.com/aulatools/conciliador/internal/xlsx"
	"github.com/aulatools/conciliador/pkg/grid"
	"github.com/aulatools/conciliador/pkg/roster"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

const sessionExport = `Anfitrión;Tema;Hora de inicio;Hora de finalización;Duración
Juan Perez;Redes - PEAD-A Sesion 3;October 3, 2025 7:00:00 a.m.;October 3, 2025 10:00:00 a.m.;180
Juan Perez;Redes - PEAD-A Sesion 4;October 10, 2025 7:00:00 a.m.;October 10, 2025 9:30:00 a.m.;150
`

func writeRoster(t *testing.T, dir string) string {
	t.Helper()

	table := roster.NewTable([]string{"DOCENTE", "CURSO", "SECCION", "SESION", "FECHA", "HORA INICIO", "HORA FIN"})
	row := roster.NewRow()
	row.SetString(roster.FieldDocente, "Juan Perez")
	row.SetString(roster.FieldCurso, "Redes")
	row.SetString(roster.FieldSeccion, "PEAD-A")
	row.SetString(roster.FieldSesion, "3")
	table.Rows = append(table.Rows, row)

	path := filepath.Join(dir, "roster.xlsx")
	if err := xlsx.Write(path, table); err != nil {
		t.Fatalf("Failed to write roster: %v", err)
	}
	return path
}

func TestFullPipeline(t *testing.T) {
	dir := t.TempDir()

	rosterPath := writeRoster(t, dir)
	csvPath := filepath.Join(dir, "octubre.csv")
	if err := os.WriteFile(csvPath, []byte(sessionExport), 0o644); err != nil {
		t.Fatalf("Failed to write session export: %v", err)
	}

	table, err := xlsx.Load(rosterPath)
	if err != nil {
		t.Fatalf("Failed to load roster: %v", err)
	}

	entries, err := csvlog.Load(csvPath)
	if err != nil {
		t.Fatalf("Failed to load session log: %v", err)
	}
	logs := sessionlog.NewSet()
	if added := logs.Add(entries...); added != 2 {
		t.Fatalf("Expected 2 entries added, got %d", added)
	}
	// Re-uploading the same export must not add anything.
	if added := logs.Add(entries...); added != 0 {
		t.Errorf("Expected re-upload to add 0 entries, got %d", added)
	}

	result, err := conciliador.Process(context.Background(), table, logs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(result.Table.Rows) != grid.SessionsPerGroup {
		t.Fatalf("Expected %d rows, got %d", grid.SessionsPerGroup, len(result.Table.Rows))
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}

	matched := result.Table.Rows[2]
	if got := matched.Text(roster.FieldFecha); got != "03/10/2025" {
		t.Errorf("FECHA = %q, want 03/10/2025", got)
	}
	if got := matched.Text(roster.FieldTurno); got != "MAÑANA" {
		t.Errorf("TURNO = %q, want MAÑANA", got)
	}

	// Write the reconciled roster and a run report, then reload to verify
	// persistence.
	outPath := filepath.Join(dir, "roster_out.xlsx")
	if err := xlsx.Write(outPath, result.Table); err != nil {
		t.Fatalf("Failed to write output: %v", err)
	}
	reportPath := filepath.Join(dir, "reporte.yaml")
	if err := report.FromResult(result, rosterPath, []string{csvPath}).Write(reportPath); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	reloaded, err := xlsx.Load(outPath)
	if err != nil {
		t.Fatalf("Failed to reload output: %v", err)
	}
	if len(reloaded.Rows) != grid.SessionsPerGroup {
		t.Errorf("Reloaded rows = %d, want %d", len(reloaded.Rows), grid.SessionsPerGroup)
	}
}

func TestPipelineIsStable(t *testing.T) {
	dir := t.TempDir()

	rosterPath := writeRoster(t, dir)
	table, err := xlsx.Load(rosterPath)
	if err != nil {
		t.Fatalf("Failed to load roster: %v", err)
	}

	entries, err := csvlog.Parse(strings.NewReader(sessionExport))
	if err != nil {
		t.Fatalf("Failed to parse session log: %v", err)
	}
	logs := sessionlog.NewSet()
	logs.Add(entries...)

	first, err := conciliador.Process(context.Background(), table, logs)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := conciliador.Process(context.Background(), first.Table, logs)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if second.Created != 0 {
		t.Errorf("Second run created %d rows, want 0", second.Created)
	}
	if len(first.Table.Rows) != len(second.Table.Rows) {
		t.Errorf("Row count changed between runs: %d vs %d", len(first.Table.Rows), len(second.Table.Rows))
	}
}
