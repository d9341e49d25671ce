// Package roster models the teaching-schedule table: rows keyed by a known
// set of semantic columns plus arbitrary user-defined extra columns that
// are preserved verbatim across every transformation.
package roster

import (
	"regexp"
	"strconv"
	"strings"
)

// Field identifies one of the semantically known roster columns.
type Field int

// Known roster fields.
const (
	FieldDocente Field = iota
	FieldCurso
	FieldSeccion
	FieldSesion
	FieldTurno
	FieldModelo
	FieldModalidad
	FieldCiclo
	FieldPeriodo
	FieldAula
	FieldDias
	FieldHoraProgInicio
	FieldHoraProgFin
	FieldFecha
	FieldHoraInicio
	FieldHoraFin
	FieldEspera
	FieldHorasProgramadas
	FieldTiempoEfectivo
	FieldEficiencia
	numFields
)

// Canonical header names for the derived columns the engine maintains.
const (
	HeaderTiempoEfectivo = "TIEMPO EFECTIVO DICTADO"
	HeaderEficiencia     = "EFICIENCIA"
)

// fieldHeaders maps each field to its accepted header spellings; the first
// entry is the canonical header used when a new column must be created.
var fieldHeaders = map[Field][]string{
	FieldDocente:          {"DOCENTE"},
	FieldCurso:            {"CURSO"},
	FieldSeccion:          {"SECCION", "SECCIÓN"},
	FieldSesion:           {"SESION", "SESIÓN", "N SESION"},
	FieldTurno:            {"TURNO"},
	FieldModelo:           {"MODELO"},
	FieldModalidad:        {"MODALIDAD"},
	FieldCiclo:            {"CICLO"},
	FieldPeriodo:          {"PERIODO"},
	FieldAula:             {"AULA"},
	FieldDias:             {"DIAS", "DÍAS"},
	FieldHoraProgInicio:   {"HORA PROG INICIO", "HORA PROGRAMADA INICIO"},
	FieldHoraProgFin:      {"HORA PROG FIN", "HORA PROGRAMADA FIN"},
	FieldFecha:            {"FECHA", "FECHA SESION", "FECHA DE SESION"},
	FieldHoraInicio:       {"HORA INICIO", "HORA DE INICIO", "INICIO"},
	FieldHoraFin:          {"HORA FIN", "HORA DE FIN", "FIN", "FIN DE CLASE"},
	FieldEspera:           {"TIEMPO DE ESPERA", "ESPERA", "ESPERA INICIO"},
	FieldHorasProgramadas: {"HORAS PROGRAMADAS", "HORAS PROG"},
	FieldTiempoEfectivo:   {HeaderTiempoEfectivo},
	FieldEficiencia:       {HeaderEficiencia},
}

var headerSpaceRe = regexp.MustCompile(`\s+`)

// headerIndex resolves a normalized header spelling to its field.
var headerIndex = func() map[string]Field {
	idx := make(map[string]Field)
	for f, names := range fieldHeaders {
		for _, n := range names {
			idx[canonHeader(n)] = f
		}
	}
	return idx
}()

func canonHeader(h string) string {
	return headerSpaceRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(h)), " ")
}

// Header returns the canonical header name for a field.
func (f Field) Header() string {
	return fieldHeaders[f][0]
}

// ResolveHeader maps a column header to its known field, if any.
func ResolveHeader(header string) (Field, bool) {
	f, ok := headerIndex[canonHeader(header)]
	return f, ok
}

// Row is one roster record: the known fields as a fixed-size slice indexed
// by Field, plus a side map of extension columns carried through untouched.
// A nil value is an empty cell.
type Row struct {
	fields [numFields]*string
	extra  map[string]*string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{}
}

// FromRecord builds a row from an ordered header list and matching values.
// Headers that resolve to a known field populate it; the rest land in the
// extension map under their original spelling.
func FromRecord(headers []string, values []*string) *Row {
	r := NewRow()
	for i, h := range headers {
		var v *string
		if i < len(values) {
			v = values[i]
		}
		r.SetHeader(h, v)
	}
	return r
}

// Get returns the value of a known field; nil means empty.
func (r *Row) Get(f Field) *string {
	return r.fields[f]
}

// Set assigns a known field.
func (r *Row) Set(f Field, v *string) {
	r.fields[f] = v
}

// SetString assigns a known field from a plain string.
func (r *Row) SetString(f Field, v string) {
	r.fields[f] = &v
}

// Text returns the trimmed field value, or "" when empty.
func (r *Row) Text(f Field) string {
	if r.fields[f] == nil {
		return ""
	}
	return strings.TrimSpace(*r.fields[f])
}

// Empty reports whether a field holds no usable value.
func (r *Row) Empty(f Field) bool {
	return r.Text(f) == ""
}

// SetIfEmpty assigns a field only when it currently has no value.
func (r *Row) SetIfEmpty(f Field, v string) {
	if r.Empty(f) {
		r.SetString(f, v)
	}
}

// Sesion returns the row's session number, or 0 when it is missing or not
// an integer.
func (r *Row) Sesion() int {
	n, err := strconv.Atoi(r.Text(FieldSesion))
	if err != nil {
		return 0
	}
	return n
}

// SetHeader assigns a value by column header, routing to the known field or
// the extension map.
func (r *Row) SetHeader(header string, v *string) {
	if f, ok := ResolveHeader(header); ok {
		r.fields[f] = v
		return
	}
	if r.extra == nil {
		r.extra = make(map[string]*string)
	}
	r.extra[header] = v
}

// GetHeader reads a value by column header.
func (r *Row) GetHeader(header string) *string {
	if f, ok := ResolveHeader(header); ok {
		return r.fields[f]
	}
	return r.extra[header]
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	c := NewRow()
	for f := Field(0); f < numFields; f++ {
		if r.fields[f] != nil {
			v := *r.fields[f]
			c.fields[f] = &v
		}
	}
	if len(r.extra) > 0 {
		c.extra = make(map[string]*string, len(r.extra))
		for k, v := range r.extra {
			if v != nil {
				s := *v
				c.extra[k] = &s
			} else {
				c.extra[k] = nil
			}
		}
	}
	return c
}

// Record renders the row as an ordered value slice matching the given
// headers.
func (r *Row) Record(headers []string) []*string {
	out := make([]*string, len(headers))
	for i, h := range headers {
		out[i] = r.GetHeader(h)
	}
	return out
}

// Table is an ordered roster with its column header list. Headers are
// unique; processing may append new headers but never reorders or removes
// existing ones.
type Table struct {
	Headers []string
	Rows    []*Row
}

// NewTable returns a table with the given headers and no rows.
func NewTable(headers []string) *Table {
	t := &Table{}
	t.EnsureHeaders(headers...)
	return t
}

// Clone deep-copies the table. The reconciliation engine works on a clone
// so a failed run never leaves the caller's table half-updated.
func (t *Table) Clone() *Table {
	c := &Table{Headers: append([]string(nil), t.Headers...)}
	c.Rows = make([]*Row, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = r.Clone()
	}
	return c
}

// EnsureHeaders appends any header not already present, comparing by
// canonical spelling. Existing headers keep their position and spelling.
func (t *Table) EnsureHeaders(headers ...string) {
	seen := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		seen[canonHeader(h)] = true
	}
	for _, h := range headers {
		if !seen[canonHeader(h)] {
			t.Headers = append(t.Headers, h)
			seen[canonHeader(h)] = true
		}
	}
}

// Teachers returns the distinct teacher names in first-appearance order.
func (t *Table) Teachers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		name := r.Text(FieldDocente)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
