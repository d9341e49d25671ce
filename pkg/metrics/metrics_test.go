package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aulatools/conciliador/pkg/metrics"
	"github.com/aulatools/conciliador/pkg/roster"
)

func rowWith(fields map[roster.Field]string) *roster.Row {
	r := roster.NewRow()
	for f, v := range fields {
		r.SetString(f, v)
	}
	return r
}

func TestEffectiveTimeWaitTolerance(t *testing.T) {
	// Wait below the 10-minute tolerance is fully absorbed.
	r := rowWith(map[roster.Field]string{
		roster.FieldHoraFin: "01:00:00",
		roster.FieldEspera:  "00:05:00",
	})
	got, ok := metrics.EffectiveTime(r)
	assert.True(t, ok)
	assert.Equal(t, "01:00:00", got)

	// Only the excess beyond the tolerance is subtracted.
	r = rowWith(map[roster.Field]string{
		roster.FieldHoraFin: "01:00:00",
		roster.FieldEspera:  "00:20:00",
	})
	got, ok = metrics.EffectiveTime(r)
	assert.True(t, ok)
	assert.Equal(t, "00:50:00", got)
}

func TestEffectiveTimeRequiresEnd(t *testing.T) {
	r := rowWith(map[roster.Field]string{roster.FieldEspera: "00:20:00"})
	_, ok := metrics.EffectiveTime(r)
	assert.False(t, ok)
}

func TestEffectiveTimeNoWait(t *testing.T) {
	r := rowWith(map[roster.Field]string{roster.FieldHoraFin: "02:30:00"})
	got, ok := metrics.EffectiveTime(r)
	assert.True(t, ok)
	assert.Equal(t, "02:30:00", got)
}

func TestEfficiency(t *testing.T) {
	r := rowWith(map[roster.Field]string{
		roster.FieldTiempoEfectivo:   "02:42:00",
		roster.FieldHorasProgramadas: "03:00:00",
	})
	got, ok := metrics.Efficiency(r)
	assert.True(t, ok)
	assert.Equal(t, "90%", got)
}

func TestEfficiencyDefaultScheduled(t *testing.T) {
	// Blank scheduled hours default to 03:00:00.
	r := rowWith(map[roster.Field]string{roster.FieldTiempoEfectivo: "03:00:00"})
	got, ok := metrics.Efficiency(r)
	assert.True(t, ok)
	assert.Equal(t, "100%", got)
}

func TestEfficiencyZeroScheduled(t *testing.T) {
	r := rowWith(map[roster.Field]string{
		roster.FieldTiempoEfectivo:   "02:00:00",
		roster.FieldHorasProgramadas: "00:00:00",
	})
	_, ok := metrics.Efficiency(r)
	assert.False(t, ok)
}

func TestEfficiencyComputesEffectiveWhenMissing(t *testing.T) {
	r := rowWith(map[roster.Field]string{
		roster.FieldHoraFin:          "01:30:00",
		roster.FieldHorasProgramadas: "03:00:00",
	})
	got, ok := metrics.Efficiency(r)
	assert.True(t, ok)
	assert.Equal(t, "50%", got)
}

func TestApplyConditional(t *testing.T) {
	// Effective time is filled only when blank; a hand-edited value stays.
	r := rowWith(map[roster.Field]string{
		roster.FieldHoraFin:        "03:00:00",
		roster.FieldTiempoEfectivo: "01:30:00",
	})
	metrics.ApplyConditional(r)
	assert.Equal(t, "01:30:00", r.Text(roster.FieldTiempoEfectivo))
	// Efficiency follows the hand-edited effective time, not the end field.
	assert.Equal(t, "50%", r.Text(roster.FieldEficiencia))

	// Blank effective time gets computed, and efficiency with it.
	r = rowWith(map[roster.Field]string{roster.FieldHoraFin: "03:00:00"})
	metrics.ApplyConditional(r)
	assert.Equal(t, "03:00:00", r.Text(roster.FieldTiempoEfectivo))
	assert.Equal(t, "100%", r.Text(roster.FieldEficiencia))

	// No end-of-class: nothing is derived.
	r = roster.NewRow()
	metrics.ApplyConditional(r)
	assert.True(t, r.Empty(roster.FieldTiempoEfectivo))
	assert.True(t, r.Empty(roster.FieldEficiencia))
}
