// Package sessionlog models the videoconference usage export: one Entry per
// recorded meeting, with aliased field access for the Spanish and English
// column spellings the exports use. Entries are input data and are never
// mutated by the reconciliation engine.
package sessionlog

import (
	"strings"

	"github.com/aulatools/conciliador/pkg/normalize"
)

// fieldAliases lists the accepted header spellings per logical field, in
// priority order (first present wins).
var fieldAliases = map[string][]string{
	"host":     {"Anfitrión", "Anfitrion", "Host"},
	"topic":    {"Tema", "Topic"},
	"start":    {"Hora de inicio", "Start Time"},
	"end":      {"Hora de finalización", "Hora de finalizacion", "End Time"},
	"duration": {"Duración", "Duracion", "Duration", "Duration (Minutes)"},
}

// Entry is one videoconference session record.
type Entry struct {
	Host     string
	Topic    string
	Start    string
	End      string
	Duration string
}

// FromRecord builds an Entry from an ordered header list and matching
// values, resolving the aliased column spellings.
func FromRecord(headers []string, values []string) Entry {
	byHeader := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			byHeader[canonAlias(h)] = strings.TrimSpace(values[i])
		}
	}
	pick := func(field string) string {
		for _, alias := range fieldAliases[field] {
			if v, ok := byHeader[canonAlias(alias)]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	return Entry{
		Host:     pick("host"),
		Topic:    pick("topic"),
		Start:    pick("start"),
		End:      pick("end"),
		Duration: pick("duration"),
	}
}

func canonAlias(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// identity is the dedup key for accumulated uploads.
func (e Entry) identity() string {
	return e.Host + "\x1f" + e.Topic + "\x1f" + e.Start
}

// Set accumulates session-log entries across uploads, preserving order and
// dropping exact duplicates (same host, topic, and start).
type Set struct {
	entries []Entry
	seen    map[string]bool
}

// NewSet returns an empty entry set.
func NewSet() *Set {
	return &Set{seen: make(map[string]bool)}
}

// Add appends entries not already present and returns how many were new.
func (s *Set) Add(entries ...Entry) int {
	added := 0
	for _, e := range entries {
		id := e.identity()
		if s.seen[id] {
			continue
		}
		s.seen[id] = true
		s.entries = append(s.entries, e)
		added++
	}
	return added
}

// Entries returns the accumulated entries in upload order.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Len returns the number of accumulated entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Key identifies a unique teaching session: normalized course, normalized
// section, session number. Once a log entry's key has been consumed by a
// roster row it must never be applied to a second row.
type Key struct {
	Curso   string
	Seccion string
	Sesion  int
}

// NewKey builds a key from raw course, section, and session values.
func NewKey(curso, seccion string, sesion int) Key {
	return Key{
		Curso:   normalize.CourseName(curso),
		Seccion: normalize.Section(seccion),
		Sesion:  sesion,
	}
}

// KeySet tracks consumed reconciliation keys. It is passed explicitly
// between reconciliation passes rather than captured as shared state.
type KeySet map[Key]struct{}

// NewKeySet returns an empty key set.
func NewKeySet() KeySet {
	return make(KeySet)
}

// Has reports whether a key has been consumed.
func (ks KeySet) Has(k Key) bool {
	_, ok := ks[k]
	return ok
}

// Consume marks a key as used.
func (ks KeySet) Consume(k Key) {
	ks[k] = struct{}{}
}

// StartSet tracks log start-time strings consumed by the time-proximity
// fallback. It is kept separate from the key set: the fallback fires for
// entries whose topic never parsed, so no key exists for them.
type StartSet map[string]struct{}

// NewStartSet returns an empty start-time set.
func NewStartSet() StartSet {
	return make(StartSet)
}

// Has reports whether a start-time value has been consumed.
func (ss StartSet) Has(start string) bool {
	_, ok := ss[start]
	return ok
}

// Consume marks a start-time value as used.
func (ss StartSet) Consume(start string) {
	ss[start] = struct{}{}
}
