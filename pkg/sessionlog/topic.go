package sessionlog

import (
	"regexp"
	"strconv"
	"strings"
)

// topicRe is the one genuinely fragile heuristic in the system: meeting
// topics are free text that by convention carry "<course> - PEAD-<section>
// SESION <n>". Separator may be a dash (plain or en dash), slash, or colon;
// the session suffix is optional.
var topicRe = regexp.MustCompile(`(?i)^\s*(.+?)\s*[–\-/:]+\s*PEAD[-_ ]?([A-Za-z0-9]+)(?:\s+SESS?I[ÓO]N\s*(\d+))?\s*$`)

// Topic is the course/section/session triple embedded in a meeting topic.
type Topic struct {
	Curso   string
	Seccion string

	// Sesion is the session number; valid only when HasSesion is true.
	Sesion    int
	HasSesion bool
}

// ParseTopic extracts the embedded triple from a meeting topic. Returns
// ok=false when the text does not follow the convention.
func ParseTopic(text string) (Topic, bool) {
	m := topicRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Topic{}, false
	}
	t := Topic{
		Curso:   strings.TrimSpace(m[1]),
		Seccion: strings.ToUpper(m[2]),
	}
	if m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err == nil {
			t.Sesion = n
			t.HasSesion = true
		}
	}
	return t, true
}

// Key returns the reconciliation key for the topic. Topics without an
// explicit session number default to session 1.
func (t Topic) Key() Key {
	sesion := t.Sesion
	if !t.HasSesion {
		sesion = 1
	}
	return NewKey(t.Curso, t.Seccion, sesion)
}
