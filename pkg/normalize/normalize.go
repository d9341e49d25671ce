// Package normalize canonicalizes the free-text identifiers that appear in
// roster and session-log data: teacher names, course names, and section
// codes. All comparisons between the two data sources go through these
// canonical forms, so the rules here define what "the same session" means.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumerals maps whole-word Roman numerals to their Arabic form.
// Ordered so longer numerals are replaced before their prefixes.
var romanNumerals = []struct {
	pattern *regexp.Regexp
	arabic  string
}{
	{regexp.MustCompile(`\bIII\b`), "3"},
	{regexp.MustCompile(`\bII\b`), "2"},
	{regexp.MustCompile(`\bIV\b`), "4"},
	{regexp.MustCompile(`\bV\b`), "5"},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^A-Z0-9 ]`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Z0-9]`)
	peadPrefixRe = regexp.MustCompile(`^PEAD[-_ ]`)

	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// TeacherName canonicalizes a teacher name: uppercased, whitespace
// collapsed, single-letter words (initials, stray particles) dropped, and
// the remaining words sorted alphabetically so word order does not matter.
func TeacherName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	words := keepWords(whitespaceRe.Split(s, -1))
	sort.Strings(words)
	return strings.Join(words, " ")
}

// CourseName canonicalizes a course name. Roman numerals are converted to
// digits first, since the conversion matches exact letter sequences that
// diacritic stripping would otherwise leave ambiguous. Then the name is
// uppercased, stripped of diacritics, and reduced to significant words.
func CourseName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	for _, rn := range romanNumerals {
		s = rn.pattern.ReplaceAllString(s, rn.arabic)
	}
	s = strings.ToUpper(s)
	s = removeDiacritics(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	words := keepWords(whitespaceRe.Split(strings.TrimSpace(s), -1))
	return strings.Join(words, " ")
}

// Section canonicalizes a section code: uppercased, a leading PEAD prefix
// removed, and everything non-alphanumeric stripped.
func Section(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return ""
	}
	s = peadPrefixRe.ReplaceAllString(s, "")
	return nonAlnumRe.ReplaceAllString(s, "")
}

// MatchTeacher reports whether two teacher names refer to the same person:
// either the canonical forms are equal, or the names share at least two
// distinct words. The word-overlap fallback tolerates partial names in the
// log export (host reported as "PEREZ JUAN" vs roster "JUAN CARLOS PEREZ").
// Counting distinct shared words keeps the check symmetric when a name
// repeats a word, as doubled surnames do.
func MatchTeacher(a, b string) bool {
	na, nb := TeacherName(a), TeacherName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(na) {
		wordsA[w] = struct{}{}
	}
	common := 0
	for _, w := range strings.Fields(nb) {
		if _, ok := wordsA[w]; ok {
			common++
			delete(wordsA, w)
		}
	}
	return common >= 2
}

// MatchSection reports whether two section codes refer to the same section.
// Exact canonical equality matches cleanly. As a fallback, one code
// containing the other also matches (handles "A" reported for section
// "AA"), but that case is ambiguous: the second return value is true so
// callers can surface a warning.
func MatchSection(a, b string) (matched, ambiguous bool) {
	na, nb := Section(a), Section(b)
	if na == "" || nb == "" {
		return false, false
	}
	if na == nb {
		return true, false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true, true
	}
	return false, false
}

func keepWords(words []string) []string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) > 1 {
			kept = append(kept, w)
		}
	}
	return kept
}

func removeDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}
