// Package timeparse converts the heterogeneous date, time, and duration
// strings found in spreadsheet and videoconference exports into canonical
// textual forms and numeric minute offsets. Parsing failures are never
// fatal: every function reports the failure through its ok result (or a
// zero value) and leaves the decision to the caller.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Shift buckets derived from a session start hour.
const (
	ShiftMorning   = "MAÑANA"
	ShiftAfternoon = "TARDE"
	ShiftNight     = "NOCHE"
)

// monthNames resolves English and Spanish month names, full and common
// abbreviated forms, to a month number.
var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5,
	"junio": 6, "julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9,
	"octubre": 10, "noviembre": 11, "diciembre": 12,
}

var (
	monthNameDateRe = regexp.MustCompile(`^([A-Za-zÁÉÍÓÚáéíóú]+)\s+(\d{1,2}),?\s+(\d{4})`)
	isoDateRe       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	slashDateRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})`)

	time12SecRe  = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2}):(\d{2})\s*(AM|PM)$`)
	time12Re     = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	timeDotSecRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2}):(\d{2})\s*([ap])\.?\s?m\.?$`)
	timeDotRe    = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*([ap])\.?\s?m\.?$`)
	time24SecRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
	time24Re     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

	clockInTextRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}(?::\d{2})?(?:\s*(?:[ap]\.?\s?m\.?|AM|PM))?)\s*$`)

	dottedMeridiemRe = regexp.MustCompile(`(?i)([ap])\.?\s?m\.?`)
)

// genericLayouts are the last-resort layouts tried by ParseDate.
var genericLayouts = []string{
	"2006/01/02",
	"02-01-2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses a date in any of the supported representations and
// returns it as DD/MM/YYYY. Supported forms, tried in order: an English or
// Spanish month-name date ("October 3, 2025", "3 de octubre" is not
// accepted — the exports always lead with the month), ISO YYYY-M-D, a
// slash-delimited triple with day/month disambiguated by whichever operand
// exceeds 12 (day-first when both fit), and a handful of generic layouts.
func ParseDate(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}

	if m := monthNameDateRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if validDate(day, month) {
				return formatDate(day, month, year), true
			}
		}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validDate(day, month) {
			return formatDate(day, month, year), true
		}
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year := expandYear(m[3])
		day, month := a, b
		if a <= 12 && b > 12 {
			day, month = b, a
		}
		if validDate(day, month) {
			return formatDate(day, month, year), true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatDate(t.Day(), int(t.Month()), t.Year()), true
		}
	}

	return "", false
}

// ParseTime parses a clock time and returns it zero-padded, either as
// "HH:MM:SS AM/PM" for 12-hour inputs or "HH:MM:SS" for 24-hour inputs.
// Localized dotted meridiem markers (a.m., p. m.) are accepted. Missing
// seconds default to 00.
func ParseTime(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}

	if m := time12SecRe.FindStringSubmatch(s); m != nil {
		return format12(m[1], m[2], m[3], m[4]), true
	}
	if m := time12Re.FindStringSubmatch(s); m != nil {
		return format12(m[1], m[2], "00", m[3]), true
	}
	if m := timeDotSecRe.FindStringSubmatch(s); m != nil {
		return format12(m[1], m[2], m[3], m[4]+"M"), true
	}
	if m := timeDotRe.FindStringSubmatch(s); m != nil {
		return format12(m[1], m[2], "00", m[3]+"M"), true
	}
	if m := time24SecRe.FindStringSubmatch(s); m != nil {
		return format24(m[1], m[2], m[3]), true
	}
	if m := time24Re.FindStringSubmatch(s); m != nil {
		return format24(m[1], m[2], "00"), true
	}

	return "", false
}

// ToMinutes converts a clock time to minutes past midnight as a real
// number (seconds contribute fractionally). 12-hour inputs are converted
// to 24-hour first. Unparseable input yields 0.
func ToMinutes(text string) float64 {
	s := dottedMeridiemRe.ReplaceAllStringFunc(strings.TrimSpace(text), func(m string) string {
		if strings.HasPrefix(strings.ToLower(m), "p") {
			return "PM"
		}
		return "AM"
	})

	hour, minute, sec, ok := parseClock(s)
	if !ok {
		return 0
	}
	return float64(hour)*60 + float64(minute) + float64(sec)/60
}

// DetectShift buckets a session start time into the shift it belongs to:
// morning [6,12), afternoon [12,18), night otherwise.
func DetectShift(text string) (string, bool) {
	s := dottedMeridiemRe.ReplaceAllStringFunc(strings.TrimSpace(text), func(m string) string {
		if strings.HasPrefix(strings.ToLower(m), "p") {
			return "PM"
		}
		return "AM"
	})
	hour, _, _, ok := parseClock(s)
	if !ok {
		return "", false
	}
	switch {
	case hour >= 6 && hour < 12:
		return ShiftMorning, true
	case hour >= 12 && hour < 18:
		return ShiftAfternoon, true
	default:
		return ShiftNight, true
	}
}

// ParseDuration normalizes a log duration field. A bare minute count
// becomes HH:MM:00; anything else passes through trimmed.
func ParseDuration(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if minutes, err := strconv.Atoi(s); err == nil && minutes >= 0 {
		return FormatMinutes(float64(minutes))
	}
	return s
}

// FormatMinutes renders a minute count as zero-padded HH:MM:00.
func FormatMinutes(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	total := int(minutes)
	return fmt.Sprintf("%02d:%02d:00", total/60, total%60)
}

// SplitTimestamp splits a combined timestamp ("October 3, 2025 7:00:00
// a.m.") into its canonical date and time parts. Either part may be absent.
func SplitTimestamp(text string) (date string, clock string) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ""
	}
	if m := clockInTextRe.FindStringSubmatch(s); m != nil {
		if c, ok := ParseTime(m[1]); ok {
			clock = c
			s = strings.TrimSpace(strings.TrimSuffix(s, m[0]))
		}
	}
	if d, ok := ParseDate(s); ok {
		date = d
	}
	return date, clock
}

func parseClock(s string) (hour, minute, sec int, ok bool) {
	if m := time12SecRe.FindStringSubmatch(s); m != nil {
		return to24(m[1], m[2], m[3], m[4])
	}
	if m := time12Re.FindStringSubmatch(s); m != nil {
		return to24(m[1], m[2], "00", m[3])
	}
	if m := time24SecRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		sec, _ = strconv.Atoi(m[3])
		return hour, minute, sec, hour < 24 && minute < 60
	}
	if m := time24Re.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, 0, hour < 24 && minute < 60
	}
	return 0, 0, 0, false
}

func to24(h, m, s, meridiem string) (hour, minute, sec int, ok bool) {
	hour, _ = strconv.Atoi(h)
	minute, _ = strconv.Atoi(m)
	sec, _ = strconv.Atoi(s)
	if hour > 12 || minute >= 60 {
		return 0, 0, 0, false
	}
	if strings.EqualFold(meridiem, "PM") {
		if hour != 12 {
			hour += 12
		}
	} else if hour == 12 {
		hour = 0
	}
	return hour, minute, sec, true
}

func format12(h, m, s, meridiem string) string {
	hour, _ := strconv.Atoi(h)
	return fmt.Sprintf("%02d:%s:%s %s", hour, m, s, strings.ToUpper(meridiem))
}

func format24(h, m, s string) string {
	hour, _ := strconv.Atoi(h)
	return fmt.Sprintf("%02d:%s:%s", hour, m, s)
}

func validDate(day, month int) bool {
	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}

func expandYear(y string) int {
	if len(y) == 2 {
		y = "20" + y
	}
	year, _ := strconv.Atoi(y)
	return year
}

func formatDate(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}
