// Package week maps calendar dates to the Monday-anchored week identities
// that partition all planning data, and resolves arbitrary targets (id, date,
// date pair, URL slug) against a persisted week catalog.
package week

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"weekplan/internal/domain"
)

var ErrInvalidDate = errors.New("invalid date")

// DefaultLabelTemplate renders week labels. The {start}/{end} placeholders
// receive DD/MM/YYYY dates; the surrounding wording is configurable, the date
// component format is not.
const DefaultLabelTemplate = "Week of {start} to {end}"

const labelDateLayout = "02/01/2006"

// MondayOf returns the Monday on or before t at 00:00:00.000 local time.
// Weeks start Monday; a Sunday belongs to the week that began six days
// earlier.
func MondayOf(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	m := t.AddDate(0, 0, -back)
	return time.Date(m.Year(), m.Month(), m.Day(), 0, 0, 0, 0, t.Location())
}

// IDOf derives the canonical week id week-{year}-{month}-{day} from the
// Monday that starts the week containing date. Month and day are 1-indexed
// and unpadded, e.g. week-2025-3-17.
func IDOf(date time.Time) (string, error) {
	if date.IsZero() {
		return "", ErrInvalidDate
	}
	m := MondayOf(date)
	return fmt.Sprintf("week-%d-%d-%d", m.Year(), int(m.Month()), m.Day()), nil
}

// ParseID extracts the Monday date embedded in a canonical week id. The id
// need not exist in any catalog; this is pure string math.
func ParseID(id string) (time.Time, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(id, "week-%d-%d-%d", &y, &m, &d); err != nil {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// RangeOf returns the Monday 00:00:00.000 .. Sunday 23:59:59.999 span
// containing date, in date's location.
func RangeOf(date time.Time) (start, end time.Time, err error) {
	if date.IsZero() {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	start = MondayOf(date)
	sunday := start.AddDate(0, 0, 6)
	end = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 999_000_000, date.Location())
	return start, end, nil
}

// Label renders a WeekRange through a {start}/{end} template. An empty
// template falls back to DefaultLabelTemplate.
func Label(r domain.WeekRange, template string) string {
	if template == "" {
		template = DefaultLabelTemplate
	}
	out := strings.ReplaceAll(template, "{start}", r.StartDate.Format(labelDateLayout))
	return strings.ReplaceAll(out, "{end}", r.EndDate.Format(labelDateLayout))
}

// Make builds a complete catalog entry for the week containing date. Used
// both by year generation and as the synthetic fallback when resolution
// misses an empty catalog.
func Make(date time.Time, template string) (domain.WeekRange, error) {
	id, err := IDOf(date)
	if err != nil {
		return domain.WeekRange{}, err
	}
	start, end, err := RangeOf(date)
	if err != nil {
		return domain.WeekRange{}, err
	}
	r := domain.WeekRange{ID: id, StartDate: start, EndDate: end}
	r.Label = Label(r, template)
	return r, nil
}

// EnumerateYear generates every week whose Monday falls within year, in
// ascending order, tagging the one containing today. Yields 52 or 53 entries
// depending on the year's Monday alignment. A week that fails the range
// validity check is skipped rather than aborting the whole generation.
func EnumerateYear(year int, today time.Time, template string) []domain.WeekRange {
	loc := today.Location()
	if loc == nil {
		loc = time.Local
	}
	monday := MondayOf(time.Date(year, time.January, 1, 12, 0, 0, 0, loc))
	if monday.Year() < year {
		monday = monday.AddDate(0, 0, 7)
	}
	var out []domain.WeekRange
	for monday.Year() == year {
		r, err := Make(monday, template)
		if err != nil || !ValidRange(r) {
			monday = monday.AddDate(0, 0, 7)
			continue
		}
		r.IsCurrentWeek = SameWeek(monday, today)
		out = append(out, r)
		monday = monday.AddDate(0, 0, 7)
	}
	return out
}

// SameDay reports calendar-day equality. Total over all inputs: invalid
// dates compare false, never panic.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameWeek reports whether a and b share a Monday anchor.
func SameWeek(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return SameDay(MondayOf(a), MondayOf(b))
}

// WithinRange reports whether date falls inside [start, end] inclusive.
func WithinRange(date time.Time, r domain.WeekRange) bool {
	if date.IsZero() || r.StartDate.IsZero() || r.EndDate.IsZero() {
		return false
	}
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}

// ValidRange rejects corrupted catalog entries before they reach display:
// both dates valid, end strictly after start, span six to seven days. The
// upper bound tolerates one extra hour: the clocks-back week spans an hour
// over seven absolute days (Monday 00:00 to Sunday 23:59:59.999 across the
// transition).
func ValidRange(r domain.WeekRange) bool {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return false
	}
	if !r.EndDate.After(r.StartDate) {
		return false
	}
	span := r.EndDate.Sub(r.StartDate)
	return span >= 6*24*time.Hour && span <= 7*24*time.Hour+time.Hour
}
