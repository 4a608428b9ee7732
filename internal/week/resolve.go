package week

import (
	"time"

	"weekplan/internal/domain"
)

// Target is what a caller knows about the week it wants: a canonical id, a
// single date, or a start/end pair (from a parsed slug). Zero fields are
// simply not considered.
type Target struct {
	ID    string
	Date  time.Time
	Start time.Time
	End   time.Time
}

// Resolve finds the single best catalog match for target using a strict
// priority order: exact id, exact date pair, containment, nearest start
// date. The first strategy that matches wins; later strategies are not
// consulted. Records failing the validity check are filtered out rather
// than failing the whole resolution. Returns nil when nothing is usable.
func Resolve(catalog []domain.WeekRange, target Target) *domain.WeekRange {
	candidates := make([]domain.WeekRange, 0, len(catalog))
	for _, r := range catalog {
		if ValidRange(r) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if target.ID != "" {
		for i := range candidates {
			if candidates[i].ID == target.ID {
				return &candidates[i]
			}
		}
	}

	if !target.Start.IsZero() && !target.End.IsZero() {
		for i := range candidates {
			if SameDay(target.Start, candidates[i].StartDate) && SameDay(target.End, candidates[i].EndDate) {
				return &candidates[i]
			}
		}
	}

	date := target.Date
	if date.IsZero() {
		date = target.Start
	}
	if !date.IsZero() {
		for i := range candidates {
			if WithinRange(date, candidates[i]) {
				return &candidates[i]
			}
		}
	}

	ref := target.Start
	if ref.IsZero() && !target.Date.IsZero() {
		ref = MondayOf(target.Date)
	}
	if ref.IsZero() {
		return nil
	}
	// Ties resolve to the first record in input order. This is a documented
	// property, not an accident of sorting.
	best := -1
	var bestDist time.Duration
	for i := range candidates {
		d := candidates[i].StartDate.Sub(ref)
		if d < 0 {
			d = -d
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return nil
	}
	return &candidates[best]
}

// ResolveDate resolves the week containing date.
func ResolveDate(catalog []domain.WeekRange, date time.Time) *domain.WeekRange {
	if date.IsZero() {
		return nil
	}
	return Resolve(catalog, Target{Date: date})
}

// ResolveID resolves by canonical week id, falling back to the later
// strategies only when the id itself carries no usable dates.
func ResolveID(catalog []domain.WeekRange, id string) *domain.WeekRange {
	if id == "" {
		return nil
	}
	return Resolve(catalog, Target{ID: id})
}

// ResolveSlug parses a shareable slug and resolves it through the date-pair,
// containment and nearest-week chain. A malformed slug returns the parse
// error and no match.
func ResolveSlug(catalog []domain.WeekRange, slug string) (*domain.WeekRange, error) {
	start, end, err := ParseSlug(slug)
	if err != nil {
		return nil, err
	}
	return Resolve(catalog, Target{Start: start, End: end}), nil
}
