package week_test

import (
	"testing"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/week"
)

func catalogFor(t *testing.T, mondays ...time.Time) []domain.WeekRange {
	t.Helper()
	out := make([]domain.WeekRange, 0, len(mondays))
	for _, m := range mondays {
		r, err := week.Make(m, "")
		if err != nil {
			t.Fatalf("make %s: %v", m, err)
		}
		out = append(out, r)
	}
	return out
}

func TestResolvePriorityOrder(t *testing.T) {
	catalog := catalogFor(t,
		date(2025, time.March, 10),
		date(2025, time.March, 17),
		date(2025, time.March, 24),
	)

	// exact id beats everything else, even a conflicting date
	got := week.Resolve(catalog, week.Target{ID: "week-2025-3-10", Date: date(2025, time.March, 26)})
	if got == nil || got.ID != "week-2025-3-10" {
		t.Fatalf("id match lost to date: %+v", got)
	}

	// date pair match
	got = week.Resolve(catalog, week.Target{
		Start: date(2025, time.March, 17),
		End:   date(2025, time.March, 23),
	})
	if got == nil || got.ID != "week-2025-3-17" {
		t.Fatalf("pair match: %+v", got)
	}

	// containment
	got = week.Resolve(catalog, week.Target{Date: date(2025, time.March, 26)})
	if got == nil || got.ID != "week-2025-3-24" {
		t.Fatalf("containment: %+v", got)
	}

	// nearest start when nothing contains the reference
	got = week.Resolve(catalog, week.Target{Date: date(2025, time.April, 2)})
	if got == nil || got.ID != "week-2025-3-24" {
		t.Fatalf("nearest: %+v", got)
	}
}

func TestResolveUnknownIDFallsThrough(t *testing.T) {
	catalog := catalogFor(t, date(2025, time.March, 17))
	got := week.Resolve(catalog, week.Target{ID: "week-1999-1-4", Date: date(2025, time.March, 19)})
	if got == nil || got.ID != "week-2025-3-17" {
		t.Fatalf("unknown id should fall through to date: %+v", got)
	}
}

func TestResolveTieBreaksToFirstRecord(t *testing.T) {
	// Two records equidistant from the reference Monday; input order decides.
	catalog := catalogFor(t,
		date(2025, time.March, 10),
		date(2025, time.March, 24),
	)
	got := week.Resolve(catalog, week.Target{Start: date(2025, time.March, 17)})
	if got == nil || got.ID != "week-2025-3-10" {
		t.Fatalf("tie should keep first record, got %+v", got)
	}

	// Same distances, reversed input order.
	reversed := []domain.WeekRange{catalog[1], catalog[0]}
	got = week.Resolve(reversed, week.Target{Start: date(2025, time.March, 17)})
	if got == nil || got.ID != "week-2025-3-24" {
		t.Fatalf("tie should keep first record after reversal, got %+v", got)
	}
}

func TestResolveFiltersInvalidRecords(t *testing.T) {
	valid, _ := week.Make(date(2025, time.March, 17), "")
	corrupt := domain.WeekRange{ID: "week-2025-3-24", StartDate: date(2025, time.March, 24)}
	got := week.Resolve([]domain.WeekRange{corrupt, valid}, week.Target{ID: "week-2025-3-24", Date: date(2025, time.March, 19)})
	if got == nil || got.ID != "week-2025-3-17" {
		t.Fatalf("corrupt record must not resolve: %+v", got)
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	if got := week.Resolve(nil, week.Target{Date: date(2025, time.March, 19)}); got != nil {
		t.Fatalf("empty catalog must miss, got %+v", got)
	}
	if got := week.ResolveDate([]domain.WeekRange{}, time.Time{}); got != nil {
		t.Fatalf("zero date must miss, got %+v", got)
	}
}

func TestResolveSlug(t *testing.T) {
	catalog := catalogFor(t, date(2025, time.March, 24))
	got, err := week.ResolveSlug(catalog, "24-03-2025--to--30-03-2025")
	if err != nil {
		t.Fatalf("resolve slug: %v", err)
	}
	if got == nil || got.ID != "week-2025-3-24" {
		t.Fatalf("slug resolution: %+v", got)
	}
	if _, err := week.ResolveSlug(catalog, "not-a-slug"); err == nil {
		t.Fatal("malformed slug must error, not miss")
	}
}
