package week_test

import (
	"testing"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/week"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", date(2025, time.March, 17), date(2025, time.March, 17)},
		{"wednesday rolls back", date(2025, time.March, 19), date(2025, time.March, 17)},
		{"saturday rolls back", date(2025, time.March, 22), date(2025, time.March, 17)},
		{"sunday belongs to the week begun six days earlier", date(2025, time.March, 23), date(2025, time.March, 17)},
		{"next monday starts a new week", date(2025, time.March, 24), date(2025, time.March, 24)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := week.MondayOf(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("MondayOf(%s) = %s, want %s", tc.in, got, tc.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
				t.Fatalf("MondayOf must be midnight, got %s", got)
			}
		})
	}
}

func TestIDOf(t *testing.T) {
	id, err := week.IDOf(date(2025, time.March, 19))
	if err != nil {
		t.Fatalf("IDOf: %v", err)
	}
	if id != "week-2025-3-17" {
		t.Fatalf("id = %q, want week-2025-3-17", id)
	}
	// unpadded single-digit month and day
	id, err = week.IDOf(date(2026, time.January, 7))
	if err != nil {
		t.Fatalf("IDOf: %v", err)
	}
	if id != "week-2026-1-5" {
		t.Fatalf("id = %q, want week-2026-1-5", id)
	}
	if _, err := week.IDOf(time.Time{}); err == nil {
		t.Fatal("expected error for zero date")
	}
}

func TestParseID(t *testing.T) {
	got, err := week.ParseID("week-2025-3-17")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if !got.Equal(date(2025, time.March, 17)) {
		t.Fatalf("parsed = %s", got)
	}
	for _, id := range []string{"", "week-", "week-2025-3", "sprint-2025-3-17", "week-2025-13-40"} {
		if _, err := week.ParseID(id); err == nil {
			t.Fatalf("id %q must not parse", id)
		}
	}
}

func TestRangeOf(t *testing.T) {
	start, end, err := week.RangeOf(date(2025, time.March, 19))
	if err != nil {
		t.Fatalf("RangeOf: %v", err)
	}
	if !start.Equal(date(2025, time.March, 17)) {
		t.Fatalf("start = %s", start)
	}
	wantEnd := time.Date(2025, time.March, 23, 23, 59, 59, 999_000_000, time.Local)
	if !end.Equal(wantEnd) {
		t.Fatalf("end = %s, want %s", end, wantEnd)
	}
}

func TestStableIDAcrossTheWeek(t *testing.T) {
	monday := date(2025, time.March, 17)
	want, _ := week.IDOf(monday)
	for offset := 0; offset < 7; offset++ {
		id, err := week.IDOf(monday.AddDate(0, 0, offset))
		if err != nil {
			t.Fatalf("IDOf day %d: %v", offset, err)
		}
		if id != want {
			t.Fatalf("day %d maps to %q, want %q", offset, id, want)
		}
	}
}

func TestLabelTemplate(t *testing.T) {
	r := domain.WeekRange{
		StartDate: date(2025, time.March, 24),
		EndDate:   date(2025, time.March, 30),
	}
	if got := week.Label(r, ""); got != "Week of 24/03/2025 to 30/03/2025" {
		t.Fatalf("default label = %q", got)
	}
	if got := week.Label(r, "Sprint {start} .. {end}"); got != "Sprint 24/03/2025 .. 30/03/2025" {
		t.Fatalf("custom label = %q", got)
	}
}

func TestEnumerateYear(t *testing.T) {
	today := date(2025, time.June, 11)
	weeks := week.EnumerateYear(2025, today, "")
	if len(weeks) < 52 || len(weeks) > 53 {
		t.Fatalf("got %d weeks, want 52 or 53", len(weeks))
	}
	current := 0
	for i, w := range weeks {
		if w.StartDate.Year() != 2025 {
			t.Fatalf("week %d starts in %d", i, w.StartDate.Year())
		}
		if w.StartDate.Weekday() != time.Monday {
			t.Fatalf("week %d starts on %s", i, w.StartDate.Weekday())
		}
		if !week.ValidRange(w) {
			t.Fatalf("week %d fails validity: %+v", i, w)
		}
		if i > 0 && !w.StartDate.After(weeks[i-1].StartDate) {
			t.Fatalf("weeks out of order at %d", i)
		}
		if w.IsCurrentWeek {
			current++
			if !week.WithinRange(today, w) {
				t.Fatalf("current week %s does not contain today", w.ID)
			}
		}
	}
	if current != 1 {
		t.Fatalf("%d weeks flagged current, want exactly 1", current)
	}
}

func TestValidRange(t *testing.T) {
	good, _ := week.Make(date(2025, time.March, 19), "")
	if !week.ValidRange(good) {
		t.Fatal("generated week should validate")
	}
	bad := domain.WeekRange{StartDate: date(2025, time.March, 17)}
	if week.ValidRange(bad) {
		t.Fatal("missing end date should not validate")
	}
	swapped := domain.WeekRange{StartDate: good.EndDate, EndDate: good.StartDate}
	if week.ValidRange(swapped) {
		t.Fatal("end before start should not validate")
	}
	tooLong := domain.WeekRange{StartDate: good.StartDate, EndDate: good.StartDate.AddDate(0, 0, 14)}
	if week.ValidRange(tooLong) {
		t.Fatal("two-week span should not validate")
	}
	// Clocks-back week: Monday 00:00 to Sunday 23:59:59.999 spans one
	// absolute hour over seven days.
	fallBack := domain.WeekRange{
		StartDate: good.StartDate,
		EndDate:   good.StartDate.Add(7*24*time.Hour + time.Hour - time.Millisecond),
	}
	if !week.ValidRange(fallBack) {
		t.Fatal("clocks-back week must validate")
	}
}

func TestEnumerateYearKeepsClocksBackWeek(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	today := time.Date(2025, time.June, 11, 0, 0, 0, 0, loc)
	weeks := week.EnumerateYear(2025, today, "")
	if len(weeks) < 52 || len(weeks) > 53 {
		t.Fatalf("got %d weeks, want 52 or 53", len(weeks))
	}
	found := false
	for _, w := range weeks {
		if w.ID == "week-2025-10-20" {
			found = true
		}
	}
	if !found {
		t.Fatal("the week whose Sunday changes the clocks is missing from the catalog")
	}
}
