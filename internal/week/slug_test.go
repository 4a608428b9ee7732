package week_test

import (
	"errors"
	"testing"
	"time"

	"weekplan/internal/week"
)

func TestFormatSlug(t *testing.T) {
	r, err := week.Make(date(2025, time.March, 26), "")
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if got := week.FormatSlug(r); got != "24-03-2025--to--30-03-2025" {
		t.Fatalf("slug = %q", got)
	}
}

func TestParseSlug(t *testing.T) {
	start, end, err := week.ParseSlug("24-03-2025--to--30-03-2025")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !start.Equal(date(2025, time.March, 24)) || !end.Equal(date(2025, time.March, 30)) {
		t.Fatalf("parsed %s .. %s", start, end)
	}
}

func TestParseSlugRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"24-03-2025",
		"24-03-2025--30-03-2025",
		"24-03--to--30-03-2025",
		"aa-03-2025--to--30-03-2025",
		"24-03-2025-extra--to--30-03-2025",
	}
	for _, slug := range cases {
		if _, _, err := week.ParseSlug(slug); !errors.Is(err, week.ErrInvalidSlug) {
			t.Fatalf("ParseSlug(%q) err = %v, want ErrInvalidSlug", slug, err)
		}
	}
}
