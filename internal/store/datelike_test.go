package store

import (
	"testing"
	"time"
)

func TestNormalizeDateNative(t *testing.T) {
	want := time.Date(2025, time.March, 17, 10, 30, 0, 0, time.UTC)
	got, err := NormalizeDate(want)
	if err != nil || !got.Equal(want) {
		t.Fatalf("time.Time passthrough: %v %v", got, err)
	}
	got, err = NormalizeDate(&want)
	if err != nil || !got.Equal(want) {
		t.Fatalf("*time.Time: %v %v", got, err)
	}
	if _, err := NormalizeDate((*time.Time)(nil)); err == nil {
		t.Fatal("nil pointer must error")
	}
}

func TestNormalizeDateStrings(t *testing.T) {
	got, err := NormalizeDate("2025-03-17T10:30:00Z")
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !got.Equal(time.Date(2025, time.March, 17, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339 = %s", got)
	}
	got, err = NormalizeDate("2025-03-17")
	if err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 17 {
		t.Fatalf("plain date = %s", got)
	}
	if _, err := NormalizeDate("yesterday-ish"); err == nil {
		t.Fatal("garbage string must error")
	}
}

func TestNormalizeDateEpochs(t *testing.T) {
	ref := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
	got, err := NormalizeDate(ref.Unix())
	if err != nil || !got.Equal(ref) {
		t.Fatalf("seconds epoch: %v %v", got, err)
	}
	got, err = NormalizeDate(ref.UnixMilli())
	if err != nil || !got.Equal(ref) {
		t.Fatalf("millis epoch: %v %v", got, err)
	}
	got, err = NormalizeDate(int(ref.Unix()))
	if err != nil || !got.Equal(ref) {
		t.Fatalf("int epoch: %v %v", got, err)
	}
}

func TestNormalizeDateTimestampMap(t *testing.T) {
	ref := time.Date(2025, time.March, 17, 12, 0, 0, 500, time.UTC)
	for _, m := range []map[string]any{
		{"seconds": ref.Unix(), "nanoseconds": int64(500)},
		{"_seconds": float64(ref.Unix()), "_nanoseconds": float64(500)},
		{"seconds": ref.Unix(), "nanos": 500},
	} {
		got, err := NormalizeDate(m)
		if err != nil {
			t.Fatalf("map %v: %v", m, err)
		}
		if !got.Equal(ref) {
			t.Fatalf("map %v = %s, want %s", m, got, ref)
		}
	}
	if _, err := NormalizeDate(map[string]any{"nanoseconds": 1}); err == nil {
		t.Fatal("map without seconds must error")
	}
}

func TestNormalizeDateUnsupported(t *testing.T) {
	if _, err := NormalizeDate(struct{}{}); err == nil {
		t.Fatal("unsupported type must error")
	}
	if _, err := NormalizeDate(nil); err == nil {
		t.Fatal("nil must error")
	}
}
