package store

import (
	"fmt"
	"math"
	"time"
)

// NormalizeDate converts the date shapes that arrive at the persistence
// boundary into a time.Time: native times, RFC3339 or plain-date strings,
// numeric epochs (seconds or milliseconds), and Firestore-style
// {seconds,nanoseconds} maps. Core packages only ever see time.Time; the
// duck-typing stops here.
func NormalizeDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("normalize date: nil time")
		}
		return *d, nil
	case string:
		return parseDateString(d)
	case int:
		return epochToTime(float64(d)), nil
	case int64:
		return epochToTime(float64(d)), nil
	case float64:
		return epochToTime(d), nil
	case map[string]any:
		return timestampMapToTime(d)
	default:
		return time.Time{}, fmt.Errorf("normalize date: unsupported value %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("normalize date: unparsable string %q", s)
}

// epochToTime treats values >= 1e12 as milliseconds, else seconds.
func epochToTime(v float64) time.Time {
	if math.Abs(v) >= 1e12 {
		return time.UnixMilli(int64(v))
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func timestampMapToTime(m map[string]any) (time.Time, error) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("normalize date: map missing seconds field")
	}
	sec, err := toInt64(secRaw)
	if err != nil {
		return time.Time{}, err
	}
	var nanos int64
	for _, key := range []string{"nanoseconds", "_nanoseconds", "nanos"} {
		if raw, ok := m[key]; ok {
			if nanos, err = toInt64(raw); err != nil {
				return time.Time{}, err
			}
			break
		}
	}
	return time.Unix(sec, nanos), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("normalize date: non-numeric field %T", v)
	}
}
