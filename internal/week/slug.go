package week

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weekplan/internal/domain"
)

var ErrInvalidSlug = errors.New("invalid week slug")

// Shareable-link slugs are {DD-MM-YYYY}--to--{DD-MM-YYYY}, e.g.
// 24-03-2025--to--30-03-2025. The format is URL-facing and must stay
// bit-exact for link compatibility.
const slugSeparator = "--to--"

// FormatSlug renders a WeekRange as a shareable URL slug.
func FormatSlug(r domain.WeekRange) string {
	return fmt.Sprintf("%02d-%02d-%04d%s%02d-%02d-%04d",
		r.StartDate.Day(), int(r.StartDate.Month()), r.StartDate.Year(),
		slugSeparator,
		r.EndDate.Day(), int(r.EndDate.Month()), r.EndDate.Year())
}

// ParseSlug parses a shareable slug into its start and end dates (local
// midnight). Fails with ErrInvalidSlug when the separator is absent or
// either side does not split into exactly three numeric components.
func ParseSlug(slug string) (start, end time.Time, err error) {
	parts := strings.Split(slug, slugSeparator)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: missing %q separator", ErrInvalidSlug, slugSeparator)
	}
	start, err = parseSlugDate(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseSlugDate(parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseSlugDate(s string) (time.Time, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q must be DD-MM-YYYY", ErrInvalidSlug, s)
	}
	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: non-numeric component %q", ErrInvalidSlug, f)
		}
		nums[i] = n
	}
	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.Local), nil
}
