// Package course models the fixed-schema tabular data behind the
// scorecard and tee-detail lookups. Per-hole values arrive from the
// store as comma-separated numeric strings and are parsed into int
// slices here, at the adapter boundary.
package course

import (
	"strconv"
	"strings"
)

// Scorecard holds hole-by-hole par and handicap data for one course.
type Scorecard struct {
	CourseID      string
	MenParHole    []int
	MenHcpHole    []int
	WomenParHole  []int
	WomenHcpHole  []int
	MenParIn      int
	MenParOut     int
	MenParTotal   int
	WomenParIn    int
	WomenParOut   int
	WomenParTotal int
}

// TeeDetail describes a single tee set on a course.
type TeeDetail struct {
	CourseID    string
	TeeName     string
	YardsHole   []int
	YardsTotal  int
	RatingMen   string
	SlopeMen    string
	RatingWomen string
	SlopeWomen  string
}

// ParseCSVNumbers converts a comma-separated numeric string into ints.
// Blank or non-numeric segments are skipped rather than treated as
// errors, matching the lenient source data.
func ParseCSVNumbers(value string) []int {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
