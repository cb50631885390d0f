// Package course provides parameterized read-only lookups against the
// two fixed-schema course tables: scorecards and tee details.
package course

import (
	"context"

	model "github.com/golfguiders/guiders-ai/backend/internal/model/course"
)

// Store is the lookup contract consumed by the agent tools.
type Store interface {
	// ScorecardsByCourse returns the scorecard rows for a course, zero
	// or more.
	ScorecardsByCourse(ctx context.Context, courseID string) ([]model.Scorecard, error)

	// TeeDetailsByCourse returns the tee rows for a course, zero or
	// more.
	TeeDetailsByCourse(ctx context.Context, courseID string) ([]model.TeeDetail, error)
}
