package tool

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	model "github.com/golfguiders/guiders-ai/backend/internal/model/course"
	"github.com/golfguiders/guiders-ai/backend/internal/store/course"
)

const teeDetailsDesc = `Use this tool to list tee colors, yardages, and ratings for a given course.
Input should be the course identifier (id_course) as a string.`

// NewTeeDetailsTool wraps the tee-detail table lookup.
func NewTeeDetailsTool(store course.Store) (tool.InvokableTool, error) {
	return utils.InferTool("search_tee_details", teeDetailsDesc,
		func(ctx context.Context, in *courseInput) (string, error) {
			if store == nil {
				return "Tee detail search is currently unavailable.", nil
			}

			tees, err := store.TeeDetailsByCourse(ctx, in.CourseID)
			if err != nil {
				log.Printf("[tool] tee detail lookup failed: %v", err)
				return "I couldn't retrieve tee information right now. Please try again later.", nil
			}
			return TeeDetailsMarkdown(tees), nil
		})
}

// TeeDetailsMarkdown renders tee rows as a markdown table with one
// column per tee: per-hole yardages, the total yardage, and the men's
// and women's course rating / slope.
func TeeDetailsMarkdown(tees []model.TeeDetail) string {
	if len(tees) == 0 {
		return "No tee details were found for that course."
	}

	numHoles := 0
	usable := make([]model.TeeDetail, 0, len(tees))
	for _, tee := range tees {
		if len(tee.YardsHole) == 0 {
			continue
		}
		if len(tee.YardsHole) > numHoles {
			numHoles = len(tee.YardsHole)
		}
		if tee.TeeName == "" {
			tee.TeeName = "Unnamed Tee"
		}
		usable = append(usable, tee)
	}
	if len(usable) == 0 || numHoles == 0 {
		return "Tee details were available but could not be parsed."
	}

	names := make([]string, len(usable))
	for i, tee := range usable {
		names[i] = tee.TeeName
	}

	lines := []string{
		"### Tee Details",
		"| Hole | " + strings.Join(names, " | ") + " |",
		"|------|" + strings.Repeat("------|", len(names)),
	}

	for hole := 0; hole < numHoles; hole++ {
		cells := make([]string, len(usable))
		for i, tee := range usable {
			if hole < len(tee.YardsHole) {
				cells[i] = fmt.Sprint(tee.YardsHole[hole])
			}
		}
		lines = append(lines, fmt.Sprintf("| %2d | %s |", hole+1, strings.Join(cells, " | ")))
	}

	totals := make([]string, len(usable))
	menRatings := make([]string, len(usable))
	womenRatings := make([]string, len(usable))
	for i, tee := range usable {
		if tee.YardsTotal != 0 {
			totals[i] = fmt.Sprint(tee.YardsTotal)
		}
		menRatings[i] = ratingSlope(tee.RatingMen, tee.SlopeMen)
		womenRatings[i] = ratingSlope(tee.RatingWomen, tee.SlopeWomen)
	}
	lines = append(lines,
		"| Total | "+strings.Join(totals, " | ")+" |",
		"| Men CR/Slope | "+strings.Join(menRatings, " | ")+" |",
		"| Women CR/Slope | "+strings.Join(womenRatings, " | ")+" |",
	)

	return strings.Join(lines, "\n")
}

func ratingSlope(rating, slope string) string {
	if rating == "" {
		rating = "N/A"
	}
	if slope == "" {
		slope = "N/A"
	}
	return rating + "/" + slope
}
