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

type courseInput struct {
	CourseID string `json:"course_id" jsonschema:"description=The course identifier (id_course) as a string"`
}

const scorecardDesc = `Use this tool to retrieve scorecard hole information, par totals, and rating data for a given course.
Input should be the course identifier (id_course) as a string.`

// NewScorecardTool wraps the scorecard table lookup.
func NewScorecardTool(store course.Store) (tool.InvokableTool, error) {
	return utils.InferTool("search_scorecards", scorecardDesc,
		func(ctx context.Context, in *courseInput) (string, error) {
			if store == nil {
				return "Scorecard search is currently unavailable.", nil
			}

			cards, err := store.ScorecardsByCourse(ctx, in.CourseID)
			if err != nil {
				log.Printf("[tool] scorecard lookup failed: %v", err)
				return "I couldn't retrieve scorecard data right now. Please try again later.", nil
			}
			return ScorecardMarkdown(cards), nil
		})
}

// ScorecardMarkdown renders the first scorecard row as a markdown
// table: one row per hole with men/women par and handicap, followed by
// the par in/out/total footer.
func ScorecardMarkdown(cards []model.Scorecard) string {
	if len(cards) == 0 {
		return "No scorecard information was found for that course."
	}

	card := cards[0]
	numHoles := maxInt(
		countPositive(card.MenParHole),
		countPositive(card.WomenParHole),
		countPositive(card.MenHcpHole),
		countPositive(card.WomenHcpHole),
	)
	if numHoles == 0 {
		return "Scorecard data was found but no hole-by-hole values were populated."
	}

	menPar := padNumbers(card.MenParHole, numHoles)
	menHcp := padNumbers(card.MenHcpHole, numHoles)
	womenPar := padNumbers(card.WomenParHole, numHoles)
	womenHcp := padNumbers(card.WomenHcpHole, numHoles)

	menParW := maxWidth(menPar)
	menHcpW := maxWidth(menHcp)
	womenParW := maxWidth(womenPar)
	womenHcpW := maxWidth(womenHcp)

	lines := []string{
		"### Scorecard Details",
		"| Holes | Men Par | Men Hcp | Women Par | Women Hcp |",
		"|-------|---------|---------|-----------|-----------|",
	}
	for i := 0; i < numHoles; i++ {
		lines = append(lines, fmt.Sprintf("| %2d | %s | %s | %s | %s |",
			i+1,
			ljust(menPar[i], menParW),
			ljust(menHcp[i], menHcpW),
			ljust(womenPar[i], womenParW),
			ljust(womenHcp[i], womenHcpW),
		))
	}

	footer := []struct {
		label    string
		men, wmn int
	}{
		{"Par In", card.MenParIn, card.WomenParIn},
		{"Par Out", card.MenParOut, card.WomenParOut},
		{"Par Total", card.MenParTotal, card.WomenParTotal},
	}
	for _, f := range footer {
		lines = append(lines, fmt.Sprintf("| **%s** | %s | %s | %s | %s |",
			f.label,
			ljust(fmt.Sprint(f.men), menParW),
			strings.Repeat(" ", menHcpW),
			ljust(fmt.Sprint(f.wmn), womenParW),
			strings.Repeat(" ", womenHcpW),
		))
	}

	return strings.Join(lines, "\n")
}

func countPositive(values []int) int {
	n := 0
	for _, v := range values {
		if v > 0 {
			n++
		}
	}
	return n
}

func padNumbers(values []int, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(values) {
			out[i] = fmt.Sprint(values[i])
		} else {
			out[i] = "0"
		}
	}
	return out
}

func maxWidth(values []string) int {
	w := 1
	for _, v := range values {
		if len(v) > w {
			w = len(v)
		}
	}
	return w
}

func ljust(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func maxInt(values ...int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
