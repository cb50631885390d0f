// Package tool exposes the four agent-invocable capabilities: the two
// semantic search engines and the two tabular course lookups. Every
// tool converts internal failures into human-readable text; the agent
// never sees a tool error.
package tool

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/golfguiders/guiders-ai/backend/internal/retrieval"
)

type searchInput struct {
	Query string `json:"query" jsonschema:"description=A natural language question"`
}

const golfCoursesDesc = `Useful for searching and querying information about golf courses.
This tool can answer questions about:
- Golf course locations, addresses, and contact information
- Course types (public, private, etc.)
- Number of holes and course layouts
- Golf course recommendations based on location

Input should be a natural language question about golf courses.`

// NewGolfCoursesTool wraps the golf-course retrieval engine. When the
// engine returns supporting sources, the top matches are appended so
// the agent can pick up id_course values for follow-up lookups.
func NewGolfCoursesTool(engine retrieval.Engine) (tool.InvokableTool, error) {
	return utils.InferTool("search_golf_courses", golfCoursesDesc,
		func(ctx context.Context, in *searchInput) (string, error) {
			if engine == nil {
				return "Golf courses search is currently unavailable.", nil
			}

			answer, err := engine.Query(ctx, in.Query)
			if err != nil {
				log.Printf("[tool] golf course search failed: %v", err)
				return fmt.Sprintf("Sorry, I encountered an error while searching golf courses: %v", err), nil
			}

			if len(answer.Sources) == 0 {
				return answer.Text, nil
			}

			lines := []string{answer.Text, "\nTop course matches:"}
			for i, src := range answer.Sources {
				if i >= 5 {
					break
				}
				lines = append(lines, formatCourseMatch(src.Metadata))
			}
			return strings.Join(lines, "\n"), nil
		})
}

func formatCourseMatch(meta map[string]string) string {
	name := meta["courseName"]
	if name == "" {
		name = "Unknown course"
	}
	courseID := meta["id_course"]
	if courseID == "" {
		courseID = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- %s (id_course: %s)", name, courseID)
	if meta["city"] != "" || meta["state"] != "" {
		fmt.Fprintf(&b, " — %s, %s", meta["city"], meta["state"])
	}
	if meta["latitude"] != "" || meta["longitude"] != "" {
		fmt.Fprintf(&b, " — %s, %s", meta["latitude"], meta["longitude"])
	}
	return b.String()
}

const appManualDesc = `Useful for searching and querying application documentation and user manual.
This tool can answer questions about:
- How to use the golf application features
- Application settings and configuration
- Feature explanations and tutorials
- Best practices for using the app

Input should be a natural language question about the application.`

// NewAppManualTool wraps the app documentation retrieval engine.
func NewAppManualTool(engine retrieval.Engine) (tool.InvokableTool, error) {
	return utils.InferTool("search_app_manual", appManualDesc,
		func(ctx context.Context, in *searchInput) (string, error) {
			if engine == nil {
				return "Application documentation and user manual search is currently unavailable.", nil
			}

			answer, err := engine.Query(ctx, in.Query)
			if err != nil {
				log.Printf("[tool] app manual search failed: %v", err)
				return fmt.Sprintf("Sorry, I encountered an error while searching application documentation and user manual: %v", err), nil
			}
			return answer.Text, nil
		})
}
