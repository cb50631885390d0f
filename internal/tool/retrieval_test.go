package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golfguiders/guiders-ai/backend/internal/retrieval"
)

// stubEngine returns a fixed answer or error for any query.
type stubEngine struct {
	answer retrieval.Answer
	err    error
}

func (e *stubEngine) Query(_ context.Context, _ string) (retrieval.Answer, error) {
	return e.answer, e.err
}

func runTool(t *testing.T, engine *stubEngine) string {
	t.Helper()
	tl, err := NewGolfCoursesTool(engine)
	if err != nil {
		t.Fatalf("NewGolfCoursesTool err: %v", err)
	}
	out, err := tl.InvokableRun(context.Background(), `{"query":"courses near Austin"}`)
	if err != nil {
		t.Fatalf("InvokableRun err: %v", err)
	}
	return out
}

func TestGolfCoursesToolAppendsMatches(t *testing.T) {
	engine := &stubEngine{answer: retrieval.Answer{
		Text: "There are two public courses near Austin.",
		Sources: []retrieval.Source{
			{Metadata: map[string]string{
				"courseName": "Lions Municipal",
				"id_course":  "101",
				"city":       "Austin",
				"state":      "TX",
			}},
			{Metadata: map[string]string{"courseName": "Roy Kizer"}},
		},
	}}

	out := runTool(t, engine)
	if !strings.HasPrefix(out, "There are two public courses near Austin.") {
		t.Fatalf("answer text missing from output:\n%s", out)
	}
	if !strings.Contains(out, "Top course matches:") {
		t.Fatalf("matches section missing:\n%s", out)
	}
	if !strings.Contains(out, "- Lions Municipal (id_course: 101)") {
		t.Fatalf("first match missing:\n%s", out)
	}
	if !strings.Contains(out, "Austin, TX") {
		t.Fatalf("location missing:\n%s", out)
	}
	if !strings.Contains(out, "- Roy Kizer (id_course: N/A)") {
		t.Fatalf("id_course should default to N/A:\n%s", out)
	}
}

func TestGolfCoursesToolNoSources(t *testing.T) {
	engine := &stubEngine{answer: retrieval.Answer{Text: "No relevant information was found."}}

	out := runTool(t, engine)
	if out != "No relevant information was found." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGolfCoursesToolErrorBecomesText(t *testing.T) {
	engine := &stubEngine{err: errors.New("connection refused")}

	out := runTool(t, engine)
	if !strings.Contains(out, "Sorry, I encountered an error") {
		t.Fatalf("error was not converted to text: %q", out)
	}
}

func TestGolfCoursesToolNilEngine(t *testing.T) {
	tl, err := NewGolfCoursesTool(nil)
	if err != nil {
		t.Fatalf("NewGolfCoursesTool err: %v", err)
	}
	out, err := tl.InvokableRun(context.Background(), `{"query":"anything"}`)
	if err != nil {
		t.Fatalf("InvokableRun err: %v", err)
	}
	if out != "Golf courses search is currently unavailable." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAppManualToolPassesAnswerThrough(t *testing.T) {
	engine := &stubEngine{answer: retrieval.Answer{
		Text: "Open Settings and tap Handicap Tracking.",
		Sources: []retrieval.Source{
			{Metadata: map[string]string{"section": "settings"}},
		},
	}}

	tl, err := NewAppManualTool(engine)
	if err != nil {
		t.Fatalf("NewAppManualTool err: %v", err)
	}
	out, err := tl.InvokableRun(context.Background(), `{"query":"how do I track my handicap"}`)
	if err != nil {
		t.Fatalf("InvokableRun err: %v", err)
	}
	if out != "Open Settings and tap Handicap Tracking." {
		t.Fatalf("manual tool should not append sources, got %q", out)
	}
}

func TestFormatCourseMatchMinimalMetadata(t *testing.T) {
	out := formatCourseMatch(map[string]string{})
	if out != "- Unknown course (id_course: N/A)" {
		t.Fatalf("unexpected output %q", out)
	}
}
