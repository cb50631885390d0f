package chat

import (
	"strings"
	"testing"
)

func TestDeriveTitleShortMessage(t *testing.T) {
	msg := strings.Repeat("a", 50)
	if got := DeriveTitle(msg); got != msg {
		t.Fatalf("expected title unchanged, got %q", got)
	}
}

func TestDeriveTitleTruncatesLongMessage(t *testing.T) {
	msg := strings.Repeat("a", 150)
	got := DeriveTitle(msg)

	if len(got) != TitleMaxLen+3 {
		t.Fatalf("expected %d characters, got %d", TitleMaxLen+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if got[:TitleMaxLen] != msg[:TitleMaxLen] {
		t.Fatal("truncated prefix does not match the message")
	}
}

func TestDeriveTitleExactBoundary(t *testing.T) {
	msg := strings.Repeat("b", TitleMaxLen)
	if got := DeriveTitle(msg); got != msg {
		t.Fatalf("boundary-length message should not be truncated, got %q", got)
	}
}

func TestDeriveTitleEmpty(t *testing.T) {
	if got := DeriveTitle(""); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"user", RoleUser},
		{"assistant", RoleAssistant},
		{"system", RoleSystem},
		{"ASSISTANT", RoleAssistant},
		{"tool", RoleUser},
		{"", RoleUser},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
