package slug_test

import (
	"testing"

	"urworld/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Mercury quiz":    "mercury-quiz",
		"  Énergie Café ": "energie-cafe",
		"Quiz #3: Mars!":  "quiz-3-mars",
		"***":             "untitled",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("slug(%q): expected %q, got %q", in, want, got)
		}
	}
}
