package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"focusSession":      "focussession",
		"flowReactor:logs":  "flowreactor-logs",
		" Ship the report!": "ship-the-report",
		"???":               "untitled",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}
