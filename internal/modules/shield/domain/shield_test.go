package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "lockin/internal/platform/errors"
)

func TestCheck(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw     string
		blocked bool
		rule    string
	}{
		{"https://www.youtube.com/watch?v=1", true, "youtube.com"},
		{"reddit.com/r/golang", true, "reddit.com"},
		{"HTTPS://X.COM/home", true, "x.com"},
		{"t.me/somechannel", true, "t.me"},
		{"https://box.com/files", false, ""},
		{"https://go.dev/doc", false, ""},
		{"http://app.slack.com.", true, "slack.com"},
	}
	for _, tc := range cases {
		v, err := Check(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if v.Blocked != tc.blocked || v.Rule != tc.rule {
			t.Fatalf("%s: expected blocked=%v rule=%q, got %+v", tc.raw, tc.blocked, tc.rule, v)
		}
	}
	for _, bad := range []string{"", "   ", "https://"} {
		if _, err := Check(bad); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", bad, err)
		}
	}
}

func TestHoldCompletesAfterContinuousRepeats(t *testing.T) {
	t.Parallel()
	t0 := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	h := &Hold{}
	for at := time.Duration(0); at < HoldDuration; at += 100 * time.Millisecond {
		if h.Press(t0.Add(at)) {
			t.Fatalf("hold completed early at %s", at)
		}
	}
	if p := h.Progress(t0.Add(2900 * time.Millisecond)); p < 0.9 || p > 1 {
		t.Fatalf("unexpected progress %f", p)
	}
	if !h.Press(t0.Add(HoldDuration)) {
		t.Fatalf("expected hold to complete")
	}
	if h.Progress(t0.Add(HoldDuration)) != 0 {
		t.Fatalf("completed hold must reset")
	}
}

func TestHoldGapRestarts(t *testing.T) {
	t.Parallel()
	t0 := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	h := &Hold{}
	h.Press(t0)
	h.Press(t0.Add(2 * time.Second))
	if h.Progress(t0.Add(2*time.Second)) != 0 {
		t.Fatalf("a gap must restart the hold")
	}
	if h.Press(t0.Add(4 * time.Second)) {
		t.Fatalf("restarted hold must not complete")
	}
	if h.Progress(t0.Add(5*time.Second)) != 0 {
		t.Fatalf("released hold must report zero progress")
	}
}
