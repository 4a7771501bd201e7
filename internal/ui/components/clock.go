package components

import (
	"fmt"
	"strings"

	sessiondto "lockin/internal/modules/session/dto"
)

// FormatClock renders whole seconds as mm:ss, or h:mm:ss from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// StateLabel is the human label for a session state.
func StateLabel(state string) string {
	switch state {
	case "running":
		return "locked in"
	case "pausedHold":
		return "paused"
	case "finished":
		return "complete"
	default:
		return "idle"
	}
}

// Overlay is the one-line summary shown on every screen and by `lockin status`.
func Overlay(out sessiondto.SessionOutput) string {
	if !out.Active {
		return "no active session"
	}
	parts := []string{FormatClock(out.RemainingSeconds), StateLabel(out.State)}
	if strings.TrimSpace(out.Target) != "" {
		parts = append(parts, out.Target)
	}
	return strings.Join(parts, "  ")
}
