package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var wordSplit = regexp.MustCompile(`[^a-z0-9]+`)

// AlignmentScore estimates, from 0 to 100, how many words of the stated
// intent show up again in the reflection summary. It is a rough heuristic.
func AlignmentScore(intent, summary string) (int, bool) {
	goal := words(intent)
	got := words(summary)
	if len(goal) == 0 || len(got) == 0 {
		return 0, false
	}
	hits := 0
	for w := range goal {
		if _, ok := got[w]; ok {
			hits++
		}
	}
	score := int(float64(hits)/float64(len(goal))*100 + 0.5)
	if score > 100 {
		score = 100
	}
	return score, true
}

func AlignmentNote(score int) string {
	return fmt.Sprintf("Estimated alignment with intent: %d%%", score)
}

func words(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range wordSplit.Split(strings.ToLower(text), -1) {
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}
