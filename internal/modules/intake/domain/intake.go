package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "lockin/internal/platform/errors"
)

// FlowKind is the self-declared focus profile picked before a session.
type FlowKind string

const (
	FlowNoisyMind   FlowKind = "TYPE_A"
	FlowMomentum    FlowKind = "TYPE_B"
	FlowPurpose     FlowKind = "TYPE_C"
	FlowStructure   FlowKind = "TYPE_D"
	FlowDistraction FlowKind = "TYPE_E"
)

type FlowKindInfo struct {
	Kind        FlowKind
	Name        string
	Label       string
	Description string
}

var FlowKinds = []FlowKindInfo{
	{Kind: FlowNoisyMind, Name: "Overthinker Core", Label: "Noisy mind", Description: "Slow the mental noise and focus the plasma stream."},
	{Kind: FlowMomentum, Name: "Momentum Core", Label: "Trouble starting", Description: "Kickstart the ignition loop and ride the surge."},
	{Kind: FlowPurpose, Name: "Purpose Core", Label: "Lack of motivation", Description: "Align the output to something worth chasing."},
	{Kind: FlowStructure, Name: "Structure Core", Label: "Feeling overwhelmed", Description: "Channel the beam with crisp sequencing."},
	{Kind: FlowDistraction, Name: "Shield Core", Label: "Easy to get distracted", Description: "Armor up against distractions and drift."},
}

// ParseFlowKind accepts the stored form (TYPE_A) or the bare letter (a).
// An empty string is no flow kind.
func ParseFlowKind(raw string) (FlowKind, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", nil
	}
	if !strings.HasPrefix(v, "TYPE_") {
		v = "TYPE_" + v
	}
	for _, info := range FlowKinds {
		if string(info.Kind) == v {
			return info.Kind, nil
		}
	}
	return "", fmt.Errorf("%w: unknown flow kind %q", apperrors.ErrInvalidInput, raw)
}

// Question is one intake prompt. Keys are the stored answer keys.
type Question struct {
	Key    string
	Prompt string
}

var Questions = []Question{
	{Key: "q1_mind", Prompt: "What's pulling at your attention?"},
	{Key: "q2_stress", Prompt: "What's stressing you out?"},
	{Key: "q3_hour_goal", Prompt: "What do you want to achieve this sprint?"},
	{Key: "q4_definition", Prompt: "What does done look like?"},
	{Key: "q5_distractions", Prompt: "What could derail you?"},
	{Key: "q6_avoid_plan", Prompt: "How will you stay locked in?"},
}

type Answer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a saved intake. Answers keep the order they were given in.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	FlowKind  FlowKind  `json:"flowKind,omitempty"`
	Answers   []Answer  `json:"answers"`
}

// Intent is the first answer, the one reflections are scored against.
func (r Record) Intent() string {
	if len(r.Answers) == 0 {
		return ""
	}
	return r.Answers[0].Value
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: intake id is required", apperrors.ErrInvalidInput)
	}
	if len(r.Answers) == 0 {
		return fmt.Errorf("%w: at least one answer is required", apperrors.ErrInvalidInput)
	}
	seen := map[string]struct{}{}
	for _, a := range r.Answers {
		key := strings.TrimSpace(a.Key)
		if key == "" {
			return fmt.Errorf("%w: answer key is required", apperrors.ErrInvalidInput)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate answer key %q", apperrors.ErrInvalidInput, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
