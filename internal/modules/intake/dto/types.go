package dto

import "time"

type AnswerInput struct {
	Key   string
	Value string
}

type SaveInput struct {
	FlowKind string
	Answers  []AnswerInput
}

type IntakeOutput struct {
	ID        string
	CreatedAt time.Time
	FlowKind  string
	Intent    string
	Answers   []AnswerInput
}
