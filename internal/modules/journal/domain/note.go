package domain

const (
	NoteBlockStart = "<!-- lockin:session:start -->"
	NoteBlockEnd   = "<!-- lockin:session:end -->"
)
