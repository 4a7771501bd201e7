package dto

type CheckOutput struct {
	URL     string
	Host    string
	Blocked bool
	Rule    string
	// Active reports whether a session is running, which is when the shield applies.
	Active  bool
	Message string
}

type ExitOutput struct {
	Ended     bool
	SessionID string
	Message   string
}
