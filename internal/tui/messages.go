package tui

// RowUpdateMsg updates a single row's fields by column name.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// PhaseMsg replaces the phase line shown under the table while setup steps
// (feature enablement, source refresh) run.
type PhaseMsg struct {
	Text string
}

// WorkDoneMsg signals that the provisioning run has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
