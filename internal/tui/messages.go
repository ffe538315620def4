package tui

// savedMsg reports the outcome of a save.
type savedMsg struct {
	err error
}

// statusMsg replaces the status line.
type statusMsg struct {
	text string
	err  bool
}
