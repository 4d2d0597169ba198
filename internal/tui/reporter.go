package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"rigup/internal/provision"
)

// ItemKey returns the row key for the catalog item at the given position.
func ItemKey(index int) string {
	return fmt.Sprintf("item:%03d", index)
}

// InstallReporter adapts bubbletea message sending to provision.Reporter, one
// table row per catalog item.
type InstallReporter struct {
	send func(tea.Msg)
}

// NewInstallReporter constructs a reporter that forwards progress through send.
func NewInstallReporter(send func(tea.Msg)) *InstallReporter {
	return &InstallReporter{send: send}
}

// Status implements provision.Reporter.
func (r *InstallReporter) Status(msg string) {
	r.send(PhaseMsg{Text: msg})
}

// ItemStarted implements provision.Reporter.
func (r *InstallReporter) ItemStarted(index, _ int, _ string) {
	r.send(PhaseMsg{})
	r.send(RowUpdateMsg{
		Key:    ItemKey(index),
		Fields: map[string]string{"STATUS": "installing"},
	})
}

// ItemFinished implements provision.Reporter.
func (r *InstallReporter) ItemFinished(index, _ int, res provision.ItemResult) {
	note := res.Note
	if note == "" && res.Err != nil {
		note = res.Err.Error()
	}
	r.send(RowUpdateMsg{
		Key: ItemKey(index),
		Fields: map[string]string{
			"STATUS": res.Outcome.String(),
			"NOTE":   note,
		},
	})
}
