package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"rigup/internal/provision"
	"rigup/internal/winget"
)

func testModel() ProgressModel {
	m := NewProgressModel("provision", []Column{
		{Header: "PACKAGE", Width: 20},
		{Header: "STATUS", Width: 24},
		{Header: "NOTE", Width: 30},
	})
	m.AddRow(ItemKey(0), []string{"Git", "pending", ""})
	m.AddRow(ItemKey(1), []string{"Google Chrome", "pending", ""})
	return m
}

func TestRowUpdateMsg(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(RowUpdateMsg{
		Key:    ItemKey(0),
		Fields: map[string]string{"STATUS": "succeeded"},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != "succeeded" {
		t.Errorf("expected STATUS=succeeded, got %q", m.rows[0].Fields[1])
	}
	// Second row unchanged.
	if m.rows[1].Fields[1] != "pending" {
		t.Errorf("expected row 2 STATUS=pending, got %q", m.rows[1].Fields[1])
	}
}

func TestRowUpdateMsg_UnknownKey(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "item:999",
		Fields: map[string]string{"STATUS": "succeeded"},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != "pending" {
		t.Errorf("expected STATUS unchanged, got %q", m.rows[0].Fields[1])
	}
}

func TestWorkDoneMsgQuits(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)

	if !m.Done() {
		t.Error("expected model to be done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
}

func TestPhaseMsgShownInFooter(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(PhaseMsg{Text: "Enabling WSL 2..."})
	m = updated.(ProgressModel)

	if !strings.Contains(m.View(), "Enabling WSL 2...") {
		t.Error("expected phase text in view")
	}
}

func TestProgressCounts(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(RowUpdateMsg{
		Key:    ItemKey(0),
		Fields: map[string]string{"STATUS": "failed"},
	})
	m = updated.(ProgressModel)
	updated, _ = m.Update(RowUpdateMsg{
		Key:    ItemKey(1),
		Fields: map[string]string{"STATUS": "installing"},
	})
	m = updated.(ProgressModel)

	finished, total := m.progressCounts()
	if finished != 1 || total != 2 {
		t.Errorf("expected 1/2 finished, got %d/%d", finished, total)
	}
}

func TestInstallReporterMapsResults(t *testing.T) {
	var msgs []tea.Msg
	r := NewInstallReporter(func(msg tea.Msg) { msgs = append(msgs, msg) })

	r.ItemStarted(0, 2, "Git")
	r.ItemFinished(0, 2, provision.ItemResult{
		ID:      "Git.Git",
		Name:    "Git",
		Outcome: winget.OutcomeSucceededWithWarnings,
		Note:    "already installed",
	})

	var finished *RowUpdateMsg
	for _, msg := range msgs {
		if row, ok := msg.(RowUpdateMsg); ok && row.Fields["STATUS"] != "installing" {
			finished = &row
		}
	}
	if finished == nil {
		t.Fatal("expected terminal row update")
	}
	if finished.Key != ItemKey(0) {
		t.Errorf("expected key %s, got %s", ItemKey(0), finished.Key)
	}
	if finished.Fields["STATUS"] != "succeeded-with-warnings" {
		t.Errorf("unexpected status %q", finished.Fields["STATUS"])
	}
	if finished.Fields["NOTE"] != "already installed" {
		t.Errorf("unexpected note %q", finished.Fields["NOTE"])
	}
}

func TestDetectMode(t *testing.T) {
	var buf strings.Builder
	if mode := DetectMode(&buf, false, true); mode != ModeJSON {
		t.Errorf("expected ModeJSON, got %v", mode)
	}
	if mode := DetectMode(&buf, true, false); mode != ModePlain {
		t.Errorf("expected ModePlain for --no-progress, got %v", mode)
	}
	// Non-file writers can never host an interactive display.
	if mode := DetectMode(&buf, false, false); mode != ModePlain {
		t.Errorf("expected ModePlain for non-file writer, got %v", mode)
	}
}
