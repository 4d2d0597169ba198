package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rigup/internal/provision"
	"rigup/internal/tui"
	"rigup/internal/wsl"
)

// Render writes the human-readable run report: one line per item, the
// aggregate tally, and the restart directive when one is pending.
func Render(w io.Writer, rep provision.Report) {
	cols := []struct {
		header string
		width  int
	}{
		{"PACKAGE", 24},
		{"ID", 28},
		{"STATUS", 24},
		{"NOTE", 40},
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = tui.HeaderStyle.Render(pad(c.header, c.width))
	}
	fmt.Fprintln(w, strings.Join(headers, "  "))

	for _, item := range rep.Items {
		note := item.Note
		if note == "" && item.Err != nil {
			note = item.Err.Error()
		}
		status := item.Outcome.String()
		fields := []string{
			pad(tui.TruncateWithEllipsis(item.Name, cols[0].width), cols[0].width),
			pad(tui.TruncateWithEllipsis(item.ID, cols[1].width), cols[1].width),
			tui.StatusStyle(status).Render(pad(status, cols[2].width)),
			tui.TruncateWithEllipsis(note, cols[3].width),
		}
		fmt.Fprintln(w, strings.Join(fields, "  "))
	}

	fmt.Fprintln(w)
	RenderSummary(w, rep)
}

// RenderSummary writes the tally and restart directive without the item table.
// The TUI path uses this after the table program exits.
func RenderSummary(w io.Writer, rep provision.Report) {
	fmt.Fprintln(w, tui.SummaryStyle.Render(
		fmt.Sprintf("Installed: %d succeeded, %d failed", rep.Succeeded, rep.Failed)))

	if rep.WSL.State != wsl.StateUnknown {
		fmt.Fprintf(w, "WSL 2: %s\n", rep.WSL.State)
	}
	for _, item := range rep.Items {
		if item.Note != "" {
			fmt.Fprintf(w, "Note: %s: %s\n", item.Name, item.Note)
		}
	}

	if rep.RestartRequired {
		fmt.Fprintln(w)
		fmt.Fprintln(w, tui.RestartStyle.Render(
			"RESTART REQUIRED: restart Windows to finish enabling virtualization features."))
	}
}

type jsonItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Note    string `json:"note,omitempty"`
	Error   string `json:"error,omitempty"`
}

type jsonReport struct {
	Succeeded       int        `json:"succeeded"`
	Failed          int        `json:"failed"`
	RestartRequired bool       `json:"restart_required"`
	WSLState        string     `json:"wsl_state"`
	Items           []jsonItem `json:"items"`
}

// RenderJSON writes the machine-readable run report.
func RenderJSON(w io.Writer, rep provision.Report) error {
	out := jsonReport{
		Succeeded:       rep.Succeeded,
		Failed:          rep.Failed,
		RestartRequired: rep.RestartRequired,
		WSLState:        rep.WSL.State.String(),
		Items:           make([]jsonItem, 0, len(rep.Items)),
	}
	for _, item := range rep.Items {
		ji := jsonItem{
			ID:      item.ID,
			Name:    item.Name,
			Outcome: item.Outcome.String(),
			Note:    item.Note,
		}
		if item.Err != nil {
			ji.Error = item.Err.Error()
		}
		out.Items = append(out.Items, ji)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
