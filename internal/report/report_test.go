package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"rigup/internal/provision"
	"rigup/internal/winget"
	"rigup/internal/wsl"
)

func sampleReport() provision.Report {
	return provision.Report{
		Succeeded:       2,
		Failed:          1,
		RestartRequired: true,
		WSL:             wsl.Result{State: wsl.StateJustEnabled, RestartRequired: true},
		Items: []provision.ItemResult{
			{ID: "Git.Git", Name: "Git", Outcome: winget.OutcomeSucceeded},
			{ID: "Google.AndroidStudio", Name: "Android Studio", Outcome: winget.OutcomeSucceededWithWarnings, Note: "installed current stable instead of pinned build"},
			{ID: "Flutter SDK", Name: "Flutter SDK", Outcome: winget.OutcomeFailed, Err: errors.New("extract failed")},
		},
	}
}

func TestRenderIncludesTallyAndRestart(t *testing.T) {
	var buf strings.Builder
	Render(&buf, sampleReport())
	out := buf.String()

	if !strings.Contains(out, "2 succeeded, 1 failed") {
		t.Errorf("expected tally in output:\n%s", out)
	}
	if !strings.Contains(out, "RESTART REQUIRED") {
		t.Errorf("expected restart directive in output:\n%s", out)
	}
	if !strings.Contains(out, "installed current stable instead of pinned build") {
		t.Errorf("expected suite note surfaced:\n%s", out)
	}
	if !strings.Contains(out, "extract failed") {
		t.Errorf("expected item error in output:\n%s", out)
	}
}

func TestRenderOmitsRestartWhenNotRequired(t *testing.T) {
	rep := sampleReport()
	rep.RestartRequired = false

	var buf strings.Builder
	Render(&buf, rep)
	if strings.Contains(buf.String(), "RESTART REQUIRED") {
		t.Error("unexpected restart directive")
	}
}

func TestRenderJSON(t *testing.T) {
	var buf strings.Builder
	if err := RenderJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded jsonReport
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Succeeded != 2 || decoded.Failed != 1 {
		t.Errorf("unexpected tally: %+v", decoded)
	}
	if !decoded.RestartRequired {
		t.Error("expected restart_required true")
	}
	if decoded.WSLState != "just-enabled" {
		t.Errorf("unexpected wsl_state %q", decoded.WSLState)
	}
	if len(decoded.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(decoded.Items))
	}
	if decoded.Items[2].Error != "extract failed" {
		t.Errorf("expected item error serialized, got %q", decoded.Items[2].Error)
	}
}
