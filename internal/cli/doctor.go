package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rigup/internal/execx"
	"rigup/internal/winget"
	"rigup/internal/wsl"
)

var lookPath = exec.LookPath

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check workstation provisioning health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var checks []healthCheck

	checks = append(checks, checkPrivileges(isElevated()))
	checks = append(checks, checkWinget(ctx))
	checks = append(checks, checkWSL(ctx))
	checks = append(checks, checkFlutter())

	return writeDoctorResult(cmd, checks)
}

func checkPrivileges(elevated bool) healthCheck {
	if elevated {
		return healthCheck{Name: "Privileges", Status: "ok", Summary: "running elevated"}
	}
	return healthCheck{
		Name:    "Privileges",
		Status:  "warning",
		Summary: "not elevated; `rigup run` will refuse to provision",
	}
}

func checkWinget(ctx context.Context) healthCheck {
	if !wingetAvailable() {
		return healthCheck{
			Name:    "Winget",
			Status:  "warning",
			Summary: "not installed; `rigup run` will bootstrap it",
		}
	}
	version, err := winget.NewClient(nil).Version(ctx)
	if err != nil {
		return healthCheck{Name: "Winget", Status: "warning", Summary: "installed, version query failed"}
	}
	return healthCheck{Name: "Winget", Status: "ok", Summary: "winget " + version}
}

func checkWSL(ctx context.Context) healthCheck {
	installed, versionTwo := wsl.New(execx.CmdRunner{}, "", nil).Probe(ctx)
	return wslCheckResult(installed, versionTwo)
}

func wslCheckResult(installed, versionTwo bool) healthCheck {
	switch {
	case installed && versionTwo:
		return healthCheck{Name: "WSL", Status: "ok", Summary: "installed, default version 2"}
	case installed:
		return healthCheck{Name: "WSL", Status: "warning", Summary: "installed, default version is not 2"}
	default:
		return healthCheck{Name: "WSL", Status: "warning", Summary: "not installed"}
	}
}

func checkFlutter() healthCheck {
	path, err := lookPath("flutter")
	if err != nil {
		return healthCheck{Name: "Flutter", Status: "warning", Summary: "flutter not on PATH"}
	}
	return healthCheck{Name: "Flutter", Status: "ok", Summary: path}
}

func writeDoctorResult(cmd *cobra.Command, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("WORKSTATION HEALTH:"))

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}
