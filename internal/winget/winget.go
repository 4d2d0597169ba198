package winget

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"rigup/internal/execx"
)

// Outcome classifies a single install attempt.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSucceededWithWarnings
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSucceededWithWarnings:
		return "succeeded-with-warnings"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Success reports whether the outcome counts toward the success tally.
func (o Outcome) Success() bool {
	return o == OutcomeSucceeded || o == OutcomeSucceededWithWarnings
}

var lookPath = exec.LookPath

// Available reports whether winget resolves on the current PATH. Pure
// detection: any lookup failure means "not available", never an error.
func Available() bool {
	_, err := lookPath("winget")
	return err == nil
}

// Client drives the winget executable through a Runner.
type Client struct {
	Runner execx.Runner
	Path   string
}

func NewClient(runner execx.Runner) *Client {
	if runner == nil {
		runner = execx.CmdRunner{}
	}
	return &Client{Runner: runner, Path: "winget"}
}

func (c *Client) path() string {
	if c.Path != "" {
		return c.Path
	}
	return "winget"
}

// InstallOptions tunes a single install invocation.
type InstallOptions struct {
	// Version pins an exact package version. Empty installs current stable.
	Version string
	// LogTo receives winget's combined output in addition to the capture
	// buffers.
	LogTo io.Writer
}

// Install runs `winget install` for the given package id in unattended mode
// and classifies the result. winget's exit code conflates "already
// installed" with genuine failure, so a non-zero exit without a spawn
// failure is treated as success-with-warnings rather than failure; only a
// failed invocation (winget missing, process could not start) is a failure.
func (c *Client) Install(ctx context.Context, id string, opts InstallOptions) Outcome {
	args := []string{
		"install",
		"--id", id,
		"-e",
		"--silent",
		"--accept-source-agreements",
		"--accept-package-agreements",
	}
	if opts.Version != "" {
		args = append(args, "--version", opts.Version)
	}

	_, err := c.Runner.Run(ctx, c.path(), args, execx.RunOptions{Stdout: opts.LogTo, Stderr: opts.LogTo})
	if err == nil {
		return OutcomeSucceeded
	}
	if _, exited := execx.ExitCode(err); exited {
		return OutcomeSucceededWithWarnings
	}
	return OutcomeFailed
}

// UpdateSources refreshes winget's source index. Failures are reported so the
// caller can log them; they never abort a run.
func (c *Client) UpdateSources(ctx context.Context) error {
	_, err := c.Runner.Run(ctx, c.path(), []string{"source", "update"}, execx.RunOptions{})
	if err != nil {
		return fmt.Errorf("winget source update: %w", err)
	}
	return nil
}

// Version returns the installed winget version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := c.Runner.Run(ctx, c.path(), []string{"--version"}, execx.RunOptions{})
	if err != nil {
		return "", fmt.Errorf("winget --version: %w", err)
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}
