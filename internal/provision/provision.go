package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rigup/internal/winget"
	"rigup/internal/wsl"
	"rigup/pkg/catalog"
)

// ItemResult records one install attempt.
type ItemResult struct {
	ID      string
	Name    string
	Outcome winget.Outcome
	// Note carries operator-facing caveats, such as a pinned version that had
	// to fall back to current stable.
	Note string
	Err  error
}

// Report aggregates a full provisioning run. The tally always covers every
// catalog item: Succeeded+Failed equals the catalog's attempt count.
type Report struct {
	Succeeded       int
	Failed          int
	RestartRequired bool
	WSL             wsl.Result
	Items           []ItemResult
}

// Reporter receives progress as the run advances. Implementations must not
// block; the run is strictly sequential.
type Reporter interface {
	Status(msg string)
	ItemStarted(index, total int, name string)
	ItemFinished(index, total int, res ItemResult)
}

type noopReporter struct{}

func (noopReporter) Status(string)                     {}
func (noopReporter) ItemStarted(int, int, string)      {}
func (noopReporter) ItemFinished(int, int, ItemResult) {}

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// installer is the slice of winget.Client the run needs.
type installer interface {
	Install(ctx context.Context, id string, opts winget.InstallOptions) winget.Outcome
	UpdateSources(ctx context.Context) error
}

type featureEnabler interface {
	Enable(ctx context.Context) wsl.Result
}

type sdkInstaller interface {
	Install(ctx context.Context, sdk catalog.SDK) error
}

// Service runs the provisioning sequence: WSL enablement, source refresh,
// then every catalog item in order. Item failures are tallied, never fatal.
type Service struct {
	Winget   installer
	WSL      featureEnabler
	SDK      sdkInstaller
	LogsDir  string
	Logger   Logger
	Reporter Reporter

	// SkipWSL leaves the virtualization feature untouched.
	SkipWSL bool
}

func NewService(wg installer, enabler featureEnabler, sdk sdkInstaller, logsDir string, logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		Winget:   wg,
		WSL:      enabler,
		SDK:      sdk,
		LogsDir:  logsDir,
		Logger:   logger,
		Reporter: noopReporter{},
	}
}

// Run executes the catalog and returns the aggregate report. It never returns
// an error: everything that can go wrong per item is folded into the tally.
func (s *Service) Run(ctx context.Context, cat catalog.Catalog) Report {
	reporter := s.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}

	var report Report

	if s.SkipWSL {
		s.Logger.Printf("wsl enablement skipped by flag")
	} else {
		reporter.Status("Enabling WSL 2...")
		report.WSL = s.WSL.Enable(ctx)
		if report.WSL.RestartRequired {
			report.RestartRequired = true
		}
		if report.WSL.Err != nil {
			s.Logger.Printf("wsl enablement: %v", report.WSL.Err)
		}
		s.Logger.Printf("wsl state=%s restart=%v", report.WSL.State, report.WSL.RestartRequired)
	}

	reporter.Status("Refreshing winget sources...")
	if err := s.Winget.UpdateSources(ctx); err != nil {
		// Stale sources degrade installs to warnings at worst.
		s.Logger.Printf("source update: %v", err)
	}

	total := cat.Attempts()
	index := 0

	record := func(res ItemResult) {
		report.Items = append(report.Items, res)
		if res.Outcome.Success() {
			report.Succeeded++
		} else {
			report.Failed++
		}
		reporter.ItemFinished(index, total, res)
		s.Logger.Printf("item %s (%s): %s", res.ID, res.Name, res.Outcome)
		if res.Err != nil {
			s.Logger.Printf("item %s error: %v", res.ID, res.Err)
		}
		index++
	}

	for _, pkg := range cat.Packages {
		reporter.ItemStarted(index, total, pkg.Name)
		record(s.installPackage(ctx, pkg, winget.InstallOptions{}))
	}

	reporter.ItemStarted(index, total, cat.IDESuite.Name)
	record(s.installSuite(ctx, cat.IDESuite))

	reporter.ItemStarted(index, total, cat.SDK.Name)
	record(s.installSDK(ctx, cat.SDK))

	for _, pkg := range cat.IDEPackages {
		reporter.ItemStarted(index, total, pkg.Name)
		record(s.installPackage(ctx, pkg, winget.InstallOptions{}))
	}

	return report
}

func (s *Service) installPackage(ctx context.Context, pkg catalog.Descriptor, opts winget.InstallOptions) ItemResult {
	logFile, err := s.openItemLog(pkg.ID)
	if err != nil {
		s.Logger.Printf("item log for %s: %v", pkg.ID, err)
	} else {
		opts.LogTo = logFile
		defer logFile.Close()
	}

	outcome := s.Winget.Install(ctx, pkg.ID, opts)
	return ItemResult{ID: pkg.ID, Name: pkg.Name, Outcome: outcome}
}

// installSuite tries the pinned version first. When that attempt does not
// succeed cleanly the current stable build is installed instead and the
// catalog note is surfaced.
func (s *Service) installSuite(ctx context.Context, suite catalog.Suite) ItemResult {
	if suite.PinnedVersion == "" {
		return s.installPackage(ctx, suite.Descriptor, winget.InstallOptions{})
	}

	res := s.installPackage(ctx, suite.Descriptor, winget.InstallOptions{Version: suite.PinnedVersion})
	if res.Outcome == winget.OutcomeSucceeded {
		return res
	}

	s.Logger.Printf("pinned version %s of %s unavailable, falling back to current stable", suite.PinnedVersion, suite.ID)
	res = s.installPackage(ctx, suite.Descriptor, winget.InstallOptions{})
	res.Note = suite.Note
	return res
}

func (s *Service) installSDK(ctx context.Context, sdk catalog.SDK) ItemResult {
	res := ItemResult{ID: sdk.Name, Name: sdk.Name, Outcome: winget.OutcomeSucceeded}
	if err := s.SDK.Install(ctx, sdk); err != nil {
		res.Outcome = winget.OutcomeFailed
		res.Err = err
	}
	return res
}

// openItemLog creates the per-item winget transcript under the staging logs
// dir, one file per package id.
func (s *Service) openItemLog(id string) (*os.File, error) {
	if s.LogsDir == "" {
		return nil, fmt.Errorf("no logs dir configured")
	}
	name := "install_" + sanitize(id) + ".log"
	return os.Create(filepath.Join(s.LogsDir, name))
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
