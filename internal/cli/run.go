package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rigup/internal/config"
	"rigup/internal/elevate"
	"rigup/internal/envpath"
	"rigup/internal/execx"
	"rigup/internal/fetch"
	"rigup/internal/flutter"
	"rigup/internal/logx"
	"rigup/internal/paths"
	"rigup/internal/provision"
	"rigup/internal/report"
	"rigup/internal/tui"
	"rigup/internal/winget"
	"rigup/internal/wsl"
	"rigup/pkg/catalog"
)

var (
	runCatalogFile string
	runNoProgress  bool
	runSkipWSL     bool
	runDryRun      bool
)

var isElevated = elevate.IsElevated
var wingetAvailable = winget.Available

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision the workstation from the catalog",
		RunE:  runRun,
	}

	cmd.Flags().StringVar(&runCatalogFile, "catalog", "", "Path to a catalog override file")
	cmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().BoolVar(&runSkipWSL, "skip-wsl", false, "Leave the WSL feature set untouched")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Show what a run would install without executing")

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(stagingDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	if stagingDir == "" && cfg.Staging.Dir != "" {
		if pp, err = paths.Resolve(cfg.Staging.Dir); err != nil {
			return err
		}
	}

	cat, err := resolveCatalog(cfg, runCatalogFile)
	if err != nil {
		return err
	}

	if runDryRun {
		return writePlan(cmd, cat)
	}

	// Everything past this point mutates the machine.
	if !isElevated() {
		return fmt.Errorf("administrative privileges are required; re-run from an elevated shell")
	}

	if err := pp.EnsureDirs(); err != nil {
		return err
	}
	fetch.SetTimeout(time.Duration(cfg.Downloads.TimeoutMinutes) * time.Minute)

	glog, gcloser, lerr := logx.New(pp, "run")
	if lerr != nil {
		glog = log.New(io.Discard, "", 0)
	}
	if gcloser != nil {
		defer gcloser.Close()
	}
	glog.Printf("run started, staging=%s", pp.Root)

	// Bootstrap gate: without the package manager nothing else can install.
	// After a successful bootstrap the operator re-runs from a fresh shell so
	// the new PATH is visible.
	if !wingetAvailable() {
		glog.Printf("winget not found, bootstrapping")
		if err := runBootstrapChain(ctx, cmd, pp, glog); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "winget installed. Open a new elevated shell and run `rigup run` again to provision the catalog.")
		return nil
	}

	runner := execx.CmdRunner{}
	client := winget.NewClient(runner)
	enabler := wsl.New(runner, pp.DownloadsDir, glog)

	store, storeErr := envpath.Machine()
	if storeErr != nil {
		glog.Printf("machine PATH store: %v", storeErr)
	}
	sdk := flutter.New(pp.DownloadsDir, store, glog)

	svc := provision.NewService(client, enabler, sdk, pp.LogsDir, glog)
	svc.SkipWSL = runSkipWSL
	// Phase updates from the sub-steps flow through whichever reporter is
	// active when they fire.
	enabler.Status = func(msg string) { svc.Reporter.Status(msg) }
	sdk.Status = func(msg string) { svc.Reporter.Status(msg) }

	var rep provision.Report
	switch tui.DetectMode(cmd.OutOrStdout(), runNoProgress, outputJSON) {
	case tui.ModeJSON:
		rep = svc.Run(ctx, cat)
		if err := report.RenderJSON(cmd.OutOrStdout(), rep); err != nil {
			return err
		}

	case tui.ModeTUI:
		model := newRunProgressModel(cat)
		err := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
			svc.Reporter = tui.NewInstallReporter(send)
			rep = svc.Run(ctx, cat)
		})
		if err != nil {
			return err
		}
		report.RenderSummary(cmd.OutOrStdout(), rep)

	default:
		status := tui.NewStatusWriter(cmd.ErrOrStderr())
		svc.Reporter = &statusReporter{status: status}
		rep = svc.Run(ctx, cat)
		status.Stop()
		report.Render(cmd.OutOrStdout(), rep)
	}

	glog.Printf("run finished: %d succeeded, %d failed, restart=%v", rep.Succeeded, rep.Failed, rep.RestartRequired)
	// Per-item failures are part of the report, not a process failure.
	return nil
}

func newRunProgressModel(cat catalog.Catalog) tui.ProgressModel {
	model := tui.NewProgressModel("provision", []tui.Column{
		{Header: "PACKAGE", Width: 24},
		{Header: "ID", Width: 28},
		{Header: "STATUS", Width: 24},
		{Header: "NOTE", Width: 40},
	})
	for i, item := range catalogItems(cat) {
		model.AddRow(tui.ItemKey(i), []string{item.Name, item.ID, "pending", ""})
	}
	return model
}

// catalogItems flattens the catalog into run order for display purposes.
func catalogItems(cat catalog.Catalog) []catalog.Descriptor {
	items := make([]catalog.Descriptor, 0, cat.Attempts())
	items = append(items, cat.Packages...)
	items = append(items, cat.IDESuite.Descriptor)
	items = append(items, catalog.Descriptor{ID: cat.SDK.Name, Name: cat.SDK.Name})
	items = append(items, cat.IDEPackages...)
	return items
}

// statusReporter renders plain-mode progress through the spinner line; the
// full table is printed once the run completes.
type statusReporter struct {
	status *tui.StatusWriter
}

func (r *statusReporter) Status(msg string) {
	r.status.Update(msg)
}

func (r *statusReporter) ItemStarted(index, total int, name string) {
	r.status.Update(fmt.Sprintf("Installing %s (%d/%d)...", name, index+1, total))
}

func (r *statusReporter) ItemFinished(int, int, provision.ItemResult) {}

func resolveCatalog(cfg config.Config, override string) (catalog.Catalog, error) {
	path := override
	if path == "" {
		path = cfg.Catalog.File
	}
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}
