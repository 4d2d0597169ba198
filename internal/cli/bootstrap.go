package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"rigup/internal/bootstrap"
	"rigup/internal/logx"
	"rigup/internal/paths"
	"rigup/internal/tui"
)

func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Install the winget package manager",
		RunE:  runBootstrap,
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !isElevated() {
		return fmt.Errorf("administrative privileges are required; re-run from an elevated shell")
	}

	if wingetAvailable() {
		fmt.Fprintln(cmd.OutOrStdout(), "winget is already available; nothing to do.")
		return nil
	}

	pp, err := paths.Resolve(stagingDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureDirs(); err != nil {
		return err
	}

	glog, gcloser, lerr := logx.New(pp, "bootstrap")
	if lerr != nil {
		glog = log.New(io.Discard, "", 0)
	}
	if gcloser != nil {
		defer gcloser.Close()
	}

	if err := runBootstrapChain(ctx, cmd, pp, glog); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "winget installed. Open a new elevated shell for it to appear on PATH.")
	return nil
}

// runBootstrapChain drives the artifact chain with a spinner for feedback. A
// failure anywhere in the chain is fatal to the command.
func runBootstrapChain(ctx context.Context, cmd *cobra.Command, pp paths.StagingPaths, glog *log.Logger) error {
	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	defer status.Stop()

	b := bootstrap.New(nil, pp.DownloadsDir, glog)
	b.Status = status.Update
	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("winget bootstrap: %w", err)
	}
	glog.Printf("bootstrap chain complete")
	return nil
}
