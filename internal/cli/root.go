package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	stagingDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rigup",
		Short: "Unattended developer workstation provisioning",
	}

	cmd.PersistentFlags().StringVar(&stagingDir, "staging", "", "Path to staging directory for downloads and logs")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newBootstrapCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}
