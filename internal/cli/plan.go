package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rigup/internal/config"
	"rigup/internal/paths"
	"rigup/pkg/catalog"
)

var planCatalogFile string

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a provisioning run would install",
		RunE:  runPlan,
	}

	cmd.Flags().StringVar(&planCatalogFile, "catalog", "", "Path to a catalog override file")

	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(stagingDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	cat, err := resolveCatalog(cfg, planCatalogFile)
	if err != nil {
		return err
	}
	return writePlan(cmd, cat)
}

type planStep struct {
	Step   int    `json:"step"`
	Type   string `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

// planSteps flattens the catalog into the exact order a run executes.
func planSteps(cat catalog.Catalog) []planStep {
	steps := make([]planStep, 0, cat.Attempts())
	add := func(typ, id, name, detail string) {
		steps = append(steps, planStep{Step: len(steps) + 1, Type: typ, ID: id, Name: name, Detail: detail})
	}

	for _, pkg := range cat.Packages {
		add("package", pkg.ID, pkg.Name, "")
	}

	detail := ""
	if cat.IDESuite.PinnedVersion != "" {
		detail = "pinned " + cat.IDESuite.PinnedVersion
	}
	add("ide-suite", cat.IDESuite.ID, cat.IDESuite.Name, detail)

	add("sdk", cat.SDK.Name, cat.SDK.Name, "extract to "+cat.SDK.Root)

	for _, pkg := range cat.IDEPackages {
		add("ide-package", pkg.ID, pkg.Name, "")
	}
	return steps
}

func writePlan(cmd *cobra.Command, cat catalog.Catalog) error {
	steps := planSteps(cat)

	if outputJSON {
		payload := struct {
			Steps    []planStep `json:"steps"`
			Attempts int        `json:"attempts"`
		}{Steps: steps, Attempts: cat.Attempts()}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTYPE\tID\tNAME\tDETAIL")
	for _, s := range steps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.Step, s.Type, s.ID, s.Name, s.Detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d install steps.\n", cat.Attempts())
	return nil
}
