package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/internal/integrity"
)

var (
	auditRepair bool
	auditDryRun bool
	auditForce  bool
	auditJSON   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit CONTAINER...",
	Short: "Check containers for integrity problems",
	Long: `Audit one or more containers: verify every payload against its
checksum, check the metadata counters against the entry set, validate
the structure tree and report content stored under multiple paths.

With --repair the derived state (counters, structure tree) is rebuilt
from the entries. Corrupt entries are only removed with --force, as
that is the one repair that loses data. --dry-run prints the repair
plan without touching anything.

Examples:
  svgg audit bundle.svg
  svgg audit *.svg --json
  svgg audit bundle.svg --repair --dry-run
  svgg audit bundle.svg --repair --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditRepair, "repair", false, "fix repairable issues and rewrite the container")
	auditCmd.Flags().BoolVar(&auditDryRun, "dry-run", false, "print the repair plan without applying it")
	auditCmd.Flags().BoolVar(&auditForce, "force", false, "also remove entries with corrupt payloads")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print the report as JSON")
}

func runAudit(cmd *cobra.Command, args []string) error {
	svc := newService()

	report := svc.Audit(cmd.Context(), args)

	if auditJSON && !auditRepair {
		return printJSON(report)
	}

	if !auditJSON {
		printAuditReport(report)
	}

	if !auditRepair {
		if len(report.Issues) > 0 || len(report.Errors) > 0 {
			return fmt.Errorf("audit found %d issue(s)", len(report.Issues)+len(report.Errors))
		}
		return nil
	}

	opts := integrity.RepairOptions{DryRun: auditDryRun, Force: auditForce}
	for _, containerPath := range args {
		if len(report.IssuesFor(containerPath)) == 0 {
			continue
		}
		actions, err := svc.Repair(containerPath, opts)
		if err != nil {
			return fmt.Errorf("repair %s: %w", containerPath, err)
		}
		printRepairActions(containerPath, actions)
	}
	return nil
}

func printAuditReport(report *integrity.Report) {
	fmt.Printf("Audited %d container(s), %d entr%s\n",
		report.Containers, report.Entries, pluralSuffix(report.Entries))

	for _, issue := range report.Issues {
		fmt.Printf("  ✗ [%s] %s: %s\n", issue.Severity, issue.Container, issue.Detail)
		for _, p := range issue.Paths {
			fmt.Printf("      %s\n", p)
		}
	}
	for containerPath, msg := range report.Errors {
		fmt.Printf("  ✗ %s: %s\n", containerPath, msg)
	}

	if len(report.Issues) == 0 && len(report.Errors) == 0 {
		fmt.Println("✓ No issues found")
	}
	fmt.Printf("Health score: %d/100\n", report.HealthScore)
}

func printRepairActions(containerPath string, actions []integrity.RepairAction) {
	for _, a := range actions {
		symbol := "✓"
		if !a.Applied {
			symbol = "-"
		}
		fmt.Printf("%s %s: %s\n", symbol, containerPath, a.Detail)
		for _, p := range a.Paths {
			fmt.Printf("      %s\n", p)
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralSuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
