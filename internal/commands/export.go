package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/internal/operations"
)

var (
	exportOutput   string
	exportZip      string
	exportRemove   bool
	exportFailFast bool
	exportTrack    bool
)

var exportCmd = &cobra.Command{
	Use:   "export CONTAINER [PATTERN...]",
	Short: "Extract embedded files from a container",
	Long: `Export embedded files to a directory or zip archive. Patterns are
exact logical paths or globs ("*.png", "docs/*"); with no pattern
every entry is exported.

--remove deletes each entry from the container after its bytes were
written, turning export into a move.

Examples:
  svgg export bundle.svg --output ./out
  svgg export bundle.svg "*.md" --output ./docs
  svgg export bundle.svg --zip extracted.zip --remove`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "destination directory")
	exportCmd.Flags().StringVar(&exportZip, "zip", "", "write entries into a zip archive instead of a directory")
	exportCmd.Flags().BoolVar(&exportRemove, "remove", false, "remove entries from the container after export")
	exportCmd.Flags().BoolVar(&exportFailFast, "fail-fast", false, "abort on the first failed entry, removing nothing")
	exportCmd.Flags().BoolVar(&exportTrack, "track", false, "record this operation in the container changelog")
}

func runExport(cmd *cobra.Command, args []string) error {
	containerPath := args[0]
	selector := args[1:]

	svc := newService()
	if exportTrack {
		svc.StartTracking()
	}

	var sink operations.Sink
	if exportZip != "" {
		zipSink, err := operations.NewZipSink(exportZip)
		if err != nil {
			return err
		}
		sink = zipSink
	} else {
		sink = operations.DirectorySink{Root: exportOutput}
	}

	result, err := svc.Export(cmd.Context(), containerPath, selector, sink, operations.ExportOptions{
		Remove:   exportRemove,
		FailFast: exportFailFast,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, file := range result.Files {
		switch {
		case file.Error != "":
			fmt.Printf("  ✗ %s: %s\n", file.Path, file.Error)
		case file.Removed:
			fmt.Printf("  → %s (%d bytes, removed from container)\n", file.Path, file.Size)
		default:
			fmt.Printf("  → %s (%d bytes)\n", file.Path, file.Size)
		}
	}
	fmt.Printf("✓ Exported %d file(s) from %s (%d failed)\n",
		result.Exported, containerPath, result.Failed)

	if exportTrack {
		if err := svc.PersistChangelog(containerPath); err != nil {
			return fmt.Errorf("persist changelog: %w", err)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}
