package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var excludeTrack bool

var excludeCmd = &cobra.Command{
	Use:   "exclude CONTAINER NAME...",
	Short: "Remove embedded files without extracting them",
	Long: `Remove entries from a container by logical path. The bytes are
discarded, not written anywhere. All names are checked first: one
missing name fails the whole command and the container is left
untouched.

Examples:
  svgg exclude bundle.svg secrets.env
  svgg exclude bundle.svg "docs/draft.md" notes.txt --track`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExclude,
}

func init() {
	excludeCmd.Flags().BoolVar(&excludeTrack, "track", false, "record this operation in the container changelog")
}

func runExclude(cmd *cobra.Command, args []string) error {
	containerPath := args[0]
	svc := newService()
	if excludeTrack {
		svc.StartTracking()
	}

	result, err := svc.Exclude(containerPath, args[1:])
	if err != nil {
		return fmt.Errorf("exclude failed: %w", err)
	}

	for _, name := range result.Removed {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Printf("✓ Removed %d file(s) from %s\n", len(result.Removed), containerPath)

	if excludeTrack {
		if err := svc.PersistChangelog(containerPath); err != nil {
			return fmt.Errorf("persist changelog: %w", err)
		}
	}
	return nil
}
