package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/internal/changelog"
)

var changelogFormat string

var changelogCmd = &cobra.Command{
	Use:   "changelog CONTAINER",
	Short: "Render the change history of a container",
	Long: `Render the changelog persisted inside a container. Operations run
with --track append to this history; the log itself is append-only.

Examples:
  svgg changelog bundle.svg
  svgg changelog bundle.svg --format json
  svgg changelog bundle.svg --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runChangelog,
}

func init() {
	changelogCmd.Flags().StringVar(&changelogFormat, "format", "markdown", "output format: markdown, json, xml, yaml")
}

func runChangelog(cmd *cobra.Command, args []string) error {
	format, err := changelog.ParseFormat(changelogFormat)
	if err != nil {
		return err
	}

	rendered, err := newService().RenderPersistedChangelog(args[0], format)
	if err != nil {
		return fmt.Errorf("changelog failed: %w", err)
	}

	fmt.Print(string(rendered))
	return nil
}
