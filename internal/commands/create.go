package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createTemplate string

var createCmd = &cobra.Command{
	Use:   "create CONTAINER",
	Short: "Create a fresh SVG container document",
	Long: `Create a new host SVG ready to receive embedded files.

Without --template a minimal placeholder image is generated. With
--template the given SVG is copied as the host image; it must be a
well-formed SVG document.

Examples:
  svgg create bundle.svg
  svgg create bundle.svg --template logo.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTemplate, "template", "", "SVG file to use as the host image")
}

func runCreate(cmd *cobra.Command, args []string) error {
	svc := newService()

	if err := svc.Create(args[0], createTemplate); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	fmt.Printf("✓ Created %s\n", args[0])
	return nil
}
