package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/models"
)

var (
	importStrategy  string
	importPreserve  bool
	importCompress  bool
	importOverwrite bool
	importFailFast  bool
	importMediaType string
	importMeta      []string
	importIgnore    []string
	importTrack     bool
)

var importCmd = &cobra.Command{
	Use:   "import CONTAINER SOURCE...",
	Short: "Embed files, directories or archives into a container",
	Long: `Import sources into an SVG container. A source is a single file, a
directory (walked recursively, common build artifacts ignored), or a
zip archive.

Examples:
  svgg import bundle.svg README.md logo.png
  svgg import bundle.svg ./docs --preserve-structure --strategy nested
  svgg import bundle.svg release.zip --compress --overwrite`,
	Args: cobra.MinimumNArgs(2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importStrategy, "strategy", "", "merge strategy: flat, nested, by-source (default preserves relative paths)")
	importCmd.Flags().BoolVar(&importPreserve, "preserve-structure", false, "record the directory tree of imported sources")
	importCmd.Flags().BoolVar(&importCompress, "compress", false, "deflate payloads before embedding")
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "replace entries at existing paths")
	importCmd.Flags().BoolVar(&importFailFast, "fail-fast", false, "abort on the first failed file, writing nothing")
	importCmd.Flags().StringVar(&importMediaType, "type", "", "override media type inference (single-file imports)")
	importCmd.Flags().StringArrayVar(&importMeta, "meta", nil, "metadata to merge, key=value (repeatable)")
	importCmd.Flags().StringSliceVar(&importIgnore, "ignore", nil, "extra ignore patterns for directory imports")
	importCmd.Flags().BoolVar(&importTrack, "track", false, "record this operation in the container changelog")
}

func runImport(cmd *cobra.Command, args []string) error {
	containerPath := args[0]
	svc := newService()
	if importTrack {
		svc.StartTracking()
	}

	strategy, err := structure.ParseMergeStrategy(importStrategy)
	if err != nil {
		return err
	}

	meta, err := parseMetaFlags(importMeta)
	if err != nil {
		return err
	}

	sources, err := buildSources(args[1:])
	if err != nil {
		return err
	}

	opts := operations.ImportOptions{
		Strategy:          strategy,
		PreserveStructure: importPreserve || cfg.Import.PreserveStructure,
		Compress:          importCompress || cfg.Import.Compress,
		Overwrite:         importOverwrite,
		FailFast:          importFailFast,
		MediaType:         importMediaType,
		Metadata:          meta,
	}

	result, err := svc.Import(cmd.Context(), containerPath, sources, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case models.OutcomeAdded, models.OutcomeOverwritten:
			fmt.Printf("  + %s (%d bytes, %s)\n", outcome.Path, outcome.Size, outcome.Status)
		case models.OutcomeSkippedDuplicate:
			fmt.Printf("  = %s (skipped, already embedded)\n", outcome.Path)
		case models.OutcomeFailed:
			fmt.Printf("  ✗ %s: %s\n", outcome.Path, outcome.Error)
		}
	}
	fmt.Printf("✓ Imported %d file(s) into %s (%d skipped, %d failed)\n",
		result.Added, containerPath, result.Skipped, result.Failed)

	if importTrack {
		if err := svc.PersistChangelog(containerPath); err != nil {
			return fmt.Errorf("persist changelog: %w", err)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

// buildSources maps CLI source arguments to import sources: a
// directory walks recursively, a .zip expands its members, anything
// else imports as a single file.
func buildSources(paths []string) ([]operations.Source, error) {
	ignore := operations.NewIgnoreList(append(cfg.Import.IgnorePatterns, importIgnore...))

	var sources []operations.Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", p, err)
		}
		switch {
		case info.IsDir():
			sources = append(sources, operations.DirectorySource{Path: p, Ignore: ignore})
		case strings.HasSuffix(strings.ToLower(p), ".zip"):
			sources = append(sources, operations.ZipSource{Path: p})
		default:
			sources = append(sources, operations.FileSource{Path: p})
		}
	}
	return sources, nil
}

// parseMetaFlags parses repeated key=value metadata flags.
func parseMetaFlags(pairs []string) (models.Metadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := models.Metadata{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta %q, expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}
