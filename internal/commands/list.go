package commands

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/models"
)

var (
	listType    string
	listPattern string
	listVerify  bool
	listJSON    bool
	listReport  bool
)

var listCmd = &cobra.Command{
	Use:   "list CONTAINER...",
	Short: "List the files embedded in a container",
	Long: `List embedded files with their size, media type and checksum.

--verify decodes every payload and checks it against the recorded
checksum. --report prints a full text report including the host
image dimensions and metadata. With several containers the integrity
check runs over all of them in parallel.

Examples:
  svgg list bundle.svg
  svgg list bundle.svg --type image/ --verify
  svgg list bundle.svg --report
  svgg list *.svg --verify`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "filter by media type (\"image/\" matches all images)")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "filter by path glob")
	listCmd.Flags().BoolVar(&listVerify, "verify", false, "decode payloads and verify checksums")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "machine-readable JSON output")
	listCmd.Flags().BoolVar(&listReport, "report", false, "full text report with host and metadata details")
}

func runList(cmd *cobra.Command, args []string) error {
	svc := newService()

	if len(args) > 1 {
		return runBatchVerify(cmd, svc, args)
	}

	containerPath := args[0]
	filter := operations.ListFilter{
		MediaType: listType,
		Pattern:   listPattern,
		Verify:    listVerify || listReport,
	}

	entries, err := svc.List(containerPath, filter)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if listReport {
		meta, err := svc.Metadata(containerPath)
		if err != nil {
			return err
		}
		return printReport(containerPath, entries, meta)
	}

	printEntryTable(entries)
	return nil
}

// runBatchVerify checks the integrity of several containers in
// parallel and prints one line per container.
func runBatchVerify(cmd *cobra.Command, svc *operations.Service, paths []string) error {
	results := svc.RunBatch(cmd.Context(), paths, func(ctx context.Context, containerPath string) error {
		entries, err := svc.List(containerPath, operations.ListFilter{Verify: true})
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Verified != nil && !*e.Verified {
				return fmt.Errorf("entry %s failed verification", e.Path)
			}
		}
		return nil
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", r.Container, r.Err)
		} else {
			fmt.Printf("✓ %s\n", r.Container)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d container(s) failed verification", failed)
	}
	return nil
}

// printEntryTable prints the aligned listing used by the plain list
// output.
func printEntryTable(entries []models.EntryInfo) {
	if len(entries) == 0 {
		fmt.Println("No embedded files.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSIZE\tTYPE\tENCODING\tADDED")
	for _, e := range entries {
		added := e.AddedAt.Format("2006-01-02 15:04")
		line := fmt.Sprintf("%s\t%d\t%s\t%s\t%s", e.Path, e.Size, e.MediaType, e.Encoding, added)
		if e.Verified != nil {
			if *e.Verified {
				line += "\t✓"
			} else {
				line += "\t✗ corrupt"
			}
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

// printReport prints the full container report: host document
// details, embedded file table, metadata summary.
func printReport(containerPath string, entries []models.EntryInfo, meta models.Metadata) error {
	info, err := os.Stat(containerPath)
	if err != nil {
		return err
	}

	fmt.Printf("Container: %s\n", containerPath)
	fmt.Printf("Document size: %d bytes\n", info.Size())
	if width, height := hostDimensions(containerPath); width != "" || height != "" {
		fmt.Printf("Host image: %s × %s\n", width, height)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}
	fmt.Printf("Embedded files: %d (%d bytes raw)\n\n", len(entries), total)

	printEntryTable(entries)

	if len(meta) > 0 {
		fmt.Println("\nMetadata:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, key := range sortedKeys(meta) {
			if key == models.MetaStructure || key == models.MetaChangelog {
				continue
			}
			fmt.Fprintf(w, "  %s\t%v\n", key, meta[key])
		}
		w.Flush()
	}
	return nil
}

// hostDimensions reads the width/height attributes of the root
// element, best effort.
func hostDimensions(containerPath string) (width, height string) {
	f, err := os.Open(containerPath)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "width":
					width = a.Value
				case "height":
					height = a.Value
				}
			}
			return width, height
		}
	}
}

func sortedKeys(meta models.Metadata) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
