package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/svgg/models"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Inspect and edit container metadata",
	Long: `Read or mutate the metadata block of a container. The managed keys
(generator, version, files_count, last_modified, structure,
changelog) cannot be set or removed; they are recomputed on every
mutation.`,
}

var metadataShowCmd = &cobra.Command{
	Use:   "show CONTAINER",
	Short: "Print the metadata mapping as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := newService().Metadata(args[0])
		if err != nil {
			return err
		}
		return printMetadata(meta)
	},
}

var metadataUpdateCmd = &cobra.Command{
	Use:   "update CONTAINER KEY=VALUE...",
	Short: "Merge key=value pairs into the metadata",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseMetaFlags(args[1:])
		if err != nil {
			return err
		}
		result, err := newService().UpdateMetadata(args[0], values)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Updated metadata of %s\n", args[0])
		return printMetadata(result.Metadata)
	},
}

var metadataRemoveCmd = &cobra.Command{
	Use:   "remove CONTAINER KEY...",
	Short: "Delete keys from the metadata",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newService().RemoveMetadata(args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Removed %d key(s) from %s\n", len(args)-1, args[0])
		return printMetadata(result.Metadata)
	},
}

var metadataCleanCmd = &cobra.Command{
	Use:   "clean CONTAINER",
	Short: "Keep only title, description and creator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newService().CleanMetadata(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Cleaned metadata of %s\n", args[0])
		return printMetadata(result.Metadata)
	},
}

var metadataClearCmd = &cobra.Command{
	Use:   "clear CONTAINER",
	Short: "Remove all caller-supplied metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newService().ClearMetadata(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Cleared metadata of %s\n", args[0])
		return printMetadata(result.Metadata)
	},
}

func init() {
	metadataCmd.AddCommand(metadataShowCmd)
	metadataCmd.AddCommand(metadataUpdateCmd)
	metadataCmd.AddCommand(metadataRemoveCmd)
	metadataCmd.AddCommand(metadataCleanCmd)
	metadataCmd.AddCommand(metadataClearCmd)
}

func printMetadata(meta models.Metadata) error {
	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
