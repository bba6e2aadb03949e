package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"evalgo.org/svgg/internal/config"
	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/version"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "svgg",
	Short: "Embed arbitrary files inside SVG documents",
	Long: `svgg turns any SVG into a self-describing container: import files,
directories or archives into it, list and verify what is embedded,
extract files back out, and track every change in a changelog.

The host image keeps rendering normally; the embedded files travel
with it as a single portable document.`,
	Version: version.Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, text)")

	// These should never fail as flags are defined above
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))   //nolint:errcheck
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format")) //nolint:errcheck

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
}

// newLogger builds the process logger from the logging config
// section.
func newLogger(lc config.LoggingConfig) *log.Logger {
	opts := log.Options{ReportTimestamp: true}
	if strings.EqualFold(lc.Format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	l := log.NewWithOptions(os.Stderr, opts)
	if lvl, err := log.ParseLevel(lc.Level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// newService builds the operation service shared by all verbs.
func newService() *operations.Service {
	return operations.New(cfg, logger)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Println(info.String())

		if cmd.Flag("verbose").Changed {
			fmt.Printf("\nDetails:\n")
			fmt.Printf("  Version:    %s\n", info.Version)
			fmt.Printf("  Git Commit: %s\n", info.GitCommit)
			fmt.Printf("  Built:      %s\n", info.BuildTime)
			fmt.Printf("  Go Version: %s\n", info.GoVersion)
			fmt.Printf("  Platform:   %s\n", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "verbose version output")
}
