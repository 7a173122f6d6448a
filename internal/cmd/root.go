// Package cmd implements the obsup command-line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noaccident/obsup/internal/config"
	"github.com/noaccident/obsup/internal/observability"
)

var (
	cfgFile  string
	logLevel string

	// cfg is resolved once in the persistent pre-run and shared by
	// subcommands.
	cfg *config.Config
)

type buildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var versionInfo = buildInfo{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata injected via -ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "obsup",
	Short: "Upload objects to OBS-style object storage",
	Long: `obsup signs and uploads objects to an OBS-compatible object storage
service, retrying transient failures with exponential backoff.

Credentials come from the environment (OBSUP_CONNECTION_ACCESS_KEY,
OBSUP_CONNECTION_SECRET_KEY, optionally OBSUP_CONNECTION_SECURITY_TOKEN)
or an obsup.yaml config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		return observability.InitCLILogger(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ./obsup.yaml, ~/.obsup/obsup.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
}

// Execute runs the root command.
func Execute() error {
	defer observability.Sync()
	return rootCmd.Execute()
}
