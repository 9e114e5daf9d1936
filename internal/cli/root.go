package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacx-labs/stacx/internal/branding"
	"github.com/stacx-labs/stacx/internal/config"
	"github.com/stacx-labs/stacx/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads STAC Items, manages the extensions they declare, edits
projection extension fields and validates the result against the STAC
and extension JSON schemas.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logging.Setup(cmd.ErrOrStderr(), viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat))
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
