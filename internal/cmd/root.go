package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/lightgit/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "lightgit",
	Short: "Show the git branch of the file you are editing",
	Long: `lightgit follows the file selected in a light, project-less editing
session and reports the git location (branch, or abbreviated commit for a
detached HEAD) of the directory containing it.

Lookups run in the background. Rapid selections are coalesced so only the
latest file is resolved, and a failed lookup simply shows no location.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/lightgit/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "write debug logs regardless of logging.enabled")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/lightgit")
	}

	// e.g., LIGHTGIT_GIT_EXECUTABLE for git.executable
	config.BindEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
