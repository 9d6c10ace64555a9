package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snatcher",
	Short: "snatcher keeps track of releases sent to download clients",
	Long:  `snatcher keeps track of releases sent to download clients and moves them through their lifecycle`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
}

const (
	defaultCheckSnatched = time.Minute
	defaultCleanDone     = time.Hour * 4
	defaultAge           = time.Hour * 24 * 7
)

func initConfig() {
	viper.SetConfigFile(cfgFile)

	viper.SetEnvPrefix("SNATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	viper.SetDefault("storage.filePath", "snatcher.sqlite")

	viper.SetDefault("server.port", 8080)

	viper.SetDefault("library.enabled", false)
	viper.SetDefault("library.incoming", "")
	viper.SetDefault("library.movie", "")
	viper.SetDefault("library.fileAction", "move")

	viper.SetDefault("manager.nextOnFailed", true)
	viper.SetDefault("manager.checkSnatched", defaultCheckSnatched)
	viper.SetDefault("manager.cleanDone", defaultCleanDone)
	viper.SetDefault("manager.cleanDoneAge", defaultAge)
	viper.SetDefault("manager.missingTimeout", defaultAge)
	viper.SetDefault("manager.lockFile", "")

	viper.SetDefault("notify.nats.url", "")
	viper.SetDefault("notify.nats.name", "snatcher")
}
