// Copyright © 2018 One Concern

package cmd

import (
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "refmat",
	Short: "Refmat materializes reference genome artifacts",
	Long: `Refmat materializes reference genome artifacts from a declarative configuration.

A references config declares, per genome assembly and release tag, where the
reference data comes from (http, gs, s3 or local files) and how the downloads
are assembled into the final artifact.

Refmat resolves that configuration into a table of canonical paths under the
references directory, then downloads and postprocesses artifacts on demand.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if refmatFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
		initMetrics()
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if refmatFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wrapFatalWithCodef(1, "%v", err)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevel(rootCmd)
	addCPUProfFlag(rootCmd)
	addMetricsFlag(rootCmd)
	addMetricsURLFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv(envConfigLocation) != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv(envConfigLocation))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.refmat")
		viper.AddConfigPath("/etc/refmat")
		viper.SetConfigName("refmat")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setRefmatParams(&refmatFlags)
	if config.Credential != "" {
		// Always pick the config file. There can be a duplicate bucket name in a different project, avoid wrong environment
		// variable from dev testing from screwing things up..
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
}
