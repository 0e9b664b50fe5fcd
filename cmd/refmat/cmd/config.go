package cmd

import (
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// envConfigLocation overrides the default refmat config file location
const envConfigLocation = "REFMAT_CONFIG"

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Credential string       `json:"credential,omitempty" yaml:"credential,omitempty"` // Credentials to use for GCS
	References string       `json:"references,omitempty" yaml:"references,omitempty"` // Default references config file
	Metrics    metricsFlags `json:"metrics,omitempty" yaml:"metrics,omitempty"`       // Metrics settings

	onceLogger sync.Once
	logger     *zap.Logger
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// MarshalConfig produces the yaml document for this config
func (c *CLIConfig) MarshalConfig() ([]byte, error) {
	return yaml.Marshal(c)
}

// setRefmatParams fills flags left unset from the config file
func (c *CLIConfig) setRefmatParams(flags *flagsT) {
	if flags.refs.File == "" {
		flags.refs.File = c.References
	}
	if flags.root.credFile == "" {
		flags.root.credFile = c.Credential
	}
	if !flags.root.metrics.IsEnabled() && c.Metrics.IsEnabled() {
		flags.root.metrics.Enabled = c.Metrics.Enabled
	}
	if flags.root.metrics.URL == "" {
		flags.root.metrics.URL = c.Metrics.URL
	}
}

// configFileLocation yields the location of the refmat config file. When
// expand is false, a display form with an unexpanded $HOME is returned.
func configFileLocation(expand bool) string {
	if location := os.Getenv(envConfigLocation); location != "" {
		return location
	}
	if !expand {
		return filepath.Join("$HOME", ".refmat", "refmat.yaml")
	}
	usr, err := user.Current()
	if usr == nil || err != nil {
		wrapFatalln("could not get home directory for user", err)
		return ""
	}
	return filepath.Join(usr.HomeDir, ".refmat", "refmat.yaml")
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the refmat config",
	Long: `Commands to manage the refmat CLI config.

Configuration for refmat is the common set of flags that are needed for most commands and do not change across runs,
analogous to "git config ...". `,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
