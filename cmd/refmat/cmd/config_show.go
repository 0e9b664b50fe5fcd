package cmd

import (
	"github.com/spf13/cobra"
)

var configShow = &cobra.Command{
	Use:   "show",
	Short: "Show the current config",
	Long: `Show the current config, as merged from the config file and the environment.

Flags passed on the command line are not reflected here.`,
	Example: `% refmat config show
credential: /home/fly/.config/gcloud/application_default_credentials.json
references: /etc/refmat/refs.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		o, err := config.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}
		infoLogger.Print(string(o))
	},
}

func init() {
	configCmd.AddCommand(configShow)
}
