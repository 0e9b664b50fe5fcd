package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:     "create",
	Aliases: []string{"set"},
	Short:   "Create a local config file",
	Long: `Creates a local config file and sets the config values to use for refmat to hold flags that do not change across runs,
like the references config location or the credential file.

	By default, this configuration file will be placed in ` + configFileLocation(false) + `.

	Use the ` + envConfigLocation + ` environment variable to change this default target.
	`,
	Example: `# Record the references config to use by default
% refmat config create --references /etc/refmat/refs.yaml
config file created in /home/fly/.refmat/refmat.yaml

# Record the path to a gcloud credential file (use absolute path here)
% refmat config create --credential /home/fly/.config/gcloud/application_default_credentials.json
config file created in /home/fly/.refmat/refmat.yaml

# Generate config in some non-default location
% ` + envConfigLocation + `=~/.config/.refmat/config.yaml refmat config create --references refs.yaml
config file created in /home/fly/.config/.refmat/config.yaml
`,
	Run: func(cmd *cobra.Command, args []string) {
		localConfig := CLIConfig{
			Credential: refmatFlags.root.credFile,
			References: refmatFlags.refs.File,
			Metrics:    refmatFlags.root.metrics,
		}

		file := configFileLocation(true)

		if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
			infoLogger.Printf("warning: the generated config file will contain a yaml document, but the file extension is %q", ext)
		}
		o, err := localConfig.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}

		err = os.Mkdir(filepath.Dir(file), 0777)
		if err != nil && !os.IsExist(err) {
			wrapFatalln("could not create directory to hold config "+filepath.Dir(file), err)
			return
		}

		err = ioutil.WriteFile(file, o, 0600)
		if err != nil {
			wrapFatalln("error writing config file "+file, err)
			return
		}

		infoLogger.Printf("config file created in %s", file)
	},
}

func init() {
	addCredentialFile(configGen)
	addRefsFileFlag(configGen)
	configCmd.AddCommand(configGen)
}
