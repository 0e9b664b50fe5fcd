// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/oneconcern/refmat/pkg/dlogger"
	"github.com/oneconcern/refmat/pkg/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type flagsT struct {
	refs struct {
		File     string
		Assembly string
		Tag      string
		Type     string
		Output   string
	}
	core struct {
		Template string
	}
	root struct {
		credFile string
		logLevel string
		cpuProf  bool
		metrics  metricsFlags
	}
	doc struct {
		docTarget string
	}
}

var refmatFlags = flagsT{}

func addRefsFileFlag(cmd *cobra.Command) string {
	references := "references"
	if cmd != nil {
		cmd.Flags().StringVar(&refmatFlags.refs.File, references, "",
			"The path to the references config file (yaml). Defaults to the references entry of the refmat config")
	}
	return references
}

func addAssemblyFlag(cmd *cobra.Command) string {
	assembly := "assembly"
	if cmd != nil {
		cmd.Flags().StringVar(&refmatFlags.refs.Assembly, assembly, "", "The genome assembly of the reference (e.g. dm6)")
	}
	return assembly
}

func addTagFlag(cmd *cobra.Command) string {
	tag := "tag"
	if cmd != nil {
		cmd.Flags().StringVar(&refmatFlags.refs.Tag, tag, model.DefaultTag,
			"The release tag of the reference within its assembly")
	}
	return tag
}

func addTypeFlag(cmd *cobra.Command) string {
	typeFlag := "type"
	if cmd != nil {
		cmd.Flags().StringVar(&refmatFlags.refs.Type, typeFlag, "",
			"The type of the reference (fasta, gtf, ...). When set, the selected block must declare that type")
	}
	return typeFlag
}

func addOutputFlag(cmd *cobra.Command) string {
	output := "output"
	if cmd != nil {
		cmd.Flags().StringVar(&refmatFlags.refs.Output, output, "",
			"The path of the artifact to materialize, as listed by refmat resolve")
	}
	return output
}

func addTemplateFlag(cmd *cobra.Command) string {
	c := "format"
	cmd.PersistentFlags().StringVar(&refmatFlags.core.Template, c, "", `Pretty-print refmat objects using a Go template. Use '{{ printf "%#v" . }}' to explore available fields`)
	return c
}

func addCredentialFile(cmd *cobra.Command) string {
	credential := "credential"
	cmd.Flags().StringVar(&refmatFlags.root.credFile, credential, "", "The path to the credential file")
	return credential
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&refmatFlags.root.logLevel, loglevel, "info", "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addCPUProfFlag(cmd *cobra.Command) string {
	c := "cpuprof"
	cmd.PersistentFlags().BoolVar(&refmatFlags.root.cpuProf, c, false, "Toggle runtime profiling")
	return c
}

func addMetricsFlag(cmd *cobra.Command) string {
	c := "metrics"
	defaultMetrics := false
	refmatFlags.root.metrics.Enabled = &defaultMetrics
	cmd.PersistentFlags().BoolVar(refmatFlags.root.metrics.Enabled, c, defaultMetrics, `Toggle telemetry and metrics collection`)
	return c
}

func addMetricsURLFlag(cmd *cobra.Command) string {
	c := "metrics-url"
	cmd.PersistentFlags().StringVar(&refmatFlags.root.metrics.URL, c, "", `Fully qualified URL to an influxdb metrics collector, with optional user and password`)
	return c
}

func addTargetFlag(cmd *cobra.Command) string {
	c := "target-dir"
	cmd.Flags().StringVar(&refmatFlags.doc.docTarget, c, ".", "The target directory where to generate the markdown documentation")
	return c
}

/** combined config (file + env var) and parameters (pflags) */

type cliOptionInputs struct {
	config *CLIConfig
	params *flagsT
}

func newCliOptionInputs(config *CLIConfig, params *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		params: params,
	}
}

// refsConfig loads and validates the references config pointed at by flags or
// by the refmat config file.
func (in *cliOptionInputs) refsConfig() (*model.RefsConfig, error) {
	location := in.params.refs.File
	if location == "" {
		return nil, fmt.Errorf("set the --%s flag or the references entry in the refmat config file", addRefsFileFlag(nil))
	}
	b, err := ioutil.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read references config: %w", err)
	}
	var cfg model.RefsConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse references config %s: %w", location, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid references config %s: %w", location, err)
	}
	return &cfg, nil
}

func (in *cliOptionInputs) getLogger() (*zap.Logger, error) {
	var err error
	in.config.onceLogger.Do(func() {
		in.config.logger, err = dlogger.GetLogger(in.params.root.logLevel)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set log level: %v", err)
	}
	return in.config.logger, nil
}

// credentials resolves the credential file to use for cloud backends
func (in *cliOptionInputs) credentials() string {
	switch {
	case in.params.root.credFile != "":
		return in.params.root.credFile
	default:
		return in.config.Credential
	}
}
