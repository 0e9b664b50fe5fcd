// Copyright © 2019 One Concern

package cmd

import (
	"bytes"
	"text/template"
	"time"

	"github.com/oneconcern/refmat/pkg/core"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a references config into its path table",
	Long: `Resolve a references config into its path table.

The path table lists, for every assembly, tag and artifact kind declared in
the references config, the canonical path of the artifact under the
references directory. Derived artifacts (chromosome sizes, aligner indexes,
annotation conversions) are listed next to the references they come from.

Resolution is purely declarative: no file is downloaded or touched.`,
	Example: `% refmat resolve --references refs.yaml
dm6:
  r6-11:
    bowtie2: /data/references/dm6/bowtie2/dm6_r6-11.1.bt2
    chromsizes: /data/references/dm6/fasta/dm6_r6-11.chromsizes
    fasta: /data/references/dm6/fasta/dm6_r6-11.fasta

% refmat resolve --references refs.yaml --format '{{.Kind}}:{{.Path}}'`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "resolve", err)
		}(time.Now())

		optionInputs := newCliOptionInputs(config, &refmatFlags)
		cfg, err := optionInputs.refsConfig()
		if err != nil {
			wrapFatalln("load references config", err)
			return
		}
		logger, err := optionInputs.getLogger()
		if err != nil {
			wrapFatalln("get logger", err)
			return
		}

		table, err := core.NewResolver(
			core.ResolverLogger(logger),
			core.ResolverWithMetrics(refmatFlags.root.metrics.IsEnabled()),
		).Resolve(cfg)
		if err != nil {
			wrapFatalln("resolve references", err)
			return
		}

		if refmatFlags.core.Template != "" {
			for _, entry := range table.Flatten() {
				var buf bytes.Buffer
				if err = listLineTemplate(refmatFlags).Execute(&buf, entry); err != nil {
					wrapFatalln("executing template", err)
					return
				}
				infoLogger.Println(buf.String())
			}
			return
		}

		o, err := yaml.Marshal(table)
		if err != nil {
			wrapFatalln("serialize path table to yaml", err)
			return
		}
		infoLogger.Print(string(o))
	},
}

// listLineTemplate renders one output row from the --format template
var listLineTemplate func(flagsT) *template.Template

func init() {
	addRefsFileFlag(resolveCmd)
	addTemplateFlag(resolveCmd)
	rootCmd.AddCommand(resolveCmd)

	listLineTemplate = func(opts flagsT) *template.Template {
		t, err := template.New("list line").Parse(opts.core.Template)
		if err != nil {
			wrapFatalln("invalid template", err)
		}
		return t
	}
}
