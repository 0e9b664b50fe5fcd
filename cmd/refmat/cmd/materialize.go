// Copyright © 2019 One Concern

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oneconcern/refmat/pkg/core"
	"github.com/oneconcern/refmat/pkg/fetch"
	"github.com/oneconcern/refmat/pkg/model"

	"github.com/spf13/cobra"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Download and postprocess one reference artifact",
	Long: `Download and postprocess one reference artifact.

The reference is picked either by its coordinates (--assembly and --tag) or
by the path of the artifact to produce (--output), as listed by refmat
resolve. All source URLs of the reference block are downloaded next to the
artifact, then the declared postprocess function assembles them into the
final artifact. Temporary downloads are cleaned up whatever the outcome, and
a fetch transcript is kept next to the artifact, covering the latest run.

Failed downloads do not abort the run: the postprocess function decides what
to do with the inputs it finds missing.`,
	Example: `% refmat materialize --references refs.yaml --assembly dm6 --tag r6-11

% refmat materialize --references refs.yaml --output /data/references/dm6/fasta/dm6_r6-11.fasta`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "materialize", err)
		}(time.Now())

		ctx := context.Background()
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

		assembly, tag := refmatFlags.refs.Assembly, refmatFlags.refs.Tag
		if refmatFlags.refs.Output != "" {
			var comps model.PathComponents
			comps, err = core.ResolveOutput(cfg, refmatFlags.refs.Output)
			if err != nil {
				wrapFatalln("locate output under the references dir", err)
				return
			}
			assembly, tag = comps.Assembly, comps.Tag
		}
		if assembly == "" {
			err = fmt.Errorf("no reference selected")
			wrapFatalln(fmt.Sprintf("requires either --%s or --%s", addAssemblyFlag(nil), addOutputFlag(nil)), nil)
			return
		}

		outfile, err := core.OutputFor(cfg, assembly, tag)
		if err != nil {
			wrapFatalln(fmt.Sprintf("select reference (%s, %s)", assembly, tag), err)
			return
		}
		if typ := refmatFlags.refs.Type; typ != "" && !strings.HasSuffix(outfile, "."+typ) {
			err = fmt.Errorf("type mismatch")
			wrapFatalln(fmt.Sprintf("reference (%s, %s) does not declare type %s", assembly, tag, typ), nil)
			return
		}

		enabled := refmatFlags.root.metrics.IsEnabled()
		materializer := core.NewMaterializer(
			core.Logger(logger),
			core.Fetcher(fetch.New(
				fetch.WithLogger(logger),
				fetch.WithCredentials(optionInputs.credentials()),
				fetch.WithMetrics(enabled),
			)),
			core.WithMetrics(enabled),
		)
		err = materializer.Materialize(ctx, outfile, cfg, assembly, tag)
		if err != nil {
			wrapFatalln("materialize "+outfile, err)
			return
		}
		infoLogger.Printf("materialized %s", outfile)
	},
}

func init() {
	addRefsFileFlag(materializeCmd)
	addAssemblyFlag(materializeCmd)
	addTagFlag(materializeCmd)
	addTypeFlag(materializeCmd)
	addOutputFlag(materializeCmd)
	addCredentialFile(materializeCmd)
	rootCmd.AddCommand(materializeCmd)
}
