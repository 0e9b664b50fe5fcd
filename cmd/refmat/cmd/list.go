// Copyright © 2019 One Concern

package cmd

import (
	"bytes"
	"sort"
	"time"

	"github.com/oneconcern/refmat/pkg/model"
	"github.com/oneconcern/refmat/pkg/postprocess"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// refListEntry is one declared reference, as rendered by refmat list
type refListEntry struct {
	Assembly    string
	Tag         string
	Type        string
	NumURLs     int
	Postprocess string
}

func listEntries(cfg *model.RefsConfig) []refListEntry {
	entries := make([]refListEntry, 0, len(cfg.References))
	for i := range cfg.References {
		block := &cfg.References[i]
		name := postprocess.MoveName
		if block.Postprocess != nil {
			name = block.Postprocess.Name
		}
		entries = append(entries, refListEntry{
			Assembly:    block.Assembly,
			Tag:         block.FillTag(),
			Type:        block.Type,
			NumURLs:     len(block.URL),
			Postprocess: name,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Assembly != entries[j].Assembly {
			return entries[i].Assembly < entries[j].Assembly
		}
		if entries[i].Tag != entries[j].Tag {
			return entries[i].Tag < entries[j].Tag
		}
		return entries[i].Type < entries[j].Type
	})
	return entries
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the references declared in a config",
	Long:  `List the references declared in a config, one line per reference block`,
	Example: `% refmat list --references refs.yaml
dm6 , r6-11 , fasta , 1 , postprocess.move
dm6 , r6-11_transcriptome , fasta , 2 , postprocess.filter_fastas`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "list", err)
		}(time.Now())

		optionInputs := newCliOptionInputs(config, &refmatFlags)
		cfg, err := optionInputs.refsConfig()
		if err != nil {
			wrapFatalln("load references config", err)
			return
		}

		for _, entry := range listEntries(cfg) {
			if refmatFlags.core.Template != "" {
				var buf bytes.Buffer
				if err = listLineTemplate(refmatFlags).Execute(&buf, entry); err != nil {
					wrapFatalln("executing template", err)
					return
				}
				infoLogger.Println(buf.String())
				continue
			}
			infoLogger.Printf("%s , %s , %s , %d , %s",
				entry.Assembly, entry.Tag, entry.Type, entry.NumURLs,
				color.HiBlackString(entry.Postprocess))
		}
	},
}

func init() {
	addRefsFileFlag(listCmd)
	addTemplateFlag(listCmd)
	rootCmd.AddCommand(listCmd)
}
