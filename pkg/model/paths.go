package model

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// FastaType is the block type for nucleotide sequence references
	FastaType = "fasta"

	// GtfType is the block type for gene annotation references
	GtfType = "gtf"

	// ChromSizesKind is the synthetic artifact kind derived from every fasta block
	ChromSizesKind = "chromsizes"

	// temp and transcript files placed next to an artifact while materializing it
	tempSuffix     = ".tmp"
	fetchLogSuffix = ".log"
)

// indexExtensions maps a supported aligner index kind to the suffix of the
// file a build of that index is probed by.
var indexExtensions = map[string]string{
	"bowtie2":  ".1.bt2",
	"hisat2":   ".1.ht2",
	"kallisto": ".idx",
}

// conversionExtensions maps a supported gtf conversion kind to its file suffix.
var conversionExtensions = map[string]string{
	"intergenic": ".intergenic.gtf",
	"refflat":    ".refflat",
}

// IndexExtension yields the file suffix for an aligner index kind
func IndexExtension(kind string) (string, bool) {
	ext, ok := indexExtensions[kind]
	return ext, ok
}

// ConversionExtension yields the file suffix for a gtf conversion kind
func ConversionExtension(kind string) (string, bool) {
	ext, ok := conversionExtensions[kind]
	return ext, ok
}

// IndexKinds lists the supported aligner index kinds, sorted
func IndexKinds() []string {
	return sortedKeys(indexExtensions)
}

// ConversionKinds lists the supported gtf conversion kinds, sorted
func ConversionKinds() []string {
	return sortedKeys(conversionExtensions)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetPathToReference yields the canonical location of a reference artifact,
// as in: {dir}/{assembly}/{type}/{assembly}_{tag}.{type}
func GetPathToReference(dir, assembly, tag, typ string) string {
	return fmt.Sprint(dir, "/", assembly, "/", typ, "/", assembly, "_", tag, ".", typ)
}

// GetPathToChromSizes yields the location of the chromosome sizes derived
// from a fasta reference, as in: {dir}/{assembly}/fasta/{assembly}_{tag}.chromsizes
func GetPathToChromSizes(dir, assembly, tag string) string {
	return fmt.Sprint(dir, "/", assembly, "/", FastaType, "/", assembly, "_", tag, ".", ChromSizesKind)
}

// GetPathToIndex yields the location of an aligner index built from a fasta
// reference, as in: {dir}/{assembly}/{index}/{assembly}_{tag}{suffix}
func GetPathToIndex(dir, assembly, tag, index, suffix string) string {
	return fmt.Sprint(dir, "/", assembly, "/", index, "/", assembly, "_", tag, suffix)
}

// GetPathToConversion yields the location of a converted annotation file.
// Conversions live next to the reference they are derived from, as in:
// {dir}/{assembly}/{type}/{assembly}_{tag}{suffix}
func GetPathToConversion(dir, assembly, tag, typ, suffix string) string {
	return fmt.Sprint(dir, "/", assembly, "/", typ, "/", assembly, "_", tag, suffix)
}

// GetPathToTemp yields the i-th temporary download target for an artifact,
// as in: {outfile}.{i}.tmp
func GetPathToTemp(outfile string, i int) string {
	return fmt.Sprint(outfile, ".", i, tempSuffix)
}

// GetPathToFetchLog yields the transcript file capturing fetch diagnostics
// for an artifact, as in: {outfile}.log
func GetPathToFetchLog(outfile string) string {
	return fmt.Sprint(outfile, fetchLogSuffix)
}

// PathComponents defines the unique coordinates an artifact path stands for
type PathComponents struct {
	Assembly string
	Tag      string
	Kind     string
}

// GetPathComponents yields the coordinates of an artifact from its path under
// the references directory. It is the inverse of the path builders above:
// every path they produce parses back to the (assembly, tag, kind) that
// built it. Multi-dot suffixes are disambiguated against the known extension
// tables, most specific suffix first.
func GetPathComponents(artifactPath, dir string) (PathComponents, error) {
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || !strings.HasPrefix(artifactPath, dir+"/") {
		return PathComponents{},
			fmt.Errorf("path is invalid: expect path under references dir %q: %s", dir, artifactPath)
	}
	cs := strings.Split(strings.TrimPrefix(artifactPath, dir+"/"), "/")
	if len(cs) != 3 {
		return PathComponents{},
			fmt.Errorf("path is invalid: expect {assembly}/{kind}/{file} after references dir: %s", artifactPath)
	}
	assembly, subdir, file := cs[0], cs[1], cs[2]
	if assembly == "" || subdir == "" {
		return PathComponents{},
			fmt.Errorf("path is invalid: empty assembly or kind directory: %s", artifactPath)
	}
	if !strings.HasPrefix(file, assembly+"_") {
		return PathComponents{},
			fmt.Errorf("path is invalid, file name should start with %q. components: %v, path: %s",
				assembly+"_", cs, artifactPath)
	}
	rest := strings.TrimPrefix(file, assembly+"_")

	if suffix, ok := indexExtensions[subdir]; ok {
		tag := strings.TrimSuffix(rest, suffix)
		if tag == rest || tag == "" {
			return PathComponents{},
				fmt.Errorf("path is invalid, %s index file should end with %q: %s", subdir, suffix, artifactPath)
		}
		return PathComponents{Assembly: assembly, Tag: tag, Kind: subdir}, nil
	}

	// within a type directory, try the most specific suffixes first:
	// conversions, then chromsizes, then the type itself
	for _, conversion := range ConversionKinds() {
		suffix := conversionExtensions[conversion]
		if tag := strings.TrimSuffix(rest, suffix); tag != rest && tag != "" && subdir == GtfType {
			return PathComponents{Assembly: assembly, Tag: tag, Kind: conversion}, nil
		}
	}
	if tag := strings.TrimSuffix(rest, "."+ChromSizesKind); tag != rest && tag != "" && subdir == FastaType {
		return PathComponents{Assembly: assembly, Tag: tag, Kind: ChromSizesKind}, nil
	}
	if tag := strings.TrimSuffix(rest, "."+subdir); tag != rest && tag != "" {
		return PathComponents{Assembly: assembly, Tag: tag, Kind: subdir}, nil
	}
	return PathComponents{},
		fmt.Errorf("path is invalid, file suffix matches no known artifact kind. components: %v, path: %s",
			cs, artifactPath)
}
