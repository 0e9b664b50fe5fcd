package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathBuilders(t *testing.T) {
	assert.Equal(t, "/data/dm6/fasta/dm6_r6-11.fasta",
		GetPathToReference("/data", "dm6", "r6-11", FastaType))
	assert.Equal(t, "/data/dm6/fasta/dm6_r6-11.chromsizes",
		GetPathToChromSizes("/data", "dm6", "r6-11"))
	assert.Equal(t, "/data/dm6/bowtie2/dm6_r6-11.1.bt2",
		GetPathToIndex("/data", "dm6", "r6-11", "bowtie2", ".1.bt2"))
	assert.Equal(t, "/data/dm6/gtf/dm6_default.gtf",
		GetPathToReference("/data", "dm6", "default", GtfType))
	assert.Equal(t, "/data/dm6/gtf/dm6_default.refflat",
		GetPathToConversion("/data", "dm6", "default", GtfType, ".refflat"))
}

func TestTempAndLogPaths(t *testing.T) {
	outfile := "/data/dm6/fasta/dm6_r6-11.fasta"
	assert.Equal(t, outfile+".0.tmp", GetPathToTemp(outfile, 0))
	assert.Equal(t, outfile+".7.tmp", GetPathToTemp(outfile, 7))
	assert.Equal(t, outfile+".log", GetPathToFetchLog(outfile))
}

func TestExtensionTables(t *testing.T) {
	for kind, expected := range map[string]string{
		"bowtie2":  ".1.bt2",
		"hisat2":   ".1.ht2",
		"kallisto": ".idx",
	} {
		ext, ok := IndexExtension(kind)
		require.True(t, ok, kind)
		assert.Equal(t, expected, ext)
	}
	_, ok := IndexExtension("bwa")
	assert.False(t, ok)

	for kind, expected := range map[string]string{
		"intergenic": ".intergenic.gtf",
		"refflat":    ".refflat",
	} {
		ext, ok := ConversionExtension(kind)
		require.True(t, ok, kind)
		assert.Equal(t, expected, ext)
	}
	_, ok = ConversionExtension("bed12")
	assert.False(t, ok)

	assert.Equal(t, []string{"bowtie2", "hisat2", "kallisto"}, IndexKinds())
	assert.Equal(t, []string{"intergenic", "refflat"}, ConversionKinds())
}

type pathComponentsFixture struct {
	name       string
	path       string
	dir        string
	wantsError bool
	expected   PathComponents
}

func pathComponentsTestCases() []pathComponentsFixture {
	return []pathComponentsFixture{
		// happy path
		{
			name:     "fasta reference",
			path:     "/data/dm6/fasta/dm6_r6-11.fasta",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11", Kind: "fasta"},
		},
		{
			name:     "chromsizes",
			path:     "/data/dm6/fasta/dm6_r6-11.chromsizes",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11", Kind: "chromsizes"},
		},
		{
			name:     "bowtie2 index",
			path:     "/data/dm6/bowtie2/dm6_r6-11.1.bt2",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11", Kind: "bowtie2"},
		},
		{
			name:     "kallisto index",
			path:     "/data/dm6/kallisto/dm6_r6-11_transcriptome.idx",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11_transcriptome", Kind: "kallisto"},
		},
		{
			name:     "gtf reference with default tag",
			path:     "/data/dm6/gtf/dm6_default.gtf",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "default", Kind: "gtf"},
		},
		{
			name:     "refflat conversion",
			path:     "/data/dm6/gtf/dm6_default.refflat",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "default", Kind: "refflat"},
		},
		{
			name:     "intergenic conversion beats plain gtf suffix",
			path:     "/data/dm6/gtf/dm6_r6-11.intergenic.gtf",
			dir:      "/data",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11", Kind: "intergenic"},
		},
		{
			name:     "trailing slash on references dir",
			path:     "/data/dm6/fasta/dm6_r6-11.fasta",
			dir:      "/data/",
			expected: PathComponents{Assembly: "dm6", Tag: "r6-11", Kind: "fasta"},
		},
		{
			name:     "tag with dots",
			path:     "/data/hg38/fasta/hg38_gencode.v38.fasta",
			dir:      "/data",
			expected: PathComponents{Assembly: "hg38", Tag: "gencode.v38", Kind: "fasta"},
		},
		// error cases
		{
			name:       "outside references dir",
			path:       "/elsewhere/dm6/fasta/dm6_r6-11.fasta",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "too few components",
			path:       "/data/dm6/dm6_r6-11.fasta",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "too many components",
			path:       "/data/dm6/fasta/extra/dm6_r6-11.fasta",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "file not prefixed by assembly",
			path:       "/data/dm6/fasta/hg38_r6-11.fasta",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "empty tag",
			path:       "/data/dm6/fasta/dm6_.fasta",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "index file with wrong suffix",
			path:       "/data/dm6/bowtie2/dm6_r6-11.idx",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "chromsizes outside a fasta dir",
			path:       "/data/dm6/gtf/dm6_r6-11.chromsizes",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "suffix matching no kind",
			path:       "/data/dm6/fasta/dm6_r6-11.gtf",
			dir:        "/data",
			wantsError: true,
		},
		{
			name:       "empty references dir",
			path:       "/data/dm6/fasta/dm6_r6-11.fasta",
			dir:        "",
			wantsError: true,
		},
	}
}

func TestGetPathComponents(t *testing.T) {
	for _, tc := range pathComponentsTestCases() {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := GetPathComponents(tc.path, tc.dir)
			if tc.wantsError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestPathComponentsRoundTrip(t *testing.T) {
	const dir = "/refs"
	for _, built := range []struct {
		path     string
		expected PathComponents
	}{
		{GetPathToReference(dir, "mm10", "m25", FastaType), PathComponents{"mm10", "m25", "fasta"}},
		{GetPathToChromSizes(dir, "mm10", "m25"), PathComponents{"mm10", "m25", "chromsizes"}},
		{GetPathToIndex(dir, "mm10", "m25", "hisat2", ".1.ht2"), PathComponents{"mm10", "m25", "hisat2"}},
		{GetPathToReference(dir, "mm10", "m25", GtfType), PathComponents{"mm10", "m25", "gtf"}},
		{GetPathToConversion(dir, "mm10", "m25", GtfType, ".intergenic.gtf"), PathComponents{"mm10", "m25", "intergenic"}},
		{GetPathToConversion(dir, "mm10", "m25", GtfType, ".refflat"), PathComponents{"mm10", "m25", "refflat"}},
	} {
		actual, err := GetPathComponents(built.path, dir)
		require.NoError(t, err, built.path)
		assert.Equal(t, built.expected, actual, built.path)
	}
}
