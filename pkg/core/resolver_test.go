package core

import (
	"errors"
	"os"
	"testing"

	"github.com/oneconcern/refmat/pkg/core/status"
	"github.com/oneconcern/refmat/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetRefsDirEnv(t *testing.T) {
	require.NoError(t, os.Unsetenv(model.ReferencesDirEnv))
}

func refsFixture() *model.RefsConfig {
	return &model.RefsConfig{
		ReferencesDir: "/data",
		References: []model.ReferenceBlock{
			{
				Assembly: "dm6",
				Tag:      "r6-11",
				Type:     model.FastaType,
				URL:      model.URLList{"https://example.org/dm6.fa.gz"},
				Indexes:  []string{"bowtie2", "hisat2"},
			},
			{
				Assembly: "dm6",
				Tag:      "r6-11_transcriptome",
				Type:     model.FastaType,
				URL:      model.URLList{"https://example.org/dm6-transcripts.fa.gz"},
				Indexes:  []string{"kallisto"},
			},
			{
				Assembly:    "dm6",
				Type:        model.GtfType,
				URL:         model.URLList{"https://example.org/dm6.gtf.gz"},
				Conversions: []string{"refflat"},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	unsetRefsDirEnv(t)

	table, err := NewResolver().Resolve(refsFixture())
	require.NoError(t, err)

	for _, testcase := range []struct {
		assembly, tag, kind string
		expected            string
	}{
		{"dm6", "r6-11", "fasta", "/data/dm6/fasta/dm6_r6-11.fasta"},
		{"dm6", "r6-11", "chromsizes", "/data/dm6/fasta/dm6_r6-11.chromsizes"},
		{"dm6", "r6-11", "bowtie2", "/data/dm6/bowtie2/dm6_r6-11.1.bt2"},
		{"dm6", "r6-11", "hisat2", "/data/dm6/hisat2/dm6_r6-11.1.ht2"},
		{"dm6", "r6-11_transcriptome", "fasta", "/data/dm6/fasta/dm6_r6-11_transcriptome.fasta"},
		{"dm6", "r6-11_transcriptome", "chromsizes", "/data/dm6/fasta/dm6_r6-11_transcriptome.chromsizes"},
		{"dm6", "r6-11_transcriptome", "kallisto", "/data/dm6/kallisto/dm6_r6-11_transcriptome.idx"},
		{"dm6", "default", "gtf", "/data/dm6/gtf/dm6_default.gtf"},
		{"dm6", "default", "refflat", "/data/dm6/gtf/dm6_default.refflat"},
	} {
		pth, ok := table.Lookup(testcase.assembly, testcase.tag, testcase.kind)
		require.Truef(t, ok, "expected an entry for %s/%s/%s", testcase.assembly, testcase.tag, testcase.kind)
		assert.Equal(t, testcase.expected, pth)
	}

	// gtf cells get neither synthetic chromsizes nor unrequested conversions
	_, ok := table.Lookup("dm6", "default", model.ChromSizesKind)
	assert.False(t, ok)
	_, ok = table.Lookup("dm6", "default", "intergenic")
	assert.False(t, ok)
}

func TestResolveBareFasta(t *testing.T) {
	unsetRefsDirEnv(t)

	cfg := &model.RefsConfig{
		ReferencesDir: "/data",
		References: []model.ReferenceBlock{
			{
				Assembly: "sacCer3",
				Type:     model.FastaType,
				URL:      model.URLList{"https://example.org/sacCer3.fa.gz"},
			},
		},
	}
	table, err := NewResolver().Resolve(cfg)
	require.NoError(t, err)

	// chromsizes ride along with every fasta, with or without indexes
	pth, ok := table.Lookup("sacCer3", model.DefaultTag, model.ChromSizesKind)
	require.True(t, ok)
	assert.Equal(t, "/data/sacCer3/fasta/sacCer3_default.chromsizes", pth)

	assert.Len(t, table.Flatten(), 2)
}

func TestResolveDeterministic(t *testing.T) {
	unsetRefsDirEnv(t)

	first, err := NewResolver().Resolve(refsFixture())
	require.NoError(t, err)
	second, err := NewResolver().Resolve(refsFixture())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveDuplicateEntry(t *testing.T) {
	unsetRefsDirEnv(t)

	blockA := model.ReferenceBlock{
		Assembly: "dm6",
		Tag:      "r6-11",
		Type:     model.FastaType,
		URL:      model.URLList{"https://example.org/a.fa.gz"},
	}
	blockB := model.ReferenceBlock{
		Assembly: "dm6",
		Tag:      "r6-11",
		Type:     model.FastaType,
		URL:      model.URLList{"https://example.org/b.fa.gz"},
		Indexes:  []string{"bowtie2"},
	}

	// rejected in either block order
	for _, references := range [][]model.ReferenceBlock{
		{blockA, blockB},
		{blockB, blockA},
	} {
		cfg := &model.RefsConfig{ReferencesDir: "/data", References: references}
		_, err := NewResolver().Resolve(cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrDuplicateEntry))
		assert.Contains(t, err.Error(), "tag r6-11 already exists for type fasta in assembly dm6")
	}
}

func TestResolveUnknownIndex(t *testing.T) {
	unsetRefsDirEnv(t)

	cfg := &model.RefsConfig{
		ReferencesDir: "/data",
		References: []model.ReferenceBlock{
			{
				Assembly: "dm6",
				Type:     model.FastaType,
				URL:      model.URLList{"https://example.org/dm6.fa.gz"},
				Indexes:  []string{"bwa"},
			},
		},
	}
	_, err := NewResolver().Resolve(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownIndex))
	assert.Contains(t, err.Error(), "bwa")
}

func TestResolveUnknownConversion(t *testing.T) {
	unsetRefsDirEnv(t)

	cfg := &model.RefsConfig{
		ReferencesDir: "/data",
		References: []model.ReferenceBlock{
			{
				Assembly:    "dm6",
				Type:        model.GtfType,
				URL:         model.URLList{"https://example.org/dm6.gtf.gz"},
				Conversions: []string{"bed12"},
			},
		},
	}
	_, err := NewResolver().Resolve(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownConversion))
	assert.Contains(t, err.Error(), "bed12")
}

func TestResolveNoReferencesDir(t *testing.T) {
	unsetRefsDirEnv(t)

	cfg := refsFixture()
	cfg.ReferencesDir = ""
	_, err := NewResolver().Resolve(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoReferencesDir))
}

func TestResolveEnvOverride(t *testing.T) {
	require.NoError(t, os.Setenv(model.ReferencesDirEnv, "/mnt/refs"))
	defer unsetRefsDirEnv(t)

	table, err := NewResolver().Resolve(refsFixture())
	require.NoError(t, err)

	pth, ok := table.Lookup("dm6", "r6-11", model.FastaType)
	require.True(t, ok)
	assert.Equal(t, "/mnt/refs/dm6/fasta/dm6_r6-11.fasta", pth)
}
