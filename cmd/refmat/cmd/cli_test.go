package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/refmat/pkg/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genomeDoc = ">2L type=golden_path; loc=2L:1..16\nACGTACGTACGTACGT\n"
	annotA    = "2L\tFlyBase\texon\t7529\t8116\t.\t+\t.\tgene_id \"FBgn0031208\";\n"
	annotB    = "2L\tFlyBase\texon\t8193\t9484\t.\t+\t.\tgene_id \"FBgn0031208\";\n"
)

type ExitMocks struct {
	fatalCalls int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
}

var exitMocks *ExitMocks

// setupCLITests patches the fatal handlers and captures command output
func setupCLITests(t *testing.T) (*bytes.Buffer, func()) {
	require.NoError(t, os.Unsetenv(model.ReferencesDirEnv))
	resetCLIFlags()
	exitMocks = new(ExitMocks)
	logFatalf = exitMocks.Fatalf
	logFatalln = exitMocks.Fatalln
	buf := new(bytes.Buffer)
	infoLogger.SetOutput(buf)
	return buf, func() {
		infoLogger.SetOutput(os.Stdout)
		logFatalf = log.Fatalf
		logFatalln = log.Fatalln
	}
}

// resetCLIFlags restores flag values bound once at init time, so commands
// run in sequence do not see values from a previous run
func resetCLIFlags() {
	refmatFlags.refs.File = ""
	refmatFlags.refs.Assembly = ""
	refmatFlags.refs.Tag = model.DefaultTag
	refmatFlags.refs.Type = ""
	refmatFlags.refs.Output = ""
	refmatFlags.core.Template = ""
	refmatFlags.root.credFile = ""
}

func cliTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/dm6.fa", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(genomeDoc))
	})
	mux.HandleFunc("/parts/a.gtf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(annotA))
	})
	mux.HandleFunc("/parts/b.gtf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(annotB))
	})
	return httptest.NewServer(mux)
}

func writeRefsConfig(t *testing.T, dir, serverURL string) string {
	doc := fmt.Sprintf(`references_dir: %s
references:
  - assembly: dm6
    tag: r6-11
    type: fasta
    url: %s/dm6.fa
    indexes:
      - bowtie2
      - hisat2
  - assembly: dm6
    type: gtf
    url:
      - %s/parts/a.gtf
      - %s/parts/b.gtf
    postprocess: postprocess.cat
    conversions:
      - refflat
`, filepath.Join(dir, "references"), serverURL, serverURL, serverURL)
	location := filepath.Join(dir, "refs.yaml")
	require.NoError(t, ioutil.WriteFile(location, []byte(doc), 0600))
	return location
}

func TestCLIResolve(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	rootCmd.SetArgs([]string{"resolve", "--references", refsPath})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	refsDir := filepath.Join(dir, "references")
	out := buf.String()
	assert.Contains(t, out, "dm6:")
	assert.Contains(t, out, "fasta: "+refsDir+"/dm6/fasta/dm6_r6-11.fasta")
	assert.Contains(t, out, "chromsizes: "+refsDir+"/dm6/fasta/dm6_r6-11.chromsizes")
	assert.Contains(t, out, "bowtie2: "+refsDir+"/dm6/bowtie2/dm6_r6-11.1.bt2")
	assert.Contains(t, out, "hisat2: "+refsDir+"/dm6/hisat2/dm6_r6-11.1.ht2")
	assert.Contains(t, out, "refflat: "+refsDir+"/dm6/gtf/dm6_default.refflat")
}

func TestCLIResolveFormat(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	rootCmd.SetArgs([]string{"resolve",
		"--references", refsPath,
		"--format", "{{.Tag}}/{{.Kind}}",
	})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	// rows come out sorted by assembly, tag and kind
	assert.Contains(t, buf.String(),
		`default/gtf
default/refflat
r6-11/bowtie2
r6-11/chromsizes
r6-11/fasta
r6-11/hisat2
`)
}

func TestCLIResolveDuplicate(t *testing.T) {
	_, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	doc := fmt.Sprintf(`references_dir: %s
references:
  - assembly: dm6
    tag: r6-11
    type: fasta
    url: https://example.org/a.fa
  - assembly: dm6
    tag: r6-11
    type: fasta
    url: https://example.org/b.fa
`, filepath.Join(dir, "references"))
	refsPath := filepath.Join(dir, "refs.yaml")
	require.NoError(t, ioutil.WriteFile(refsPath, []byte(doc), 0600))

	rootCmd.SetArgs([]string{"resolve", "--references", refsPath})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestCLIList(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	rootCmd.SetArgs([]string{"list", "--references", refsPath})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	out := buf.String()
	assert.Contains(t, out, "dm6 , default , gtf , 2 , ")
	assert.Contains(t, out, "postprocess.cat")
	assert.Contains(t, out, "dm6 , r6-11 , fasta , 1 , ")
	assert.Contains(t, out, "postprocess.move")
}

func TestCLIMaterialize(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	server := cliTestServer()
	defer server.Close()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, server.URL)

	rootCmd.SetArgs([]string{"materialize",
		"--references", refsPath,
		"--assembly", "dm6",
		"--tag", "r6-11",
	})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	outfile := filepath.Join(dir, "references", "dm6", "fasta", "dm6_r6-11.fasta")
	content, err := ioutil.ReadFile(outfile)
	require.NoError(t, err)
	assert.Equal(t, genomeDoc, string(content))
	assert.Contains(t, buf.String(), "materialized "+outfile)

	// the temporary download was moved into place
	_, err = os.Stat(model.GetPathToTemp(outfile, 0))
	require.True(t, os.IsNotExist(err))

	// a fetch transcript sits next to the artifact
	transcript, err := ioutil.ReadFile(model.GetPathToFetchLog(outfile))
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "GET "+server.URL+"/dm6.fa")
	assert.Contains(t, string(transcript), "done:")
}

func TestCLIMaterializeOutput(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	server := cliTestServer()
	defer server.Close()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, server.URL)

	outfile := model.GetPathToReference(filepath.Join(dir, "references"), "dm6", "default", "gtf")
	rootCmd.SetArgs([]string{"materialize",
		"--references", refsPath,
		"--output", outfile,
	})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	content, err := ioutil.ReadFile(outfile)
	require.NoError(t, err)
	assert.Equal(t, annotA+annotB, string(content))
	assert.Contains(t, buf.String(), "materialized "+outfile)

	for i := 0; i < 2; i++ {
		_, err = os.Stat(model.GetPathToTemp(outfile, i))
		require.True(t, os.IsNotExist(err))
	}
}

func TestCLIMaterializeNotFound(t *testing.T) {
	_, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	rootCmd.SetArgs([]string{"materialize",
		"--references", refsPath,
		"--assembly", "dm6",
		"--tag", "r6-99",
	})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestCLIMaterializeTypeMismatch(t *testing.T) {
	_, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	// (dm6, r6-11) declares a fasta, not a gtf
	rootCmd.SetArgs([]string{"materialize",
		"--references", refsPath,
		"--assembly", "dm6",
		"--tag", "r6-11",
		"--type", "gtf",
	})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestCLIConfigFromFile(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	cfgPath := filepath.Join(dir, "refmat.yaml")
	require.NoError(t, ioutil.WriteFile(cfgPath, []byte("references: "+refsPath+"\n"), 0600))
	require.NoError(t, os.Setenv(envConfigLocation, cfgPath))
	defer func() {
		require.NoError(t, os.Unsetenv(envConfigLocation))
		viper.Reset()
	}()

	// no --references flag: the config file supplies it
	rootCmd.SetArgs([]string{"resolve"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)

	out := buf.String()
	assert.Contains(t, out, "Using config file: "+cfgPath)
	assert.Contains(t, out, "dm6_r6-11.fasta")
}

func TestCLIConfigCreateShow(t *testing.T) {
	buf, cleanup := setupCLITests(t)
	defer cleanup()
	dir, err := ioutil.TempDir("", "refmat-cli-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	refsPath := writeRefsConfig(t, dir, "https://example.org")

	cfgPath := filepath.Join(dir, "generated", "refmat.yaml")
	require.NoError(t, os.Setenv(envConfigLocation, cfgPath))
	defer func() {
		require.NoError(t, os.Unsetenv(envConfigLocation))
		viper.Reset()
	}()

	rootCmd.SetArgs([]string{"config", "create", "--references", refsPath})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, buf.String(), "config file created in "+cfgPath)

	content, err := ioutil.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "references: "+refsPath)

	buf.Reset()
	resetCLIFlags()
	rootCmd.SetArgs([]string{"config", "show"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, buf.String(), "references: "+refsPath)
}
