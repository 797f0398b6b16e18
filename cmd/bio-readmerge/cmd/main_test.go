package cmd

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/readmerge/merge"
	"github.com/grailbio/readmerge/mergefastq"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	testifyassert "github.com/stretchr/testify/assert"
)

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeTables(&buf))
	got, err := merge.ReadTables(&buf)
	assert.NoError(t, err)
	expect.EQ(t, got.LogLikelihoods, merge.DefaultTables.LogLikelihoods)
	expect.EQ(t, got.Thresholds, merge.DefaultTables.Thresholds)
}

func testFlags(r1, r2, out string) mergeFlags {
	var (
		report, tables string
		tempDir        string
		parallelism    = 2
		qualOffset     = 33
		sampleRate     = 1.0
		sampleSeed     uint64
	)
	return mergeFlags{
		r1: &r1, r2: &r2, out: &out, report: &report, tables: &tables, tempDir: &tempDir,
		parallelism: &parallelism, qualOffset: &qualOffset,
		sampleRate: &sampleRate, sampleSeed: &sampleSeed,
	}
}

func TestMergeFlags(t *testing.T) {
	opts, err := testFlags("a1.fq,b1.fq", "a2.fq,b2.fq", "out.fq").opts()
	assert.NoError(t, err)
	expect.EQ(t, opts.R1, []string{"a1.fq", "b1.fq"})
	expect.EQ(t, opts.R2, []string{"a2.fq", "b2.fq"})
	expect.EQ(t, opts.Out, "out.fq")
	expect.EQ(t, opts.Parallelism, 2)

	for _, f := range []mergeFlags{
		testFlags("", "a2.fq", "out.fq"),
		testFlags("a1.fq", "a2.fq", ""),
		testFlags("a1.fq,b1.fq", "a2.fq", "out.fq"),
	} {
		_, err := f.opts()
		testifyassert.Error(t, err)
	}
}

func TestRunMerge(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	r1 := filepath.Join(tempDir, "R1.fastq")
	r2 := filepath.Join(tempDir, "R2.fastq")
	assert.NoError(t, ioutil.WriteFile(r1, []byte("@p1/1\nACGTTGCAGATTACAGGC\n+\nIIIIIIIIIIIIIIIIII\n"), 0600))
	assert.NoError(t, ioutil.WriteFile(r2, []byte("@p1/2\nCCTGAAGCCTGTAATC\n+\nIIIIIIIIIIIIIIII\n"), 0600))

	opts := mergefastq.DefaultOpts
	opts.R1 = []string{r1}
	opts.R2 = []string{r2}
	opts.Out = filepath.Join(tempDir, "out.fastq")
	assert.NoError(t, runMerge(context.Background(), opts))
	data, err := ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	expect.EQ(t, string(data), "@p1/1\nACGTTGCAGATTACAGGCTTCAGG\n+\nIIIIIIIIqqqqqqqqqqIIIIII\n")
}
