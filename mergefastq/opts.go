package mergefastq

import (
	"runtime"

	"github.com/grailbio/readmerge/encoding/fastq"
)

// Opts configures Run.
type Opts struct {
	// R1 and R2 list the FASTQ files holding the forward and reverse reads.
	// R1[i] and R2[i] must hold the same pairs in the same order.  Files may be
	// gzip or bzip2 compressed.
	R1, R2 []string
	// Out is the merged FASTQ path.  A ".gz" suffix gzips the output.
	Out string
	// Report, if nonempty, is the path of a per-pair TSV report.
	Report string
	// TablesPath, if nonempty, names a tables TSV file to score with instead
	// of merge.DefaultTables.
	TablesPath string

	// TempDir is where merged reads are staged, compressed, until every file
	// pair is done.  Empty means the system default.
	TempDir string

	// Parallelism is the number of merge workers per R1/R2 file pair.
	Parallelism int
	// QualOffset is the ASCII offset of the FASTQ quality strings.  Output uses
	// the same offset.
	QualOffset int

	// SampleRate is the fraction of pairs to merge.  Pairs are selected by a
	// hash of the read name, seeded with SampleSeed.
	SampleRate float64
	SampleSeed uint64
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Parallelism: runtime.NumCPU(),
	QualOffset:  fastq.DefaultQualOffset,
	SampleRate:  1,
}
