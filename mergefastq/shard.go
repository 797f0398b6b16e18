package mergefastq

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/readmerge/encoding/fastq"
)

// pairShard is an on-disk, snappy-compressed copy of the output of one R1/R2
// file pair.  Records are added in input order while the pair is being
// merged; once every file pair is done, the shards are concatenated into the
// final output in file order.
//
// pairShard is not threadsafe.  add() must not be called after closeWriter().
type pairShard struct {
	fastqFile *os.File
	fastqSz   io.WriteCloser
	fq        *fastq.Writer

	// The report fields are nil unless a report was requested.
	reportFile *os.File
	reportSz   io.WriteCloser
	report     *tsv.Writer

	qualOffset int
}

func newPairShard(tempDir string, fileseq uint, withReport bool, qualOffset int) (*pairShard, error) {
	s := &pairShard{qualOffset: qualOffset}
	var err error
	name := filepath.Join(tempDir, fmt.Sprintf("pair_%04d.fastq.sz", fileseq))
	if s.fastqFile, err = os.Create(name); err != nil {
		return nil, errors.E(err, "create shard", name)
	}
	s.fastqSz = snappy.NewBufferedWriter(s.fastqFile)
	s.fq = fastq.NewWriter(s.fastqSz)
	if withReport {
		name = filepath.Join(tempDir, fmt.Sprintf("pair_%04d.tsv.sz", fileseq))
		if s.reportFile, err = os.Create(name); err != nil {
			s.fastqFile.Close() // nolint: errcheck
			return nil, errors.E(err, "create shard", name)
		}
		s.reportSz = snappy.NewBufferedWriter(s.reportFile)
		s.report = tsv.NewWriter(s.reportSz)
	}
	return s, nil
}

// add appends the output read, and its report row, for one pair.
func (s *pairShard) add(r res) error {
	rec := fastq.FromMerge(r.id, r.al.Consensus, s.qualOffset)
	if err := s.fq.Write(&rec); err != nil {
		return errors.E(err, s.fastqFile.Name())
	}
	if s.report == nil {
		return nil
	}
	merged := 1
	if !r.al.Significant {
		merged = 0
	}
	s.report.WriteString(rec.Name())
	s.report.WriteInt64(int64(merged))
	s.report.WriteInt64(int64(r.al.Matches))
	s.report.WriteInt64(int64(r.al.Overlap))
	s.report.WriteInt64(int64(len(rec.Seq)))
	if err := s.report.EndLine(); err != nil {
		return errors.E(err, s.reportFile.Name())
	}
	return nil
}

// count returns the number of reads added so far.
func (s *pairShard) count() int {
	return s.fq.Count()
}

func (s *pairShard) closeWriter() error {
	once := errors.Once{}
	if s.report != nil {
		once.Set(s.report.Flush())
		once.Set(s.reportSz.Close())
		once.Set(s.reportFile.Close())
	}
	once.Set(s.fastqSz.Close())
	once.Set(s.fastqFile.Close())
	return once.Err()
}

func copyShard(dst io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.E(err, "open shard", path)
	}
	_, err = io.Copy(dst, snappy.NewReader(f))
	if e := f.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return errors.E(err, "copy shard", path)
	}
	return nil
}

// copyTo writes the decompressed reads to fq, and the report rows to report
// if it is not nil.  closeWriter must have been called.
func (s *pairShard) copyTo(fq, report io.Writer) error {
	if err := copyShard(fq, s.fastqFile.Name()); err != nil {
		return err
	}
	if report == nil || s.reportFile == nil {
		return nil
	}
	return copyShard(report, s.reportFile.Name())
}
