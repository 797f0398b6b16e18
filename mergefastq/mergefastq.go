// Package mergefastq merges the read pairs of paired-end FASTQ files into
// single reads.
package mergefastq

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"sync"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/readmerge/encoding/fastq"
	"github.com/grailbio/readmerge/merge"
)

// A uint64 sequence number defines a total ordering of pairs from multiple
// fastq files.  Output is written in order of appearance in the fastq files.
// The sequence is a combination of <file index, pair index within the file>,
// where pairs dropped by downsampling are not counted.  The first pair of a
// file has index 1.
func newSeq(fileseq, readseq uint) uint64 {
	return (uint64(fileseq) << 48) | uint64(readseq)
}

const invalidSeq = math.MaxUint64

type req struct {
	seq    uint64
	id     string
	r1, r2 merge.Read
}

type res struct {
	seq uint64
	id  string
	al  merge.Alignment

	// stats is sent as the very last record, with seq=invalidSeq.
	stats merge.Stats
}

func processRequests(reqCh chan req, resCh chan res, tables merge.Tables) {
	stats := merge.Stats{}
	for req := range reqCh {
		al := merge.Align(req.r1, req.r2, tables)
		stats.Add(al)
		if log.At(log.Debug) {
			log.Debug.Printf("%s: matches %d, overlap %d, significant %v", req.id, al.Matches, al.Overlap, al.Significant)
		}
		resCh <- res{seq: req.seq, id: req.id, al: al}
	}
	resCh <- res{seq: invalidSeq, stats: stats}
}

func openFASTQ(ctx context.Context, path string) (file.File, io.Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return in, r, nil
}

func readFASTQ(ctx context.Context, reqCh chan req, fileseq uint, r1Path, r2Path string, ds *fastq.Downsampler, opts Opts) error {
	in1, inr1, err := openFASTQ(ctx, r1Path)
	if err != nil {
		return err
	}
	in2, inr2, err := openFASTQ(ctx, r2Path)
	if err != nil {
		in1.Close(ctx) // nolint: errcheck
		return err
	}
	var (
		sc       = fastq.NewPairScanner(inr1, inr2, fastq.ID|fastq.Seq|fastq.Qual)
		r1R, r2R fastq.Read
		nRead    uint
		nKept    int
		once     errors.Once
	)
	for sc.Scan(&r1R, &r2R) {
		nRead++
		if nRead%(1024*1024) == 0 {
			log.Printf("%s: %dMi readpairs", r1Path, nRead/(1024*1024))
		}
		if !ds.Keep(r1R.Name()) {
			continue
		}
		r1, err := fastq.ToMerge(&r1R, opts.QualOffset)
		if err == nil {
			err = r1.Validate()
		}
		if err != nil {
			once.Set(errors.E(errors.Invalid, err, fmt.Sprintf("%s: pair %d", r1Path, nRead)))
			break
		}
		r2, err := fastq.ToMerge(&r2R, opts.QualOffset)
		if err == nil {
			err = r2.Validate()
		}
		if err != nil {
			once.Set(errors.E(errors.Invalid, err, fmt.Sprintf("%s: pair %d", r2Path, nRead)))
			break
		}
		nKept++
		reqCh <- req{newSeq(fileseq, uint(nKept)), r1R.ID, r1, r2}
	}
	log.Printf("Processed %d readpairs (%d kept) in %s", nRead, nKept, r1Path)
	if err := sc.Err(); err != nil {
		once.Set(errors.E(err, r1Path, r2Path))
	}
	once.Set(in1.Close(ctx))
	once.Set(in2.Close(ctx))
	return once.Err()
}

// processFASTQ merges one R1/R2 file pair into shard.  Workers finish pairs
// out of order; the collector holds early results until their predecessors
// arrive, so the shard is written in input order.
func processFASTQ(ctx context.Context, fileseq uint, r1Path, r2Path string, tables merge.Tables, ds *fastq.Downsampler, shard *pairShard, opts Opts) (merge.Stats, error) {
	reqCh := make(chan req, 1024*64)
	resCh := make(chan res, 1024)

	wg1 := sync.WaitGroup{}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	for i := 0; i < parallelism; i++ {
		wg1.Add(1)
		go func() {
			processRequests(reqCh, resCh, tables)
			wg1.Done()
		}()
	}

	wg2 := sync.WaitGroup{}
	wg2.Add(1)
	var (
		stats merge.Stats
		once  errors.Once
	)
	go func() {
		pending := map[uint64]res{}
		next := newSeq(fileseq, 1)
		for res := range resCh {
			if res.seq == invalidSeq {
				stats = stats.Merge(res.stats)
				continue
			}
			pending[res.seq] = res
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				once.Set(shard.add(r))
				next++
			}
		}
		if len(pending) > 0 {
			once.Set(errors.E(fmt.Sprintf("%s: %d results out of sequence", r1Path, len(pending))))
		}
		wg2.Done()
	}()

	once.Set(readFASTQ(ctx, reqCh, fileseq, r1Path, r2Path, ds, opts))
	close(reqCh)
	wg1.Wait()
	close(resCh)
	wg2.Wait()
	once.Set(shard.closeWriter())
	if err := once.Err(); err != nil {
		return stats, err
	}
	log.Printf("%s: wrote %d reads", r1Path, shard.count())
	return stats, nil
}

// Run merges every read pair in opts.R1/opts.R2 and writes the results to
// opts.Out, in input order.  It returns the combined statistics of all pairs.
func Run(ctx context.Context, opts Opts) (merge.Stats, error) {
	if len(opts.R1) == 0 {
		return merge.Stats{}, errors.E(errors.Invalid, "no R1 files given")
	}
	if len(opts.R1) != len(opts.R2) {
		return merge.Stats{}, errors.E(errors.Invalid,
			fmt.Sprintf("there must be the same # of R1 and R2 files: %v <-> %v", opts.R1, opts.R2))
	}
	if opts.Out == "" {
		return merge.Stats{}, errors.E(errors.Invalid, "no output path given")
	}
	ds, err := fastq.NewDownsampler(opts.SampleRate, opts.SampleSeed)
	if err != nil {
		return merge.Stats{}, errors.E(errors.Invalid, err)
	}
	var tables merge.Tables = merge.DefaultTables
	if opts.TablesPath != "" {
		t, err := merge.LoadTables(ctx, opts.TablesPath)
		if err != nil {
			return merge.Stats{}, err
		}
		tables = t
	}
	tempDir, err := ioutil.TempDir(opts.TempDir, "readmerge")
	if err != nil {
		return merge.Stats{}, errors.E(err, "create temp dir")
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.Error.Printf("remove %s: %v", tempDir, err)
		}
	}()

	log.Printf("Start merging %d file pair(s)", len(opts.R1))
	var (
		shards   = make([]*pairShard, len(opts.R1))
		allStats = make([]merge.Stats, len(opts.R1))
	)
	err = traverse.Each(len(opts.R1), func(i int) error {
		var err error
		if shards[i], err = newPairShard(tempDir, uint(i), opts.Report != "", opts.QualOffset); err != nil {
			return err
		}
		allStats[i], err = processFASTQ(ctx, uint(i), opts.R1[i], opts.R2[i], tables, ds, shards[i], opts)
		return err
	})
	if err != nil {
		return merge.Stats{}, err
	}
	var stats merge.Stats
	for _, s := range allStats {
		stats = stats.Merge(s)
	}
	if err := writeResults(ctx, shards, opts); err != nil {
		return merge.Stats{}, err
	}
	log.Printf("Stats: %+v", stats)
	return stats, nil
}
