package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readmerge/merge"
	"github.com/grailbio/readmerge/mergefastq"
	"v.io/x/lib/cmdline"
)

type mergeFlags struct {
	r1, r2      *string
	out         *string
	report      *string
	tables      *string
	tempDir     *string
	parallelism *int
	qualOffset  *int
	sampleRate  *float64
	sampleSeed  *uint64
}

func (f mergeFlags) opts() (mergefastq.Opts, error) {
	opts := mergefastq.DefaultOpts
	if *f.r1 == "" || *f.r2 == "" {
		return opts, fmt.Errorf("-r1 and -r2 are required")
	}
	if *f.out == "" {
		return opts, fmt.Errorf("-out is required")
	}
	opts.R1 = strings.Split(*f.r1, ",")
	opts.R2 = strings.Split(*f.r2, ",")
	if len(opts.R1) != len(opts.R2) {
		return opts, fmt.Errorf("there must be the same # of R1 and R2 files: '%s' <-> '%s'", *f.r1, *f.r2)
	}
	opts.Out = *f.out
	opts.Report = *f.report
	opts.TablesPath = *f.tables
	opts.TempDir = *f.tempDir
	opts.Parallelism = *f.parallelism
	opts.QualOffset = *f.qualOffset
	opts.SampleRate = *f.sampleRate
	opts.SampleSeed = *f.sampleSeed
	return opts, nil
}

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "merge",
		Short: "Merge the two reads of each pair into one read",
		Long: `
Merge aligns each R2 read, reverse-complemented, against its R1 mate. When the
mates overlap by significantly more matching bases than two unrelated reads
would, the pair is replaced by a single consensus read. Otherwise the output
read is R1, a '-' of quality 0, and R2, in that order.

Output reads keep R1's ID line and are written in input order.`,
	}
	flags := mergeFlags{
		r1:          cmd.Flags.String("r1", "", "Comma-separated list of R1 FASTQ files. Files may be gzip or bzip2 compressed."),
		r2:          cmd.Flags.String("r2", "", "Comma-separated list of R2 FASTQ files, in the same order as -r1."),
		out:         cmd.Flags.String("out", "", "Merged FASTQ output path. A .gz suffix gzips the output."),
		report:      cmd.Flags.String("report", "", "If set, write a per-pair TSV report to this path."),
		tables:      cmd.Flags.String("tables", "", "If set, score with the tables in this TSV file. See the tables subcommand for the format."),
		tempDir:     cmd.Flags.String("tmp-dir", "", "Directory for staging merged reads. Defaults to the system temp directory."),
		parallelism: cmd.Flags.Int("parallelism", mergefastq.DefaultOpts.Parallelism, "Number of merge workers per file pair."),
		qualOffset:  cmd.Flags.Int("qual-offset", mergefastq.DefaultOpts.QualOffset, "ASCII offset of FASTQ quality strings."),
		sampleRate:  cmd.Flags.Float64("sample-rate", mergefastq.DefaultOpts.SampleRate, "Fraction of read pairs to merge, in [0, 1]."),
		sampleSeed:  cmd.Flags.Uint64("sample-seed", mergefastq.DefaultOpts.SampleSeed, "Seed of the read-name hash used for -sample-rate."),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("merge takes no arguments, but got %v", argv)
		}
		opts, err := flags.opts()
		if err != nil {
			return err
		}
		return runMerge(vcontext.Background(), opts)
	})
	return cmd
}

func runMerge(ctx context.Context, opts mergefastq.Opts) error {
	stats, err := mergefastq.Run(ctx, opts)
	if err != nil {
		return err
	}
	if stats.Pairs > 0 {
		log.Printf("%s: merged %d of %d pairs (%.1f%%)", opts.Out, stats.Merged, stats.Pairs,
			100*float64(stats.Merged)/float64(stats.Pairs))
	}
	return nil
}

func newCmdTables() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "tables",
		Short: "Print the default scoring tables as TSV",
		Long: `
Tables prints the default scoring tables in the format read by "merge -tables".
Each row is "table index value". The loglik table holds the log-probability
that a base call is correct, indexed by quality/10. The threshold table holds
the number of matching bases an overlap must exceed to be merged, indexed by
overlap length. Lookups past the end of either table use its last row.`,
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("tables takes no arguments, but got %v", argv)
		}
		return writeTables(env.Stdout)
	})
	return cmd
}

func writeTables(w io.Writer) error {
	return merge.WriteTables(w, merge.DefaultTables)
}

func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-readmerge",
			Short:    "Merge overlapping paired-end reads",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMerge(),
				newCmdTables(),
			},
		})
}
