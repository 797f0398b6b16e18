package mergefastq

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// reportHeader names the columns of the per-pair report.  MERGED is 1 unless
// the pair was concatenated; LENGTH is the length of the output read.
const reportHeader = "#NAME\tMERGED\tMATCHES\tOVERLAP\tLENGTH"

// output is a destination file, gzipped if its name ends in ".gz".
type output struct {
	out file.File
	gz  *gzip.Writer
	w   io.Writer
}

func createOutput(ctx context.Context, path string) (*output, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	o := &output{out: out, w: out.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.w)
		o.w = o.gz
	}
	return o, nil
}

func (o *output) Close(ctx context.Context) error {
	once := errors.Once{}
	if o.gz != nil {
		once.Set(o.gz.Close())
	}
	once.Set(o.out.Close(ctx))
	return once.Err()
}

// writeResults concatenates the shards, in file order, into opts.Out and
// opts.Report.
func writeResults(ctx context.Context, shards []*pairShard, opts Opts) (err error) {
	out, err := createOutput(ctx, opts.Out)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	var reportW io.Writer
	if opts.Report != "" {
		var report *output
		if report, err = createOutput(ctx, opts.Report); err != nil {
			return err
		}
		defer func() {
			if e := report.Close(ctx); e != nil && err == nil {
				err = e
			}
		}()
		header := tsv.NewWriter(report.w)
		header.WriteString(reportHeader)
		if err := header.EndLine(); err != nil {
			return errors.E(err, opts.Report)
		}
		if err := header.Flush(); err != nil {
			return errors.E(err, opts.Report)
		}
		reportW = report.w
	}

	for _, s := range shards {
		if err := s.copyTo(out.w, reportW); err != nil {
			return err
		}
	}
	return nil
}
