// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Table names used in the TSV format.
const (
	logLikelihoodTable = "loglik"
	thresholdTable     = "threshold"
)

// tablesTsvRow is one line of a tables TSV file:
//
//	table      index  value
//	loglik     0      -0.3746...
//	threshold  0      0
//
// Indices of each table must be dense and ascending from 0.
type tablesTsvRow struct {
	Table string `tsv:"table"`
	Index int    `tsv:"index"`
	Value string `tsv:"value"`
}

// ReadTables parses tables in the format written by WriteTables.
func ReadTables(r io.Reader) (*StaticTables, error) {
	reader := tsv.NewReader(r)
	reader.HasHeaderRow = true
	reader.UseHeaderNames = true
	reader.Comment = '#'

	var (
		ll []float64
		th []int
	)
	for n := 1; ; n++ {
		var row tablesTsvRow
		if err := reader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "read tables")
		}
		switch row.Table {
		case logLikelihoodTable:
			if row.Index != len(ll) {
				return nil, badIndex(n, row, len(ll))
			}
			v, err := strconv.ParseFloat(row.Value, 64)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, fmt.Sprintf("tables row %d", n))
			}
			ll = append(ll, v)
		case thresholdTable:
			if row.Index != len(th) {
				return nil, badIndex(n, row, len(th))
			}
			v, err := strconv.Atoi(row.Value)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, fmt.Sprintf("tables row %d: threshold must be an integer", n))
			}
			th = append(th, v)
		default:
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("tables row %d: unknown table %q, want %q or %q", n, row.Table, logLikelihoodTable, thresholdTable))
		}
	}
	return NewStaticTables(ll, th)
}

func badIndex(n int, row tablesTsvRow, want int) error {
	return errors.E(errors.Invalid,
		fmt.Sprintf("tables row %d: %s index %d, want %d", n, row.Table, row.Index, want))
}

// LoadTables reads tables from the given path.  The path may be local or
// anything else grailbio/base/file understands, e.g. s3://.
func LoadTables(ctx context.Context, path string) (t *StaticTables, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open tables", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	if t, err = ReadTables(in.Reader(ctx)); err != nil {
		err = errors.E(err, path)
	}
	return
}

// WriteTables writes t as TSV.  ReadTables(WriteTables(t)) reproduces t
// exactly.
func WriteTables(w io.Writer, t *StaticTables) error {
	out := tsv.NewWriter(w)
	out.WriteString("table\tindex\tvalue")
	if err := out.EndLine(); err != nil {
		return err
	}
	for i, v := range t.LogLikelihoods {
		out.WriteString(logLikelihoodTable)
		out.WriteInt64(int64(i))
		out.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	for i, v := range t.Thresholds {
		out.WriteString(thresholdTable)
		out.WriteInt64(int64(i))
		out.WriteInt64(int64(v))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
