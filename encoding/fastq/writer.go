package fastq

import (
	"io"

	"github.com/pkg/errors"
)

var newline = []byte{'\n'}

// Writer is a FASTQ file writer.  Write errors are sticky: once a write
// fails, every later call returns the same error.
type Writer struct {
	w   io.Writer
	n   int
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format.  An empty Unk line is written as
// "+".  An error is returned if the write failed.
func (w *Writer) Write(r *Read) error {
	if w.err != nil {
		return w.err
	}
	unk := r.Unk
	if unk == "" {
		unk = "+"
	}
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(unk)
	w.writeln(r.Qual)
	if w.err != nil {
		w.err = errors.Wrapf(w.err, "write FASTQ record %d", w.n)
		return w.err
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.n
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
