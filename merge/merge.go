// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Separator joins the two reads of a pair that could not be merged.  It is
// given quality 0.
const Separator = '-'

// Read is a base-called read: Seq[i] was called with Phred quality Qual[i].
type Read struct {
	Seq  string
	Qual []int
}

// Validate checks that r has one non-negative quality per base.
func (r Read) Validate() error {
	if len(r.Seq) != len(r.Qual) {
		return errors.E(errors.Invalid,
			fmt.Sprintf("read has %d bases but %d qualities", len(r.Seq), len(r.Qual)))
	}
	for i, q := range r.Qual {
		if q < 0 {
			return errors.E(errors.Invalid, fmt.Sprintf("negative quality %d at position %d", q, i))
		}
	}
	return nil
}

func (r Read) copy() Read {
	return Read{Seq: r.Seq, Qual: append([]int(nil), r.Qual...)}
}

// Alignment describes the outcome of aligning a read pair.
type Alignment struct {
	// Consensus is what Merge returns: the merged read if Significant, else
	// the two reads joined by Separator.
	Consensus Read
	// Matches is the number of agreeing positions in the overlap.
	Matches int
	// Overlap is the number of positions covered by both reads.
	Overlap int
	// Significant is true iff the consensus is not a concatenation.
	Significant bool
	// Passthrough is true iff one of the reads was empty and the consensus is
	// a copy of the other.  Such a pair is also Significant.
	Passthrough bool
}

// Significant returns true iff matches agreeing bases in an overlap of the
// given length are unlikely to have occurred by chance.
func Significant(matches, overlap int, t Tables) bool {
	return matches > t.Threshold(overlap)
}

// Merge combines the forward read a and the reverse read b of a pair into a
// single read covering the whole fragment.  b is sequenced from the opposite
// strand, so it is reverse-complemented before alignment.
//
// If the best overlap is not significant, Merge returns a.Seq + "-" + b.Seq,
// with qualities a.Qual, 0, b.Qual.  If either read is empty, it returns a
// copy of the other.
//
// Merge panics if either read fails Validate or t is nil.
func Merge(a, b Read, t Tables) Read {
	return Align(a, b, t).Consensus
}

func concat(a, b Read) Read {
	qual := make([]int, 0, len(a.Qual)+1+len(b.Qual))
	qual = append(qual, a.Qual...)
	qual = append(qual, 0)
	qual = append(qual, b.Qual...)
	return Read{Seq: a.Seq + string(Separator) + b.Seq, Qual: qual}
}

// Align is Merge, but also reports the alignment behind the result.
func Align(a, b Read, t Tables) Alignment {
	if t == nil {
		log.Panicf("merge: nil tables")
	}
	if err := a.Validate(); err != nil {
		log.Panicf("merge: read a: %v", err)
	}
	if err := b.Validate(); err != nil {
		log.Panicf("merge: read b: %v", err)
	}
	switch {
	case len(a.Seq) == 0:
		return Alignment{Consensus: b.copy(), Significant: true, Passthrough: true}
	case len(b.Seq) == 0:
		return Alignment{Consensus: a.copy(), Significant: true, Passthrough: true}
	}

	seqA := normalizeSeq(a.Seq)
	seqB := make([]byte, len(b.Seq))
	ReverseComp8(seqB, normalizeSeq(b.Seq))
	x := fillMatrix(seqA, a.Qual, seqB, reverseQual(b.Qual), t)
	tr := x.backtrace()

	al := Alignment{
		Matches:     tr.matches,
		Overlap:     tr.overlap,
		Significant: Significant(tr.matches, tr.overlap, t),
	}
	if log.At(log.Debug) {
		log.Debug.Printf("merge: matrix:%v\nmatches %d, overlap %d, threshold %d, significant %v",
			x, al.Matches, al.Overlap, t.Threshold(al.Overlap), al.Significant)
	}
	if al.Significant {
		al.Consensus = Read{Seq: string(tr.seq), Qual: tr.qual}
	} else {
		al.Consensus = concat(a, b)
	}
	return al
}
