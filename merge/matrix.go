// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

import (
	"math"
	"strings"
)

var negInf = math.Inf(-1)

// matrix is the alignment matrix for reads A (n bases, rows) and B' (m bases,
// columns), where B' is the reverse-complement of the second read.  It has
// (n+2) x (m+2) cells:
//
//	row 0, col 0          leading edges: one read overhangs the other's start
//	rows 1..n, cols 1..m  overlap: cell (i, j) pairs A[i-1] with B'[j-1]
//	row n+1               trailing edge: A is used up, B' continues
//	col m+1               trailing edge: B' is used up, A continues
//
// (0, 0) is the origin and (n+1, m+1) the terminal; both are sentinels, as
// are the unused corners (n+1, 0) and (0, m+1).
type matrix struct {
	n, m       int
	nRow, nCol int
	cells      []Cell // row-major nRow*nCol array.
}

func newMatrix(n, m int) matrix {
	return matrix{
		n:     n,
		m:     m,
		nRow:  n + 2,
		nCol:  m + 2,
		cells: make([]Cell, (n+2)*(m+2)),
	}
}

func (x matrix) at(i, j int) *Cell {
	return &x.cells[i*x.nCol+j]
}

// overlapCell returns true iff (i, j) pairs a base of A with a base of B'.
func (x matrix) overlapCell(i, j int) bool {
	return i >= 1 && i <= x.n && j >= 1 && j <= x.m
}

// fillMatrix builds the matrix for seqA/qualA against seqB/qualB.  seqB and
// qualB must already be reverse-complemented and reversed, respectively.
func fillMatrix(seqA []byte, qualA []int, seqB []byte, qualB []int, t Tables) matrix {
	n, m := len(seqA), len(seqB)
	x := newMatrix(n, m)

	// Origin.
	*x.at(0, 0) = Cell{}

	// Leading edges.  Each accumulates the single-read likelihoods of the
	// overhang so far.
	for i := 1; i <= n; i++ {
		c := singleCall(seqA[i-1], qualA[i-1], t)
		c.adjust(x.at(i-1, 0).Likelihood)
		*x.at(i, 0) = c
	}
	for j := 1; j <= m; j++ {
		c := singleCall(seqB[j-1], qualB[j-1], t)
		c.adjust(x.at(0, j-1).Likelihood)
		*x.at(0, j) = c
	}

	// Overlap.  The alignment is gapless here, so the only predecessor is the
	// diagonal one.
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			c := Combine(seqA[i-1], qualA[i-1], seqB[j-1], qualB[j-1], t)
			c.adjust(x.at(i-1, j-1).Likelihood)
			*x.at(i, j) = c
		}
	}

	// The unused corners are never on a path.
	*x.at(n+1, 0) = Cell{Likelihood: negInf}
	*x.at(0, m+1) = Cell{Likelihood: negInf}

	// Trailing edges.  A trailing base either continues the overhang or
	// follows the last overlap cell diagonally, whichever is more likely.
	for j := 1; j <= m; j++ {
		c := singleCall(seqB[j-1], qualB[j-1], t)
		c.adjust(math.Max(x.at(n+1, j-1).Likelihood, x.at(n, j-1).Likelihood))
		*x.at(n+1, j) = c
	}
	for i := 1; i <= n; i++ {
		c := singleCall(seqA[i-1], qualA[i-1], t)
		c.adjust(math.Max(x.at(i-1, m+1).Likelihood, x.at(i-1, m).Likelihood))
		*x.at(i, m+1) = c
	}

	// Terminal.  It has no base and is never a match; the backtrace starts
	// here and immediately moves to the best of its predecessors.
	*x.at(n+1, m+1) = Cell{Likelihood: negInf}
	return x
}

// String renders the consensus bases of the matrix, one row per line.
// Sentinels are shown as '*'.
func (x matrix) String() string {
	var b strings.Builder
	for i := 0; i < x.nRow; i++ {
		b.WriteByte('\n')
		for j := 0; j < x.nCol; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			c := x.at(i, j).Base
			if c == 0 {
				c = '*'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
