// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

// move is one step of the backtrace.
//
//	___|___
//	 D | U
//	 L | x
//
// From x, diagonal goes to D, up goes to U (same row, previous column) and
// left goes to L (previous row, same column).
type move uint8

const (
	diagonal move = iota
	up
	left
)

// nextMove picks the backtrace step out of (i, j).  Up is only eligible on
// the trailing row and left only on the trailing column; elsewhere the
// alignment is gapless.  Diagonal wins ties, then up.
func (x matrix) nextMove(i, j int) move {
	upL, leftL := negInf, negInf
	if i == x.n+1 {
		upL = x.at(i, j-1).Likelihood
	}
	if j == x.m+1 {
		leftL = x.at(i-1, j).Likelihood
	}
	diagL := x.at(i-1, j-1).Likelihood
	switch {
	case diagL >= upL && diagL >= leftL:
		return diagonal
	case upL >= leftL:
		return up
	default:
		return left
	}
}

// trace is the result of a backtrace.
type trace struct {
	seq     []byte
	qual    []int
	matches int
	overlap int
}

// backtrace walks from the terminal cell back to a leading edge and returns
// the consensus in left-to-right order.
func (x matrix) backtrace() trace {
	tr := trace{
		seq:  make([]byte, 0, x.n+x.m),
		qual: make([]int, 0, x.n+x.m),
	}
	emit := func(i, j int) {
		c := x.at(i, j)
		if c.Base == 0 {
			return
		}
		tr.seq = append(tr.seq, c.Base)
		tr.qual = append(tr.qual, c.Qual)
	}

	i, j := x.n+1, x.m+1
	for i > 0 && j > 0 {
		switch x.nextMove(i, j) {
		case diagonal:
			i--
			j--
			if x.overlapCell(i, j) {
				tr.overlap++
				if x.at(i, j).Match {
					tr.matches++
				}
			}
		case up:
			j--
		case left:
			i--
		}
		emit(i, j)
	}
	// Drain the leading overhang.  The cell at (i, j) was emitted by the last
	// move.
	for ; i > 1; i-- {
		emit(i-1, j)
	}
	for ; j > 1; j-- {
		emit(i, j-1)
	}

	for l, r := 0, len(tr.seq)-1; l < r; l, r = l+1, r-1 {
		tr.seq[l], tr.seq[r] = tr.seq[r], tr.seq[l]
		tr.qual[l], tr.qual[r] = tr.qual[r], tr.qual[l]
	}
	return tr
}
