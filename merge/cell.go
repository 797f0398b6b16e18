// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

// Cell is one entry of the alignment matrix: the consensus call emitted when a
// path passes through it, and the best log-likelihood of any path reaching
// it.
type Cell struct {
	// Base is the consensus base, or 0 for sentinel cells.
	Base byte
	// Qual is the combined Phred quality of Base.
	Qual int
	// Likelihood is the log-likelihood of the best path ending here.
	Likelihood float64
	// Match is true iff the cell combines two agreeing calls.
	Match bool
}

// Combine resolves two base calls for the same position.
//
// Agreeing calls reinforce each other: the result keeps the base with quality
// qualA+qualB.  Conflicting calls keep the base with the higher quality (baseA
// on a tie) with quality |qualA-qualB|.  In both cases the likelihood is
// looked up from the combined quality's bucket.
func Combine(baseA byte, qualA int, baseB byte, qualB int, t Tables) Cell {
	c := Cell{}
	switch {
	case baseA == baseB:
		c.Base, c.Qual, c.Match = baseA, qualA+qualB, true
	case qualA >= qualB:
		c.Base, c.Qual = baseA, qualA-qualB
	default:
		c.Base, c.Qual = baseB, qualB-qualA
	}
	c.Likelihood = t.LogLikelihood(c.Qual / 10)
	return c
}

// singleCall is the cell for a base covered by only one read.
func singleCall(base byte, qual int, t Tables) Cell {
	return Cell{Base: base, Qual: qual, Likelihood: t.LogLikelihood(qual / 10)}
}

// adjust adds the likelihood of the best predecessor.  It is the only
// mutation a cell sees after construction.
func (c *Cell) adjust(pred float64) {
	c.Likelihood += pred
}
