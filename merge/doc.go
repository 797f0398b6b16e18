// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package merge collapses a pair of overlapping reads, sequenced from opposite
// ends of one fragment, into a single consensus read.
//
// R2 is reverse-complemented so that both reads are on R1's strand, and the
// pair is aligned under a free-end-gap model: each read may overhang the other
// at either end, but the overlap itself is gapless.  Every cell of the
// alignment matrix carries a consensus base, a combined quality and a
// log-likelihood; the backtrace follows the likelihoods from the bottom-right
// corner back to an edge.  Agreeing calls add their qualities, conflicting
// calls keep the stronger base with the quality difference.
//
// A proposed overlap is only trusted when its number of agreeing bases exceeds
// a length-dependent threshold.  Otherwise Merge returns the two reads
// concatenated around a single '-' separator with quality 0.
//
// The quality->log-likelihood and overlap->threshold lookup tables are
// supplied by the caller through the Tables interface; DefaultTables is a
// reasonable starting point.  All functions in this package are safe for
// concurrent use.
package merge
