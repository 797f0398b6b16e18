// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

// Stats summarizes a batch of Align calls.
type Stats struct {
	// Pairs is the # of read pairs aligned.
	Pairs int
	// Merged is the # of pairs with a significant overlap.
	Merged int
	// Concatenated is the # of pairs joined with a separator.
	Concatenated int
	// Passthrough is the # of pairs where one read was empty.
	Passthrough int
	// Matches is the total # of agreeing bases over all overlaps, merged or
	// not.
	Matches int
	// Overlap is the total overlap length over all pairs.
	Overlap int
}

// Add records one alignment.
func (s *Stats) Add(a Alignment) {
	s.Pairs++
	switch {
	case a.Passthrough:
		s.Passthrough++
	case !a.Significant:
		s.Concatenated++
	default:
		s.Merged++
	}
	s.Matches += a.Matches
	s.Overlap += a.Overlap
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Pairs += o.Pairs
	s.Merged += o.Merged
	s.Concatenated += o.Concatenated
	s.Passthrough += o.Passthrough
	s.Matches += o.Matches
	s.Overlap += o.Overlap
	return s
}
