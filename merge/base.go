// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

import (
	"github.com/grailbio/base/simd"
)

// complementTable maps every byte to its Watson-Crick complement.  Case is
// preserved, and bytes other than a/c/g/t/A/C/G/T map to themselves.
var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = byte(i)
	}
	for _, p := range [...][2]byte{{'A', 'T'}, {'C', 'G'}, {'a', 't'}, {'c', 'g'}} {
		complementTable[p[0]] = p[1]
		complementTable[p[1]] = p[0]
	}
}

// IsACGT returns true iff c is one of A, C, G, T, in either case.
func IsACGT(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}

// NormalizeBase capitalizes a/c/g/t.  Any other byte, including 'n', is
// returned unchanged.
func NormalizeBase(c byte) byte {
	switch c {
	case 'a':
		return 'A'
	case 'c':
		return 'C'
	case 'g':
		return 'G'
	case 't':
		return 'T'
	}
	return c
}

// ComplementBase returns the complement of c.  'a' maps to 't', 'A' maps to
// 'T', and so on; unrecognized bytes pass through.
func ComplementBase(c byte) byte {
	return complementTable[c]
}

// ReverseComp8 writes the reverse-complement of the ASCII sequence src[] to
// dst[].  Unlike biosimd.ReverseComp8NoValidate, it preserves case and leaves
// non-ACGT bytes untouched.
//
// It panics if len(dst) != len(src).
func ReverseComp8(dst, src []byte) {
	if len(dst) != len(src) {
		panic("ReverseComp8() requires len(dst) == len(src).")
	}
	simd.Reverse8(dst, src)
	for i, c := range dst {
		dst[i] = complementTable[c]
	}
}

// ReverseComplement returns the reverse-complement of seq.
// ReverseComplement(ReverseComplement(s)) == s for every s.
func ReverseComplement(seq string) string {
	dst := make([]byte, len(seq))
	ReverseComp8(dst, []byte(seq))
	return string(dst)
}

// normalizeSeq returns seq with a/c/g/t capitalized.
func normalizeSeq(seq string) []byte {
	b := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b[i] = NormalizeBase(seq[i])
	}
	return b
}

// reverseQual returns a reversed copy of q.
func reverseQual(q []int) []int {
	r := make([]int, len(q))
	for i, invIdx := 0, len(q)-1; i < len(q); i, invIdx = i+1, invIdx-1 {
		r[i] = q[invIdx]
	}
	return r
}
