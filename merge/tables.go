// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package merge

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// Tables supplies the two lookup tables the aligner scores with.
// Implementations must be safe for concurrent reads; the aligner never
// modifies them.
type Tables interface {
	// LogLikelihood returns the log-likelihood contributed by a base call
	// whose quality falls in the given bucket (quality / 10).  Larger buckets
	// must not yield smaller values.
	LogLikelihood(bucket int) float64
	// Threshold returns the number of matching bases an overlap of the given
	// length must strictly exceed to be accepted.
	Threshold(overlap int) int
}

// StaticTables is a Tables backed by two slices.  Lookups past the end of a
// slice return its last entry; negative lookups return the first.
type StaticTables struct {
	LogLikelihoods []float64
	Thresholds     []int
}

// NewStaticTables validates the given tables and wraps them.  Log-likelihoods
// must be at most 0 and non-decreasing.  The slices are retained, not copied.
func NewStaticTables(logLikelihoods []float64, thresholds []int) (*StaticTables, error) {
	if len(logLikelihoods) == 0 {
		return nil, errors.E(errors.Invalid, "empty log-likelihood table")
	}
	if len(thresholds) == 0 {
		return nil, errors.E(errors.Invalid, "empty threshold table")
	}
	for i, v := range logLikelihoods {
		switch {
		case math.IsNaN(v):
			return nil, errors.E(errors.Invalid, fmt.Sprintf("log-likelihood table: NaN at bucket %d", i))
		case v > 0:
			return nil, errors.E(errors.Invalid, fmt.Sprintf("log-likelihood table: %v at bucket %d is not a log-probability", v, i))
		case i > 0 && v < logLikelihoods[i-1]:
			return nil, errors.E(errors.Invalid, fmt.Sprintf("log-likelihood table: bucket %d is less likely than bucket %d", i, i-1))
		}
	}
	return &StaticTables{LogLikelihoods: logLikelihoods, Thresholds: thresholds}, nil
}

// LogLikelihood implements Tables.
func (t *StaticTables) LogLikelihood(bucket int) float64 {
	if bucket >= len(t.LogLikelihoods) {
		bucket = len(t.LogLikelihoods) - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return t.LogLikelihoods[bucket]
}

// Threshold implements Tables.
func (t *StaticTables) Threshold(overlap int) int {
	if overlap >= len(t.Thresholds) {
		overlap = len(t.Thresholds) - 1
	}
	if overlap < 0 {
		overlap = 0
	}
	return t.Thresholds[overlap]
}

const (
	// nQualBucket covers Phred 0-99 in steps of 10.
	nQualBucket = 10
	// maxThresholdOverlap is the longest overlap with its own entry in
	// DefaultTables.Thresholds.
	maxThresholdOverlap = 512
	// chanceMatchProb is the probability that two unrelated bases agree.
	chanceMatchProb = 0.25
	// significanceLevel bounds the probability that an overlap between
	// unrelated reads is accepted.
	significanceLevel = 0.001
)

// DefaultTables is built once at init time.
//
// LogLikelihoods[b] is the natural log of the probability that a call of
// Phred quality 10*b+5 (the middle of bucket b) is correct.
//
// Thresholds[o] is the smallest t with P(X > t) <= 0.001 for X ~ Binomial(o,
// 1/4), i.e. the number of matches that two unrelated sequences would exceed
// by chance at most once in a thousand overlaps of length o.  Overlaps shorter
// than 5 bases can never reach that level; their threshold equals their
// length, so they are always rejected.
var DefaultTables *StaticTables

func init() {
	ll := make([]float64, nQualBucket)
	for b := range ll {
		errProb := math.Exp(float64(10*b+5) * (-0.1 * math.Ln10))
		ll[b] = math.Log1p(-errProb)
	}
	th := make([]int, maxThresholdOverlap+1)
	for o := range th {
		th[o] = binomialThreshold(o, chanceMatchProb, significanceLevel)
	}
	DefaultTables = &StaticTables{LogLikelihoods: ll, Thresholds: th}
}

// binomialThreshold returns the smallest t such that P(X > t) <= alpha, where
// X ~ Binomial(n, p).
func binomialThreshold(n int, p, alpha float64) int {
	lgN, _ := math.Lgamma(float64(n + 1))
	logP, logQ := math.Log(p), math.Log1p(-p)
	tail := 0.0
	for x := n; x >= 0; x-- {
		lgX, _ := math.Lgamma(float64(x + 1))
		lgNX, _ := math.Lgamma(float64(n - x + 1))
		pmf := math.Exp(lgN - lgX - lgNX + float64(x)*logP + float64(n-x)*logQ)
		if tail+pmf > alpha {
			return x
		}
		tail += pmf
	}
	return -1
}
