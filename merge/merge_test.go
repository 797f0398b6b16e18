package merge

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func quals(q, n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = q
	}
	return r
}

func concatQuals(qs ...[]int) []int {
	var r []int
	for _, q := range qs {
		r = append(r, q...)
	}
	return r
}

// The regression pair aligns with a five-base overlap holding four matches.
var (
	regressionA = Read{Seq: "AAAAAAAAAAA", Qual: quals(40, 11)}
	regressionB = Read{Seq: "GGGGGGGGTTTTG", Qual: quals(50, 13)}
)

func TestMergeRegressionRejected(t *testing.T) {
	tables := testTables(0, 1, 2, 3, 4, 4, 5, 6, 6, 7, 7, 8, 8, 8, 9)
	al := Align(regressionA, regressionB, tables)
	expect.EQ(t, al.Overlap, 5)
	expect.EQ(t, al.Matches, 4)
	expect.False(t, al.Significant)
	expect.EQ(t, al.Consensus, Read{
		Seq:  "AAAAAAAAAAA-GGGGGGGGTTTTG",
		Qual: concatQuals(quals(40, 11), []int{0}, quals(50, 13)),
	})
}

func TestMergeRegressionAccepted(t *testing.T) {
	tables := testTables(-1)
	al := Align(regressionA, regressionB, tables)
	expect.EQ(t, al.Overlap, 5)
	expect.EQ(t, al.Matches, 4)
	expect.True(t, al.Significant)
	expect.EQ(t, al.Consensus, Read{
		Seq:  "AAAAAACAAAACCCCCCCC",
		Qual: concatQuals(quals(40, 6), []int{10}, quals(90, 4), quals(50, 8)),
	})
	expect.EQ(t, Merge(regressionA, regressionB, tables), al.Consensus)
}

func TestMergeRegressionDefaultTables(t *testing.T) {
	got := Merge(regressionA, regressionB, DefaultTables)
	expect.EQ(t, got.Seq, "AAAAAAAAAAA-GGGGGGGGTTTTG")
}

func TestMergeOverlap(t *testing.T) {
	const (
		prefix  = "ACGTTGCA"
		overlap = "GATTACAGGC"
		suffix  = "TTCAGG"
	)
	a := Read{Seq: prefix + overlap, Qual: quals(40, len(prefix)+len(overlap))}
	b := Read{Seq: ReverseComplement(overlap + suffix), Qual: quals(40, len(overlap)+len(suffix))}
	al := Align(a, b, DefaultTables)
	expect.True(t, al.Significant)
	expect.EQ(t, al.Overlap, len(overlap))
	expect.EQ(t, al.Matches, len(overlap))
	expect.EQ(t, al.Consensus.Seq, prefix+overlap+suffix)
	expect.EQ(t, len(al.Consensus.Seq), len(a.Seq)+len(b.Seq)-len(overlap))
	expect.EQ(t, al.Consensus.Qual, concatQuals(quals(40, len(prefix)), quals(80, len(overlap)), quals(40, len(suffix))))
}

func TestMergeContained(t *testing.T) {
	const seq = "ACGTACGTTTGACCAGT"
	a := Read{Seq: seq, Qual: quals(30, len(seq))}
	b := Read{Seq: ReverseComplement(seq[3:14]), Qual: quals(20, 11)}
	want := Read{Seq: seq, Qual: concatQuals(quals(30, 3), quals(50, 11), quals(30, 3))}

	al := Align(a, b, DefaultTables)
	expect.EQ(t, al.Overlap, 11)
	expect.EQ(t, al.Matches, 11)
	expect.EQ(t, al.Consensus, want)

	// Lowercase bases are capitalized before alignment.
	lower := Read{Seq: strings.ToLower(seq), Qual: a.Qual}
	expect.EQ(t, Merge(lower, b, DefaultTables), want)
}

func TestMergeIdentical(t *testing.T) {
	const seq = "ACGTACGTTTGACCAGT"
	a := Read{Seq: seq, Qual: quals(30, len(seq))}
	b := Read{Seq: ReverseComplement(seq), Qual: quals(30, len(seq))}
	al := Align(a, b, DefaultTables)
	expect.EQ(t, al.Overlap, len(seq))
	expect.EQ(t, al.Matches, len(seq))
	expect.EQ(t, al.Consensus, Read{Seq: seq, Qual: quals(60, len(seq))})
}

func TestMergeSingleBase(t *testing.T) {
	a := Read{Seq: "A", Qual: []int{40}}
	b := Read{Seq: "T", Qual: []int{40}}
	expect.EQ(t, Merge(a, b, testTables(-1)), Read{Seq: "A", Qual: []int{80}})
	// One base is never significant under the default tables.
	expect.EQ(t, Merge(a, b, DefaultTables), Read{Seq: "A-T", Qual: []int{40, 0, 40}})
}

func TestMergeUnrelated(t *testing.T) {
	a := Read{Seq: "ACGTACGTAC", Qual: quals(30, 10)}
	b := Read{Seq: "nnnnn", Qual: quals(2, 5)}
	al := Align(a, b, DefaultTables)
	expect.EQ(t, al.Matches, 0)
	expect.EQ(t, al.Overlap, 5)
	expect.EQ(t, al.Consensus, Read{
		Seq:  "ACGTACGTAC-nnnnn",
		Qual: concatQuals(quals(30, 10), []int{0}, quals(2, 5)),
	})
}

func TestMergeEmpty(t *testing.T) {
	a := Read{Seq: "ACGT", Qual: []int{1, 2, 3, 4}}
	empty := Read{}

	al := Align(a, empty, DefaultTables)
	expect.EQ(t, al, Alignment{Consensus: a, Significant: true, Passthrough: true})
	al = Align(empty, a, DefaultTables)
	expect.EQ(t, al, Alignment{Consensus: a, Significant: true, Passthrough: true})
	// The result does not alias the input.
	al.Consensus.Qual[0] = 99
	expect.EQ(t, a.Qual[0], 1)

	got := Merge(empty, empty, DefaultTables)
	expect.EQ(t, got.Seq, "")
	expect.EQ(t, len(got.Qual), 0)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	a := Read{Seq: "acgtACGTTT", Qual: quals(30, 10)}
	b := Read{Seq: "AAACGTacgt", Qual: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	Merge(a, b, DefaultTables)
	expect.EQ(t, a, Read{Seq: "acgtACGTTT", Qual: quals(30, 10)})
	expect.EQ(t, b.Qual, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
}

func TestMergePanics(t *testing.T) {
	good := Read{Seq: "ACGT", Qual: quals(30, 4)}
	tests := []struct {
		name   string
		a, b   Read
		tables Tables
	}{
		{"length mismatch", Read{Seq: "ACGT", Qual: quals(30, 3)}, good, DefaultTables},
		{"negative quality", good, Read{Seq: "AC", Qual: []int{30, -1}}, DefaultTables},
		{"nil tables", good, good, nil},
	}
	for _, test := range tests {
		assert.Panics(t, func() { Merge(test.a, test.b, test.tables) }, test.name)
	}
}

func TestReadValidate(t *testing.T) {
	assert.NoError(t, Read{}.Validate())
	assert.NoError(t, Read{Seq: "AC", Qual: []int{0, 93}}.Validate())
	assert.Error(t, Read{Seq: "AC", Qual: []int{0}}.Validate())
	assert.Error(t, Read{Seq: "AC", Qual: []int{0, -3}}.Validate())
}

func randomRead(r *rand.Rand, n int) Read {
	const alphabet = "ACGTACGTACGTn"
	seq := make([]byte, n)
	qual := make([]int, n)
	for i := range seq {
		seq[i] = alphabet[r.Intn(len(alphabet))]
		qual[i] = r.Intn(45)
	}
	return Read{Seq: string(seq), Qual: qual}
}

func TestMergeRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tables := range []Tables{DefaultTables, testTables(-1)} {
		var stats Stats
		for iter := 0; iter < 500; iter++ {
			a := randomRead(r, 1+r.Intn(40))
			b := randomRead(r, 1+r.Intn(40))
			if r.Intn(2) == 0 {
				// Plant a true overlap.
				k := 1 + r.Intn(len(a.Seq))
				b.Seq = ReverseComplement(a.Seq[len(a.Seq)-k:]) + b.Seq
				b.Qual = append(quals(30, k), b.Qual...)
			}
			al := Align(a, b, tables)
			stats.Add(al)
			assert.True(t, al.Matches <= al.Overlap, "%+v %+v", a, b)
			assert.True(t, al.Overlap <= len(a.Seq) && al.Overlap <= len(b.Seq), "%+v %+v", a, b)
			assert.Equal(t, len(al.Consensus.Seq), len(al.Consensus.Qual))
			assert.Equal(t, Significant(al.Matches, al.Overlap, tables), al.Significant)
			if al.Significant {
				assert.Equal(t, len(a.Seq)+len(b.Seq)-al.Overlap, len(al.Consensus.Seq), "%+v %+v", a, b)
			} else {
				assert.Equal(t, a.Seq+"-"+b.Seq, al.Consensus.Seq)
				assert.Equal(t, len(a.Qual)+1+len(b.Qual), len(al.Consensus.Qual))
				assert.Equal(t, 0, al.Consensus.Qual[len(a.Qual)])
			}
		}
		expect.EQ(t, stats.Pairs, 500)
		expect.EQ(t, stats.Merged+stats.Concatenated, 500)
		expect.EQ(t, stats.Passthrough, 0)
	}
}

func TestStats(t *testing.T) {
	var s1, s2 Stats
	s1.Add(Alignment{Matches: 4, Overlap: 5})
	s1.Add(Alignment{Matches: 10, Overlap: 10, Significant: true})
	s2.Add(Alignment{Significant: true, Passthrough: true})
	expect.EQ(t, s1.Merge(s2), Stats{
		Pairs:        3,
		Merged:       1,
		Concatenated: 1,
		Passthrough:  1,
		Matches:      14,
		Overlap:      15,
	})
}
