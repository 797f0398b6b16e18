package fastq

import (
	"github.com/grailbio/readmerge/merge"
	"github.com/pkg/errors"
)

const (
	// DefaultQualOffset is the Sanger/Illumina 1.8+ quality offset.
	DefaultQualOffset = 33
	// maxQualChar is the last printable ASCII character.  Encoded qualities
	// are clamped to it.
	maxQualChar = '~'
)

// DecodeQual converts a FASTQ quality string to Phred scores.  Every
// character must be printable and no smaller than offset.
func DecodeQual(qual string, offset int) ([]int, error) {
	q := make([]int, len(qual))
	for i := 0; i < len(qual); i++ {
		c := int(qual[i])
		if c < offset || c > maxQualChar {
			return nil, errors.Errorf("quality character %q at position %d out of range for offset %d", qual[i], i, offset)
		}
		q[i] = c - offset
	}
	return q, nil
}

// EncodeQual converts Phred scores to a FASTQ quality string.  Scores that do
// not fit in a printable character are clamped; negative scores encode as 0.
func EncodeQual(q []int, offset int) string {
	b := make([]byte, len(q))
	for i, v := range q {
		c := v + offset
		if c > maxQualChar {
			c = maxQualChar
		}
		if v < 0 {
			c = offset
		}
		b[i] = byte(c)
	}
	return string(b)
}

// ToMerge converts r to a merge.Read, decoding qualities with the given
// offset.
func ToMerge(r *Read, offset int) (merge.Read, error) {
	if len(r.Seq) != len(r.Qual) {
		return merge.Read{}, errors.Wrapf(ErrLength, "read %s", r.Name())
	}
	q, err := DecodeQual(r.Qual, offset)
	if err != nil {
		return merge.Read{}, errors.Wrapf(err, "read %s", r.Name())
	}
	return merge.Read{Seq: r.Seq, Qual: q}, nil
}

// FromMerge builds a FASTQ record with the given ID line from m.
func FromMerge(id string, m merge.Read, offset int) Read {
	return Read{
		ID:   id,
		Seq:  m.Seq,
		Unk:  "+",
		Qual: EncodeQual(m.Qual, offset),
	}
}
