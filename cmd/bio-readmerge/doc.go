/*
bio-readmerge merges the two reads of each paired-end FASTQ pair into a single
read when they overlap.

When a fragment is shorter than twice the read length, the end of R1 and the
end of R2 cover the same bases from opposite strands. bio-readmerge aligns R1
against the reverse-complement of R2 with free end gaps, scoring each position
by its Phred quality, and keeps the overlap only if it has significantly more
matching bases than two unrelated reads would. In the overlap, agreeing calls
add their qualities; conflicting calls keep the better base with the quality
difference.

Sample usage:

	bio-readmerge merge \
	    -r1 sample_R1.fastq.gz \
	    -r2 sample_R2.fastq.gz \
	    -out merged.fastq.gz \
	    -report merged.tsv

Pairs that cannot be merged are written as R1, '-', and R2, so the output has
exactly one read per input pair.

"bio-readmerge tables" prints the default scoring tables. An edited copy can be
passed back with "merge -tables".
*/
package main
