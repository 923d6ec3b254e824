// core/quality/quality.go

// Package quality turns per-base quality encodings into a single
// read-level accuracy estimate.
package quality

import (
	"errors"
	"fmt"
	"math"
)

// Offsets maps a quality-encoding name to its ASCII offset. Adding an
// encoding is a table edit, not a logic change.
var Offsets = map[string]int{
	"sanger":       33,
	"illumina-1.8": 33,
	"illumina-1.3": 64,
	"illumina-1.5": 64,
}

var (
	ErrUnknownEncoding = errors.New("quality: unknown encoding")
	ErrEmptyQuals      = errors.New("quality: empty quality string")
)

// Accuracy decodes qvals with the named encoding and returns the mean
// per-base correctness probability, 1 - 10^(-Q/10) averaged over all
// bases. The mean (not the product) is the conventional long-read
// expected-accuracy statistic: one bad base should not sink a long read.
func Accuracy(qvals []byte, encoding string) (float64, error) {
	offset, ok := Offsets[encoding]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownEncoding, encoding)
	}
	if len(qvals) == 0 {
		return 0, ErrEmptyQuals
	}
	sum := 0.0
	for i, c := range qvals {
		q := int(c) - offset
		if q < 0 {
			return 0, fmt.Errorf("quality: code %q at %d below %s offset %d", string(c), i, encoding, offset)
		}
		sum += 1 - math.Pow(10, -float64(q)/10)
	}
	return sum / float64(len(qvals)), nil
}

// AccuracyScores is Accuracy over raw numeric phred scores, for sources
// (BAM) that store qualities without an ASCII offset.
func AccuracyScores(scores []byte) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrEmptyQuals
	}
	sum := 0.0
	for _, q := range scores {
		sum += 1 - math.Pow(10, -float64(q)/10)
	}
	return sum / float64(len(scores)), nil
}
