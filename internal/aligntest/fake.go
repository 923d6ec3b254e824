// internal/aligntest/fake.go

// Package aligntest provides a deterministic stand-in for the external
// aligner so pipeline behavior can be tested without a minimap2 binary.
package aligntest

import (
	"context"
	"fmt"

	"ccsalign-core/align"
	"ccsalign-core/cigar"
)

// Fake replays scripted hits. Queries without a script entry are left
// out of the report, the way minimap2 omits unmapped queries.
type Fake struct {
	Hits map[string]align.Hit
	Err  error

	Batches [][]align.Query
}

func (f *Fake) Map(_ context.Context, queries []align.Query) ([]align.Hit, error) {
	f.Batches = append(f.Batches, queries)
	if f.Err != nil {
		return nil, f.Err
	}
	var hits []align.Hit
	for _, q := range queries {
		if h, ok := f.Hits[q.Name]; ok {
			hits = append(hits, h)
		}
	}
	return hits, nil
}

// RightmostHit builds a full-span hit whose indels sit at their
// rightmost equivalent placement: a legal report that maximally
// disagrees with canonical form, which is what a real aligner is free
// to produce. Rightmost is computed by canonicalizing the reversed
// alignment.
func RightmostHit(name, targetName string, target, query []byte, ops cigar.Ops) (align.Hit, error) {
	rev, err := cigar.Canonicalize(reverseOps(ops), reverseSeq(target), reverseSeq(query))
	if err != nil {
		return align.Hit{}, fmt.Errorf("aligntest: %w", err)
	}
	return align.Hit{
		Name:    name,
		Aligned: true,
		Target:  targetName,
		TStart:  0,
		TEnd:    len(target),
		Cigar:   reverseOps(rev),
	}, nil
}

func reverseSeq(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func reverseOps(o cigar.Ops) cigar.Ops {
	out := make(cigar.Ops, len(o))
	for i, op := range o {
		out[len(o)-1-i] = op
	}
	return out
}
