// core/align/align.go

// Package align submits matched reads to an external aligner in one
// batch and attaches canonicalized alignments to their records. The
// aligner itself stays behind the Aligner interface so the deterministic
// core never runs a process.
package align

import (
	"context"
	"fmt"

	"ccsalign-core/ccs"
	"ccsalign-core/cigar"
)

// Query is one (name, sequence) pair handed to the aligner.
type Query struct {
	Name string
	Seq  []byte
}

// Hit is the aligner's report for one query. ClipStart/ClipEnd count
// query bases left outside the alignment at each end; TStart/TEnd bound
// the aligned target segment; Cigar covers exactly those segments.
type Hit struct {
	Name      string
	Aligned   bool
	Target    string
	TStart    int
	TEnd      int
	ClipStart int
	ClipEnd   int
	Cigar     cigar.Ops
}

// Aligner maps a whole batch of queries in one call. Process failure or
// a malformed report is an error for the batch; "this query did not
// align" is Aligned=false, not an error.
type Aligner interface {
	Map(ctx context.Context, queries []Query) ([]Hit, error)
}

// Run aligns Groups[sourceField] of every matched record against target.
// Matched records end up with a non-nil Alignment: canonicalized cigar on
// success, Aligned=false when the aligner found nothing (including
// queries the report omits). Unmatched records are not submitted and
// keep Alignment == nil.
func Run(ctx context.Context, records []*ccs.Record, target []byte, a Aligner, sourceField string) error {
	var queries []Query
	for _, rec := range records {
		if !rec.Matched {
			continue
		}
		seq, ok := rec.Groups[sourceField]
		if !ok {
			return fmt.Errorf("align: record %q has no group %q", rec.Name, sourceField)
		}
		queries = append(queries, Query{Name: rec.Name, Seq: seq})
	}
	if len(queries) == 0 {
		return nil
	}

	hits, err := a.Map(ctx, queries)
	if err != nil {
		return fmt.Errorf("align: %w", err)
	}

	byName := ccs.ByName(records)
	aligned := make(map[string]bool, len(hits))
	for _, h := range hits {
		rec, ok := byName[h.Name]
		if !ok {
			return fmt.Errorf("align: aligner reported unknown query %q", h.Name)
		}
		if !h.Aligned {
			rec.Alignment = &ccs.Alignment{Aligned: false}
			aligned[h.Name] = true
			continue
		}
		seq := rec.Groups[sourceField]
		if h.ClipStart < 0 || h.ClipEnd < 0 || h.ClipStart+h.ClipEnd > len(seq) {
			return fmt.Errorf("align: bad clips %d/%d for query %q (length %d)", h.ClipStart, h.ClipEnd, h.Name, len(seq))
		}
		if h.TStart < 0 || h.TEnd > len(target) || h.TStart > h.TEnd {
			return fmt.Errorf("align: bad target span %d-%d for query %q", h.TStart, h.TEnd, h.Name)
		}
		canon, err := cigar.Canonicalize(h.Cigar,
			target[h.TStart:h.TEnd],
			seq[h.ClipStart:len(seq)-h.ClipEnd])
		if err != nil {
			return fmt.Errorf("align: query %q: %w", h.Name, err)
		}
		rec.Alignment = &ccs.Alignment{
			Aligned:   true,
			Cigar:     canon,
			ClipStart: h.ClipStart,
			ClipEnd:   h.ClipEnd,
			Target:    h.Target,
		}
		aligned[h.Name] = true
	}

	// minimap2-style reports simply omit unmapped queries.
	for _, qu := range queries {
		if !aligned[qu.Name] {
			byName[qu.Name].Alignment = &ccs.Alignment{Aligned: false}
		}
	}
	return nil
}
