// core/ccs/record.go

// Package ccs holds the per-read record that flows through the pipeline.
package ccs

import "ccsalign-core/cigar"

// Alignment is the outcome of one alignment attempt. A nil *Alignment on
// a Record means alignment was never attempted, which is distinct from
// Aligned == false (attempted, aligner found nothing).
type Alignment struct {
	Aligned   bool
	Cigar     cigar.Ops // canonical form, target coordinates, clips stripped
	ClipStart int       // leading query bases the aligner left unaligned
	ClipEnd   int       // trailing query bases the aligner left unaligned
	Target    string
}

// Record is one CCS read. Records are independent value objects keyed by
// Name; the matcher fills Matched/Groups, the orchestrator fills
// Alignment, nothing else mutates them.
type Record struct {
	Name     string
	Seq      []byte
	Qual     []byte // encoded per Encoding
	Encoding string
	Passes   int // np tag when the container carries one

	Accuracy float64

	Matched bool
	Groups  map[string][]byte

	Alignment *Alignment
}

// ByName indexes records by name. Names are unique per run; a duplicate
// keeps the last record seen.
func ByName(records []*Record) map[string]*Record {
	idx := make(map[string]*Record, len(records))
	for _, r := range records {
		idx[r.Name] = r
	}
	return idx
}
