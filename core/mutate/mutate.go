// core/mutate/mutate.go

// Package mutate builds ground-truth mutated sequences together with the
// canonical run-length alignment that maps them back to the reference.
// It exists so aligner output can be verified against data whose true
// alignment is known by construction.
package mutate

import (
	"errors"
	"fmt"
	"sort"

	"ccsalign-core/cigar"
)

// Edits are 0-based offsets into the reference. An Insertion at Pos
// places its bases before ref[Pos]; Pos == len(ref) appends.
type Substitution struct {
	Pos  int
	Base byte
}

type Insertion struct {
	Pos int
	Seq []byte
}

type Deletion struct {
	Pos int
	Len int
}

var (
	ErrOutOfRange      = errors.New("mutate: edit out of range")
	ErrOverlappingEdit = errors.New("mutate: overlapping or adjacent edits")
)

// edit is the internal ordered view of one tagged edit.
type edit struct {
	pos, end int // reference span [pos, end)
	sub      byte
	ins      []byte
	del      int
}

// Mutate applies the given edits to ref and returns the mutated sequence
// plus the canonical alignment of mutated against ref. Edits must be
// pairwise separated by at least one unedited reference base; resolving
// overlapping or adjacent edits is the caller's problem.
func Mutate(ref []byte, subs []Substitution, ins []Insertion, dels []Deletion) ([]byte, cigar.Ops, error) {
	edits := make([]edit, 0, len(subs)+len(ins)+len(dels))
	for _, s := range subs {
		if s.Pos < 0 || s.Pos >= len(ref) {
			return nil, nil, fmt.Errorf("%w: substitution at %d, reference length %d", ErrOutOfRange, s.Pos, len(ref))
		}
		edits = append(edits, edit{pos: s.Pos, end: s.Pos + 1, sub: s.Base})
	}
	for _, in := range ins {
		if in.Pos < 0 || in.Pos > len(ref) {
			return nil, nil, fmt.Errorf("%w: insertion at %d, reference length %d", ErrOutOfRange, in.Pos, len(ref))
		}
		if len(in.Seq) == 0 {
			return nil, nil, fmt.Errorf("%w: empty insertion at %d", ErrOutOfRange, in.Pos)
		}
		edits = append(edits, edit{pos: in.Pos, end: in.Pos, ins: in.Seq})
	}
	for _, d := range dels {
		if d.Len <= 0 || d.Pos < 0 || d.Pos+d.Len > len(ref) {
			return nil, nil, fmt.Errorf("%w: deletion of %d at %d, reference length %d", ErrOutOfRange, d.Len, d.Pos, len(ref))
		}
		edits = append(edits, edit{pos: d.Pos, end: d.Pos + d.Len, del: d.Len})
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].pos < edits[j].pos })
	for i := 1; i < len(edits); i++ {
		if edits[i].pos <= edits[i-1].end {
			return nil, nil, fmt.Errorf("%w: edits at %d and %d", ErrOverlappingEdit, edits[i-1].pos, edits[i].pos)
		}
	}

	out := make([]byte, 0, len(ref))
	var ops cigar.Ops
	cursor := 0
	for _, e := range edits {
		if gap := e.pos - cursor; gap > 0 {
			out = append(out, ref[cursor:e.pos]...)
			ops = append(ops, cigar.Op{Kind: cigar.Match, Len: gap})
		}
		switch {
		case e.ins != nil:
			out = append(out, e.ins...)
			ops = append(ops, cigar.Op{Kind: cigar.Insertion, Len: len(e.ins)})
			cursor = e.pos
		case e.del > 0:
			ops = append(ops, cigar.Op{Kind: cigar.Deletion, Len: e.del})
			cursor = e.end
		default:
			out = append(out, e.sub)
			ops = append(ops, cigar.Op{Kind: cigar.Match, Len: 1})
			cursor = e.pos + 1
		}
	}
	if cursor < len(ref) {
		out = append(out, ref[cursor:]...)
		ops = append(ops, cigar.Op{Kind: cigar.Match, Len: len(ref) - cursor})
	}

	// An edit landing at the boundary of a repeated run may admit an
	// equivalent placement further left; re-express it so the returned
	// alignment is the canonical one.
	canon, err := cigar.Canonicalize(ops, ref, out)
	if err != nil {
		return nil, nil, err
	}
	return out, canon, nil
}
