// core/cigar/canonical.go
package cigar

// Canonicalize rewrites ops so that every insertion and deletion run sits
// at the leftmost of its equivalent placements. An aligner may put an
// indel anywhere inside a run of repeated flanking bases and still
// describe the same alignment; ground-truth comparison needs one
// deterministic representative, and that representative is leftmost.
//
// A deletion of ref[r:r+L] moves one base left while ref[r-1] equals
// ref[r+L-1]; an insertion covering query[q:q+L] moves one base left
// while query[q-1] equals query[q+L-1]. A shift is capped by the length
// of the match run immediately before the indel, so it never crosses a
// neighboring indel. The flanking match runs only change where they
// split; total reference and query coverage is preserved.
//
// Canonicalize is idempotent, and ref/query must be exactly the segments
// the ops describe (clip-stripped, in target coordinates).
func Canonicalize(o Ops, ref, query []byte) (Ops, error) {
	ops := o.Merge()
	if err := Check(ops, ref, query); err != nil {
		return nil, err
	}

	out := make(Ops, 0, len(ops))
	r, q := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case Match:
			push(&out, op)
			r += op.Len
			q += op.Len
		case Deletion:
			shift, room := 0, leadRoom(out)
			for shift < room && ref[r-shift-1] == ref[r+op.Len-shift-1] {
				shift++
			}
			emitShifted(&out, op, shift)
			r += op.Len
		case Insertion:
			shift, room := 0, leadRoom(out)
			for shift < room && query[q-shift-1] == query[q+op.Len-shift-1] {
				shift++
			}
			emitShifted(&out, op, shift)
			q += op.Len
		}
	}
	return out.Merge(), nil
}

// leadRoom is how far left an indel may slide: the length of the match
// run it would slide through, zero when the previous run is another indel
// or the alignment start.
func leadRoom(out Ops) int {
	if n := len(out); n > 0 && out[n-1].Kind == Match {
		return out[n-1].Len
	}
	return 0
}

// emitShifted moves `shift` bases of the preceding match run to after the
// indel and appends the indel itself.
func emitShifted(out *Ops, indel Op, shift int) {
	if shift > 0 {
		n := len(*out)
		(*out)[n-1].Len -= shift
		if (*out)[n-1].Len == 0 {
			*out = (*out)[:n-1]
		}
	}
	push(out, indel)
	if shift > 0 {
		push(out, Op{Kind: Match, Len: shift})
	}
}

// push appends with immediate merge so leadRoom always sees a single
// maximal match run.
func push(out *Ops, op Op) {
	if op.Len == 0 {
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].Kind == op.Kind {
		(*out)[n-1].Len += op.Len
		return
	}
	*out = append(*out, op)
}
