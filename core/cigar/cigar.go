// core/cigar/cigar.go
package cigar

import (
	"errors"
	"fmt"
	"strings"
)

/* ------------------------------ op model ------------------------------- */

// Kind tags a run-length alignment operation.
type Kind byte

const (
	Match     Kind = 'M' // match or mismatch; consumes ref and query
	Insertion Kind = 'I' // consumes query only
	Deletion  Kind = 'D' // consumes ref only
)

// Op is one run of a single operation kind.
type Op struct {
	Kind Kind
	Len  int
}

// Ops is a full alignment description, leftmost run first.
type Ops []Op

// ErrMalformed reports an alignment string or op list that violates the
// run-length encoding rules.
var ErrMalformed = errors.New("cigar: malformed alignment")

/* ------------------------------- parsing ------------------------------- */

// Parse decodes a run-length alignment string such as "199M5D796M".
// Every run needs a positive length and a known kind tag; the empty
// string is rejected.
func Parse(s string) (Ops, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformed)
	}
	var ops Ops
	n := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			if n < 0 {
				n = 0
			}
			n = n*10 + int(c-'0')
		case c == 'M' || c == 'I' || c == 'D':
			if n <= 0 {
				return nil, fmt.Errorf("%w: run %q has no positive length", ErrMalformed, string(c))
			}
			ops = append(ops, Op{Kind: Kind(c), Len: n})
			n = -1
		default:
			return nil, fmt.Errorf("%w: unrecognized op %q at %d", ErrMalformed, string(c), i)
		}
	}
	if n >= 0 {
		return nil, fmt.Errorf("%w: trailing length without op", ErrMalformed)
	}
	return ops, nil
}

// String serializes ops in canonical form: adjacent runs of the same kind
// are merged and zero-length runs dropped.
func (o Ops) String() string {
	var b strings.Builder
	for _, op := range o.Merge() {
		fmt.Fprintf(&b, "%d%c", op.Len, op.Kind)
	}
	return b.String()
}

// Merge collapses adjacent equal-kind runs and drops empty ones. The
// receiver is not modified.
func (o Ops) Merge() Ops {
	out := make(Ops, 0, len(o))
	for _, op := range o {
		if op.Len == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Kind == op.Kind {
			out[n-1].Len += op.Len
			continue
		}
		out = append(out, op)
	}
	return out
}

/* ----------------------------- accounting ------------------------------ */

// Lengths returns the number of reference and query bases the ops cover.
// M and D consume reference; M and I consume query.
func (o Ops) Lengths() (ref, query int) {
	for _, op := range o {
		switch op.Kind {
		case Match:
			ref += op.Len
			query += op.Len
		case Insertion:
			query += op.Len
		case Deletion:
			ref += op.Len
		}
	}
	return ref, query
}

// Check verifies that ops form a valid alignment of query against ref:
// positive run lengths, known kinds, and exact coverage of both
// sequences. This is the arithmetic half of "applying ops to ref yields
// query"; with the M (match-or-mismatch) convention the substituted bases
// themselves live in the query, not in the encoding.
func Check(ops Ops, ref, query []byte) error {
	for _, op := range ops {
		if op.Len <= 0 {
			return fmt.Errorf("%w: non-positive run %d%c", ErrMalformed, op.Len, op.Kind)
		}
		switch op.Kind {
		case Match, Insertion, Deletion:
		default:
			return fmt.Errorf("%w: unknown op kind %q", ErrMalformed, string(op.Kind))
		}
	}
	r, q := ops.Lengths()
	if r != len(ref) || q != len(query) {
		return fmt.Errorf("%w: ops cover %d ref / %d query bases, sequences are %d / %d",
			ErrMalformed, r, q, len(ref), len(query))
	}
	return nil
}
