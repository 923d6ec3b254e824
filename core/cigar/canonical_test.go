// core/cigar/canonical_test.go
package cigar

import (
	"math/rand"
	"testing"
)

func mustParse(t *testing.T, s string) Ops {
	t.Helper()
	ops, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return ops
}

func canon(t *testing.T, s string, ref, query string) string {
	t.Helper()
	out, err := Canonicalize(mustParse(t, s), []byte(ref), []byte(query))
	if err != nil {
		t.Fatalf("Canonicalize(%q): %v", s, err)
	}
	return out.String()
}

func TestCanonicalizeHomopolymerDeletion(t *testing.T) {
	// A 1-base deletion inside a 4-base homopolymer is equivalent at any
	// of the 4 positions; canonical form is the leftmost.
	ref, query := "AAAAG", "AAAG"
	for _, in := range []string{"3M1D1M", "2M1D2M", "1M1D3M", "1D4M"} {
		if got := canon(t, in, ref, query); got != "1D4M" {
			t.Errorf("canonical(%s) = %s, want 1D4M", in, got)
		}
	}
}

func TestCanonicalizeInsertionShift(t *testing.T) {
	// Extra G in a GG run: leftmost placement is before the first G.
	ref, query := "ACGT", "ACGGT"
	if got := canon(t, "3M1I1M", ref, query); got != "2M1I2M" {
		t.Errorf("got %s want 2M1I2M", got)
	}
	if got := canon(t, "2M1I2M", ref, query); got != "2M1I2M" {
		t.Errorf("already-canonical input changed to %s", got)
	}
}

func TestCanonicalizeNoShiftAcrossDistinctBases(t *testing.T) {
	ref, query := "ACGTA", "ACTA"
	if got := canon(t, "2M1D2M", ref, query); got != "2M1D2M" {
		t.Errorf("deletion moved without repeated context: %s", got)
	}
}

func TestCanonicalizeMultiBaseRepeat(t *testing.T) {
	// Deleting one AT unit of an (AT)x3 repeat: the unit rotates left
	// cyclically, so any placement reduces to the leftmost one.
	ref, query := "CATATATG", "CATATG"
	want := canon(t, "1M2D5M", ref, query)
	for _, in := range []string{"3M2D3M", "5M2D1M"} {
		if got := canon(t, in, ref, query); got != want {
			t.Errorf("canonical(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestCanonicalizeKeepsCoverage(t *testing.T) {
	ref, query := []byte("AAAATTTTGGGG"), []byte("AAATTTTTGGGG")
	ops := mustParse(t, "4M1D3M1I4M")
	out, err := Canonicalize(ops, ref, query)
	if err != nil {
		t.Fatal(err)
	}
	if err := Check(out, ref, query); err != nil {
		t.Errorf("canonical ops lost coverage: %v", err)
	}
}

func TestCanonicalizeIndelAtAlignmentStart(t *testing.T) {
	// No leading match run: nothing to shift through.
	ref, query := "AAG", "AG"
	if got := canon(t, "1D2M", ref, query); got != "1D2M" {
		t.Errorf("got %s want 1D2M", got)
	}
}

func TestCanonicalizeRejectsBadCoverage(t *testing.T) {
	if _, err := Canonicalize(mustParse(t, "5M"), []byte("ACG"), []byte("ACG")); err == nil {
		t.Fatal("expected coverage error")
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		ref, query, ops := randomAlignment(rng, 50)
		once, err := Canonicalize(ops, ref, query)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		twice, err := Canonicalize(once, ref, query)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if once.String() != twice.String() {
			t.Fatalf("trial %d: not idempotent: %s vs %s", trial, once, twice)
		}
	}
}

func TestCanonicalizeRecoversFromRightmostPlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		ref, query, ops := randomAlignment(rng, 60)
		want, err := Canonicalize(ops, ref, query)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		// Push every indel to its rightmost equivalent placement, the
		// worst case an aligner can legally report.
		adversary := rightmost(t, want, ref, query)
		got, err := Canonicalize(adversary, ref, query)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if got.String() != want.String() {
			t.Fatalf("trial %d: %s canonicalized to %s, want %s", trial, adversary, got, want)
		}
	}
}

/* ------------------------------ helpers -------------------------------- */

// rightmost shifts indels right by canonicalizing the reversed alignment.
func rightmost(t *testing.T, ops Ops, ref, query []byte) Ops {
	t.Helper()
	rev, err := Canonicalize(reverseOps(ops), reverseSeq(ref), reverseSeq(query))
	if err != nil {
		t.Fatal(err)
	}
	return reverseOps(rev)
}

func reverseSeq(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func reverseOps(o Ops) Ops {
	out := make(Ops, len(o))
	for i, op := range o {
		out[len(o)-1-i] = op
	}
	return out
}

// randomAlignment builds a reference (biased toward homopolymers so
// shifts actually trigger), an edited query, and a valid op list.
func randomAlignment(rng *rand.Rand, n int) (ref, query []byte, ops Ops) {
	const nts = "ACGT"
	ref = make([]byte, 0, n)
	for len(ref) < n {
		b := nts[rng.Intn(4)]
		run := 1 + rng.Intn(4)
		for i := 0; i < run && len(ref) < n; i++ {
			ref = append(ref, b)
		}
	}
	query = append([]byte(nil), ref...)
	ops = Ops{{Kind: Match, Len: n}}
	// One indel somewhere in the middle, away from the ends.
	pos := 5 + rng.Intn(n-15)
	l := 1 + rng.Intn(3)
	if rng.Intn(2) == 0 {
		query = append(append([]byte(nil), ref[:pos]...), ref[pos+l:]...)
		ops = Ops{{Match, pos}, {Deletion, l}, {Match, n - pos - l}}
	} else {
		ins := make([]byte, l)
		for i := range ins {
			ins[i] = nts[rng.Intn(4)]
		}
		query = append(append(append([]byte(nil), ref[:pos]...), ins...), ref[pos:]...)
		ops = Ops{{Match, pos}, {Insertion, l}, {Match, n - pos}}
	}
	return ref, query, ops
}
