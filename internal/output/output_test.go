// internal/output/output_test.go
package output

import (
	"encoding/json"
	"strings"
	"testing"

	"ccsalign-core/ccs"
	"ccsalign-core/cigar"
	"ccsalign/pkg/api"
)

var testGroups = []string{"read", "barcode"}

func alignedRec() *ccs.Record {
	ops, _ := cigar.Parse("199M5D795M")
	return &ccs.Record{
		Name:     "m54019/1234/ccs",
		Seq:      []byte(strings.Repeat("A", 1030)),
		Passes:   11,
		Accuracy: 0.999,
		Matched:  true,
		Groups: map[string][]byte{
			"read":    []byte(strings.Repeat("A", 995)),
			"barcode": []byte("ACGTACGTACGT"),
		},
		Alignment: &ccs.Alignment{
			Aligned:   true,
			Cigar:     ops,
			ClipStart: 2,
			ClipEnd:   0,
			Target:    "amplicon",
		},
	}
}

func TestHeader(t *testing.T) {
	want := "name\tlength\tpasses\taccuracy\tmatched\tread\tbarcode\taligned\tcigar\tclip_start\tclip_end\ttarget"
	if got := Header(testGroups); got != want {
		t.Errorf("Header = %q, want %q", got, want)
	}
}

func TestFormatRowTSV(t *testing.T) {
	cases := []struct {
		name string
		rec  *ccs.Record
		want string
	}{
		{
			"aligned",
			alignedRec(),
			"m54019/1234/ccs\t1030\t11\t0.999000\ttrue\t" + strings.Repeat("A", 995) +
				"\tACGTACGTACGT\ttrue\t199M5D795M\t2\t0\tamplicon",
		},
		{
			"unmatched",
			&ccs.Record{Name: "junk", Seq: []byte("ACGT"), Accuracy: 0.5},
			"junk\t4\t0\t0.500000\tfalse\t\t\t\t\t\t\t",
		},
		{
			"matched unaligned",
			&ccs.Record{
				Name: "nohit", Seq: []byte("ACGTACGT"), Accuracy: 0.25, Matched: true,
				Groups:    map[string][]byte{"read": []byte("CG"), "barcode": []byte("TA")},
				Alignment: &ccs.Alignment{Aligned: false},
			},
			"nohit\t8\t0\t0.250000\ttrue\tCG\tTA\tfalse\t\t\t\t",
		},
	}
	for _, c := range cases {
		if got := FormatRowTSV(c.rec, testGroups); got != c.want {
			t.Errorf("%s:\n got %q\nwant %q", c.name, got, c.want)
		}
	}
	// Column count never varies.
	want := len(strings.Split(Header(testGroups), "\t"))
	for _, c := range cases {
		if n := len(strings.Split(FormatRowTSV(c.rec, testGroups), "\t")); n != want {
			t.Errorf("%s: %d columns, want %d", c.name, n, want)
		}
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	recs := []*ccs.Record{
		{Name: "a", Seq: []byte("AC")},
		{Name: "b", Seq: []byte("GT")},
	}
	if err := WriteText(&b, recs, nil, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), b.String())
	}
	if !strings.HasPrefix(lines[0], "name\t") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "a\t") || !strings.HasPrefix(lines[2], "b\t") {
		t.Errorf("rows = %q", lines[1:])
	}
}

func TestStreamText(t *testing.T) {
	in := make(chan *ccs.Record, 2)
	in <- &ccs.Record{Name: "a", Seq: []byte("AC")}
	in <- &ccs.Record{Name: "b", Seq: []byte("GT")}
	close(in)

	var b strings.Builder
	if err := StreamText(&b, in, nil, false); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(b.String(), "\n"); got != 2 {
		t.Errorf("got %d lines", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	recs := []*ccs.Record{
		alignedRec(),
		{Name: "junk", Seq: []byte("ACGT"), Accuracy: 0.5},
	}
	if err := WriteJSON(&b, recs); err != nil {
		t.Fatal(err)
	}

	var rows []api.ReadV1
	if err := json.Unmarshal([]byte(b.String()), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Name != "m54019/1234/ccs" || rows[0].Alignment == nil ||
		rows[0].Alignment.Cigar != "199M5D795M" || rows[0].Groups["barcode"] != "ACGTACGTACGT" {
		t.Errorf("aligned row = %+v", rows[0])
	}
	if rows[1].Matched || rows[1].Groups != nil || rows[1].Alignment != nil {
		t.Errorf("junk row = %+v", rows[1])
	}

	// Unmatched reads must not leak group or alignment keys.
	if strings.Count(b.String(), "\"groups\"") != 1 {
		t.Errorf("groups key count wrong in %s", b.String())
	}
}
