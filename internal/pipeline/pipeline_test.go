// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"ccsalign-core/ccs"
	"ccsalign-core/pattern"
	"ccsalign-core/quality"
)

const (
	testFlank5 = "ACTG"
	testFlank3 = "CAT"
)

func testPattern(t *testing.T) *pattern.Pattern {
	t.Helper()
	pat, err := pattern.Compile(testFlank5 + "(?P<read>N+)(?P<barcode>N{4})" + testFlank3)
	if err != nil {
		t.Fatal(err)
	}
	return pat
}

func TestProcessMatchesAndScores(t *testing.T) {
	pat := testPattern(t)
	records := []*ccs.Record{
		{Name: "hit", Seq: []byte(testFlank5 + "GGGG" + "TTTT" + testFlank3), Qual: []byte(strings.Repeat("?", 15))},
		{Name: "miss", Seq: []byte("GGGGGGGGGGGGGGG"), Qual: []byte(strings.Repeat("?", 15))},
		{Name: "noqual", Seq: []byte(testFlank5 + "AAAA" + "CCCC" + testFlank3)},
	}

	matched, err := Process(context.Background(), Config{Threads: 4, Encoding: "sanger"}, records, pat)
	if err != nil {
		t.Fatal(err)
	}
	if matched != 2 {
		t.Errorf("matched = %d, want 2", matched)
	}

	q30 := 1 - math.Pow(10, -3)
	if math.Abs(records[0].Accuracy-q30) > 1e-12 {
		t.Errorf("accuracy = %g, want %g", records[0].Accuracy, q30)
	}
	if !records[0].Matched || string(records[0].Groups["barcode"]) != "TTTT" {
		t.Errorf("hit record = %+v", records[0])
	}
	if records[1].Matched || records[1].Groups != nil {
		t.Errorf("miss record = %+v", records[1])
	}
	if records[2].Accuracy != 0 {
		t.Errorf("noqual accuracy = %g, want 0 (no quals)", records[2].Accuracy)
	}
	if string(records[2].Groups["read"]) != "AAAA" {
		t.Errorf("noqual read = %q", records[2].Groups["read"])
	}
}

func TestProcessRecordEncodingWins(t *testing.T) {
	pat := testPattern(t)
	// '^' is Q61 under sanger but Q30 under illumina-1.3.
	rec := &ccs.Record{Name: "r", Seq: []byte("AC"), Qual: []byte("^^"), Encoding: "illumina-1.3"}
	if _, err := Process(context.Background(), Config{Threads: 1, Encoding: "sanger"}, []*ccs.Record{rec}, pat); err != nil {
		t.Fatal(err)
	}
	want := 1 - math.Pow(10, -3)
	if math.Abs(rec.Accuracy-want) > 1e-12 {
		t.Errorf("accuracy = %g, want %g", rec.Accuracy, want)
	}
}

func TestProcessUnknownEncoding(t *testing.T) {
	pat := testPattern(t)
	records := []*ccs.Record{{Name: "r", Seq: []byte("AC"), Qual: []byte("II")}}
	_, err := Process(context.Background(), Config{Threads: 2, Encoding: "solexa"}, records, pat)
	if !errors.Is(err, quality.ErrUnknownEncoding) {
		t.Errorf("err = %v, want ErrUnknownEncoding", err)
	}
}

// A decode error must stop the feeder too: with one worker and more bad
// records than the jobs buffer holds, Process used to hang after the
// worker exited because nothing drained the channel.
func TestProcessErrorWithBacklog(t *testing.T) {
	pat := testPattern(t)
	var records []*ccs.Record
	for i := 0; i < 10; i++ {
		// '?' is Q30 under sanger but below the illumina-1.3 offset.
		records = append(records, &ccs.Record{Name: fmt.Sprintf("r%d", i), Seq: []byte("ACGT"), Qual: []byte("????")})
	}

	type result struct {
		matched int
		err     error
	}
	done := make(chan result, 1)
	go func() {
		m, err := Process(context.Background(), Config{Threads: 1, Encoding: "illumina-1.3"}, records, pat)
		done <- result{m, err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			t.Fatal("expected a decode error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Process did not return after a quality decode error")
	}
}

func TestProcessCanceled(t *testing.T) {
	pat := testPattern(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var records []*ccs.Record
	for i := 0; i < 1000; i++ {
		records = append(records, &ccs.Record{Name: fmt.Sprintf("r%d", i), Seq: []byte("ACGT"), Qual: []byte("IIII")})
	}
	if _, err := Process(ctx, Config{Threads: 2, Encoding: "sanger"}, records, pat); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	matched, err := Process(context.Background(), Config{Threads: 0, Encoding: "sanger"}, nil, testPattern(t))
	if err != nil || matched != 0 {
		t.Errorf("matched=%d err=%v", matched, err)
	}
}
