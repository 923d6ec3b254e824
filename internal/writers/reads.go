// internal/writers/reads.go

// Package writers owns serialization of processed reads: a writer
// goroutine drains a channel so the pipeline never blocks on formatting,
// and broken pipes downstream end the run cleanly.
package writers

import (
	"fmt"
	"io"
	"sort"

	"ccsalign-core/ccs"
	"ccsalign/internal/output"
)

// StartReadWriter spins up a writer goroutine for processed records.
// text streams unless sortRows is set; json always buffers (it emits one
// array). The error channel yields exactly one value after the input
// channel is closed and drained.
func StartReadWriter(out io.Writer, format string, sortRows, header bool, groups []string, bufSize int) (chan<- *ccs.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan *ccs.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "json":
			buf := drain(in)
			if sortRows {
				sortByName(buf)
			}
			err = output.WriteJSON(out, buf)

		case "text":
			if sortRows {
				buf := drain(in)
				sortByName(buf)
				err = output.WriteText(out, buf, groups, header)
			} else {
				err = output.StreamText(out, in, groups, header)
			}

		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		// Keep draining so senders never block after a write error.
		for range in {
		}
		errCh <- err
	}()

	return in, errCh
}

func drain(in <-chan *ccs.Record) []*ccs.Record {
	var buf []*ccs.Record
	for rec := range in {
		buf = append(buf, rec)
	}
	return buf
}

func sortByName(recs []*ccs.Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
}
