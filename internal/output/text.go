// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"ccsalign-core/ccs"
)

// WriteText prints one TSV line per read, with an optional header.
func WriteText(w io.Writer, recs []*ccs.Record, groups []string, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, Header(groups)); err != nil {
			return err
		}
	}
	for _, rec := range recs {
		if _, err := fmt.Fprintln(w, FormatRowTSV(rec, groups)); err != nil {
			return err
		}
	}
	return nil
}

// StreamText is WriteText over a channel, for unsorted streaming output.
func StreamText(w io.Writer, in <-chan *ccs.Record, groups []string, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, Header(groups)); err != nil {
			return err
		}
	}
	for rec := range in {
		if _, err := fmt.Fprintln(w, FormatRowTSV(rec, groups)); err != nil {
			return err
		}
	}
	return nil
}
