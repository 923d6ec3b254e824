// core/seqio/fasta.go

// Package seqio reads and writes the plain sequence formats the pipeline
// touches: FASTA for targets and aligner input, FASTQ as an alternative
// read source. Gzip input is detected transparently.
package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Record is one parsed sequence. Qual is nil for FASTA input.
type Record struct {
	ID   string
	Seq  []byte
	Qual []byte
}

// ReadFASTA parses every record from path.
func ReadFASTA(path string) ([]Record, error) {
	rc, err := sniffOpen(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseFASTA(rc)
}

// ParseFASTA parses FASTA records from r. The ID is the header up to the
// first whitespace.
func ParseFASTA(r io.Reader) ([]Record, error) {
	sc := newScanner(r)
	var (
		recs []Record
		cur  *Record
	)
	ln := 0
	for sc.Scan() {
		ln++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			recs = append(recs, Record{ID: firstField(line[1:])})
			cur = &recs[len(recs)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: line %d: sequence before header", ln)
		}
		cur.Seq = append(cur.Seq, bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReadTarget loads the single reference sequence from a FASTA file; more
// than one record (or none) is an error because every read in a run is
// aligned against one target.
func ReadTarget(path string) (Record, error) {
	recs, err := ReadFASTA(path)
	if err != nil {
		return Record{}, err
	}
	if len(recs) != 1 {
		return Record{}, fmt.Errorf("fasta: %s holds %d records, want exactly 1 target", path, len(recs))
	}
	return recs[0], nil
}

// WriteFASTA writes records as minimal single-line FASTA.
func WriteFASTA(w io.Writer, recs []Record) error {
	for _, r := range recs {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", r.ID, r.Seq); err != nil {
			return err
		}
	}
	return nil
}

func firstField(b []byte) string {
	if i := bytes.IndexAny(b, " \t"); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}
