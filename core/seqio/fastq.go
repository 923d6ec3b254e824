// core/seqio/fastq.go
package seqio

import (
	"bytes"
	"fmt"
	"io"
)

// ReadFASTQ parses every 4-line record from path. Quality codes are kept
// exactly as encoded; decoding belongs to the quality package.
func ReadFASTQ(path string) ([]Record, error) {
	rc, err := sniffOpen(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseFASTQ(rc)
}

func ParseFASTQ(r io.Reader) ([]Record, error) {
	sc := newScanner(r)
	var recs []Record
	ln := 0
	next := func() ([]byte, bool) {
		for sc.Scan() {
			ln++
			line := bytes.TrimRight(sc.Bytes(), "\r\n")
			return line, true
		}
		return nil, false
	}
	for {
		head, ok := next()
		if !ok {
			break
		}
		if len(bytes.TrimSpace(head)) == 0 {
			continue
		}
		if head[0] != '@' {
			return nil, fmt.Errorf("fastq: line %d: expected @header, got %q", ln, head)
		}
		seq, ok := next()
		if !ok {
			return nil, fmt.Errorf("fastq: line %d: truncated record", ln)
		}
		plus, ok := next()
		if !ok || len(plus) == 0 || plus[0] != '+' {
			return nil, fmt.Errorf("fastq: line %d: expected '+' separator", ln)
		}
		qual, ok := next()
		if !ok {
			return nil, fmt.Errorf("fastq: line %d: truncated record", ln)
		}
		if len(qual) != len(seq) {
			return nil, fmt.Errorf("fastq: line %d: %d quality codes for %d bases", ln, len(qual), len(seq))
		}
		recs = append(recs, Record{
			ID:   firstField(head[1:]),
			Seq:  bytes.ToUpper(append([]byte(nil), seq...)),
			Qual: append([]byte(nil), qual...),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
