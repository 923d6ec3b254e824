// internal/bamio/bamio.go

// Package bamio loads PacBio CCS reads from their BAM container. The
// container is treated purely as a provider of (name, sequence,
// qualities, np/rq tags); alignment fields in it are ignored.
package bamio

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"ccsalign-core/ccs"
)

var (
	tagNP = sam.Tag{'n', 'p'} // number of passes
	tagRQ = sam.Tag{'r', 'q'} // instrument read accuracy
)

// LoadReads reads every record from a CCS BAM. Qualities are re-encoded
// as sanger so one decoding path serves BAM and FASTQ input; when the
// container stores no qualities (0xff fill) the instrument's rq value,
// if any, is used as the accuracy instead.
func LoadReads(path string) ([]*ccs.Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	br, err := bam.NewReader(fh, 0)
	if err != nil {
		return nil, fmt.Errorf("bam: %s: %v", path, err)
	}
	defer func() { _ = br.Close() }()

	var out []*ccs.Record
	for {
		r, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bam: %s: %v", path, err)
		}
		rec := &ccs.Record{
			Name:     r.Name,
			Seq:      r.Seq.Expand(),
			Encoding: "sanger",
		}
		if qual, ok := encodeSanger(r.Qual); ok {
			rec.Qual = qual
		} else if rq, ok := auxFloat(r.AuxFields.Get(tagRQ)); ok {
			rec.Accuracy = rq
		}
		if np, ok := auxInt(r.AuxFields.Get(tagNP)); ok {
			rec.Passes = np
		}
		out = append(out, rec)
	}
	return out, nil
}

// encodeSanger turns raw phred scores into sanger-encoded codes.
// BAM marks absent qualities with 0xff bytes.
func encodeSanger(scores []byte) ([]byte, bool) {
	if len(scores) == 0 || scores[0] == 0xff {
		return nil, false
	}
	out := make([]byte, len(scores))
	for i, q := range scores {
		if q > 93 {
			q = 93
		}
		out[i] = q + 33
	}
	return out, true
}

func auxInt(a sam.Aux) (int, bool) {
	if a == nil {
		return 0, false
	}
	switch v := a.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func auxFloat(a sam.Aux) (float64, bool) {
	if a == nil {
		return 0, false
	}
	if v, ok := a.Value().(float32); ok {
		return float64(v), true
	}
	return 0, false
}
