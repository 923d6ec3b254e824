// internal/minimap2/paf.go
package minimap2

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"ccsalign-core/align"
	"ccsalign-core/cigar"
)

// ParsePAF converts a PAF report with cs tags into hits, keeping the
// first (primary) line per query. Reverse-strand hits mean the read is
// not the expected construct and count as unaligned, so they are
// dropped like unmapped queries.
func ParsePAF(report []byte) ([]align.Hit, error) {
	var hits []align.Hit
	seen := make(map[string]bool)
	for ln, line := range bytes.Split(report, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		h, strand, err := parsePAFLine(string(line))
		if err != nil {
			return nil, fmt.Errorf("paf line %d: %w", ln+1, err)
		}
		if seen[h.Name] || strand != '+' {
			continue
		}
		seen[h.Name] = true
		hits = append(hits, h)
	}
	return hits, nil
}

func parsePAFLine(line string) (align.Hit, byte, error) {
	f := strings.Split(line, "\t")
	if len(f) < 12 {
		return align.Hit{}, 0, fmt.Errorf("%d fields, want >= 12", len(f))
	}
	qlen, err := strconv.Atoi(f[1])
	if err != nil {
		return align.Hit{}, 0, fmt.Errorf("bad query length %q", f[1])
	}
	qstart, err := strconv.Atoi(f[2])
	if err != nil {
		return align.Hit{}, 0, fmt.Errorf("bad query start %q", f[2])
	}
	qend, err := strconv.Atoi(f[3])
	if err != nil {
		return align.Hit{}, 0, fmt.Errorf("bad query end %q", f[3])
	}
	if len(f[4]) != 1 {
		return align.Hit{}, 0, fmt.Errorf("bad strand %q", f[4])
	}
	tstart, err := strconv.Atoi(f[7])
	if err != nil {
		return align.Hit{}, 0, fmt.Errorf("bad target start %q", f[7])
	}
	tend, err := strconv.Atoi(f[8])
	if err != nil {
		return align.Hit{}, 0, fmt.Errorf("bad target end %q", f[8])
	}

	var ops cigar.Ops
	found := false
	for _, tag := range f[12:] {
		if cs, ok := strings.CutPrefix(tag, "cs:Z:"); ok {
			ops, err = ParseCS(cs)
			if err != nil {
				return align.Hit{}, 0, err
			}
			found = true
			break
		}
	}
	if !found {
		return align.Hit{}, 0, fmt.Errorf("no cs tag (need --cs=long)")
	}

	return align.Hit{
		Name:      f[0],
		Aligned:   true,
		Target:    f[5],
		TStart:    tstart,
		TEnd:      tend,
		ClipStart: qstart,
		ClipEnd:   qlen - qend,
		Cigar:     ops,
	}, f[4][0], nil
}

// ParseCS converts a cs tag into run-length ops. Long form spells
// matches as =SEQ, substitutions as *rq, indels as +seq/-seq; the short
// form's :N match runs are accepted too.
func ParseCS(cs string) (cigar.Ops, error) {
	var ops cigar.Ops
	i := 0
	for i < len(cs) {
		switch cs[i] {
		case '=':
			j := i + 1
			for j < len(cs) && isBase(cs[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("cs: empty = run at %d", i)
			}
			ops = append(ops, cigar.Op{Kind: cigar.Match, Len: j - i - 1})
			i = j
		case ':':
			j := i + 1
			n := 0
			for j < len(cs) && cs[j] >= '0' && cs[j] <= '9' {
				n = n*10 + int(cs[j]-'0')
				j++
			}
			if j == i+1 || n == 0 {
				return nil, fmt.Errorf("cs: bad match run at %d", i)
			}
			ops = append(ops, cigar.Op{Kind: cigar.Match, Len: n})
			i = j
		case '*':
			if i+2 >= len(cs) || !isBaseLower(cs[i+1]) || !isBaseLower(cs[i+2]) {
				return nil, fmt.Errorf("cs: bad substitution at %d", i)
			}
			ops = append(ops, cigar.Op{Kind: cigar.Match, Len: 1})
			i += 3
		case '+', '-':
			kind := cigar.Insertion
			if cs[i] == '-' {
				kind = cigar.Deletion
			}
			j := i + 1
			for j < len(cs) && isBaseLower(cs[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("cs: empty indel at %d", i)
			}
			ops = append(ops, cigar.Op{Kind: kind, Len: j - i - 1})
			i = j
		default:
			return nil, fmt.Errorf("cs: unexpected %q at %d", string(cs[i]), i)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("cs: empty tag")
	}
	return ops.Merge(), nil
}

func isBase(c byte) bool {
	return c == 'A' || c == 'C' || c == 'G' || c == 'T' || c == 'N'
}

func isBaseLower(c byte) bool {
	return c == 'a' || c == 'c' || c == 'g' || c == 't' || c == 'n'
}
