// core/pattern/pattern.go

// Package pattern matches whole reads against a nucleotide template with
// named capture groups, e.g.
//
//	ACGAGT(?P<read>N+)(?P<barcode>N{12})TTCAGA
//
// N is the any-base wildcard; everything else is ordinary regexp syntax
// over the ACGT alphabet. A match is all-or-nothing over the entire
// sequence: a partial match at either end does not count.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"ccsalign-core/ccs"
)

type Pattern struct {
	re     *regexp.Regexp
	groups []string
}

// Compile expands N wildcards and anchors the template to the full
// sequence.
func Compile(template string) (*Pattern, error) {
	re, err := regexp.Compile(`\A` + expandN(template) + `\z`)
	if err != nil {
		return nil, fmt.Errorf("pattern: %v", err)
	}
	var groups []string
	for _, name := range re.SubexpNames() {
		if name != "" {
			groups = append(groups, name)
		}
	}
	return &Pattern{re: re, groups: groups}, nil
}

// expandN rewrites each N outside a character class to [ACGT]. N inside
// brackets is left alone so templates may use classes directly, and
// group names ((?P<...>) may contain a literal N.
func expandN(template string) string {
	out := make([]byte, 0, len(template)+8)
	inClass := false
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && i+1 < len(template):
			out = append(out, c, template[i+1])
			i++
		case !inClass && strings.HasPrefix(template[i:], "(?P<"):
			end := strings.IndexByte(template[i:], '>')
			if end < 0 {
				// Unterminated group name; let regexp.Compile report it.
				return string(append(out, template[i:]...))
			}
			out = append(out, template[i:i+end+1]...)
			i += end
		case c == '[':
			inClass = true
			out = append(out, c)
		case c == ']':
			inClass = false
			out = append(out, c)
		case c == 'N' && !inClass:
			out = append(out, "[ACGT]"...)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// GroupNames lists the named capture groups in template order.
func (p *Pattern) GroupNames() []string { return append([]string(nil), p.groups...) }

// Match extracts all named groups from seq, or reports ok=false with no
// groups at all.
func (p *Pattern) Match(seq []byte) (map[string][]byte, bool) {
	m := p.re.FindSubmatch(seq)
	if m == nil {
		return nil, false
	}
	groups := make(map[string][]byte, len(p.groups))
	for i, name := range p.re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		groups[name] = append([]byte(nil), m[i]...)
	}
	return groups, true
}

// MatchRecord applies the pattern to one record, setting Matched and, on
// success, Groups.
func (p *Pattern) MatchRecord(rec *ccs.Record) {
	groups, ok := p.Match(rec.Seq)
	rec.Matched = ok
	rec.Groups = groups
}
