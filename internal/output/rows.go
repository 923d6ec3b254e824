// internal/output/rows.go
package output

import (
	"fmt"
	"strings"

	"ccsalign-core/ccs"
	"ccsalign/pkg/api"
)

// fixed columns before the per-pattern group columns
const leadCols = "name\tlength\tpasses\taccuracy\tmatched"

// and after them
const tailCols = "aligned\tcigar\tclip_start\tclip_end\ttarget"

// Header returns the TSV header for a run; group columns follow the
// pattern's declaration order.
func Header(groups []string) string {
	cols := []string{leadCols}
	cols = append(cols, groups...)
	cols = append(cols, tailCols)
	return strings.Join(cols, "\t")
}

// FormatRowTSV renders one read as a TSV row (no trailing newline).
// Absent values (unmatched groups, never-attempted alignment) are empty
// columns so the column count stays constant.
func FormatRowTSV(rec *ccs.Record, groups []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%d\t%d\t%.6f\t%t", rec.Name, len(rec.Seq), rec.Passes, rec.Accuracy, rec.Matched)
	for _, g := range groups {
		b.WriteByte('\t')
		if rec.Matched {
			b.Write(rec.Groups[g])
		}
	}
	switch al := rec.Alignment; {
	case al == nil:
		b.WriteString("\t\t\t\t\t")
	case !al.Aligned:
		b.WriteString("\tfalse\t\t\t\t")
	default:
		fmt.Fprintf(&b, "\ttrue\t%s\t%d\t%d\t%s", al.Cigar, al.ClipStart, al.ClipEnd, al.Target)
	}
	return b.String()
}

// ToAPI converts a record to its stable JSON shape.
func ToAPI(rec *ccs.Record) api.ReadV1 {
	out := api.ReadV1{
		Name:     rec.Name,
		Length:   len(rec.Seq),
		Passes:   rec.Passes,
		Accuracy: rec.Accuracy,
		Matched:  rec.Matched,
	}
	if rec.Matched {
		out.Groups = make(map[string]string, len(rec.Groups))
		for k, v := range rec.Groups {
			out.Groups[k] = string(v)
		}
	}
	if al := rec.Alignment; al != nil {
		out.Alignment = &api.AlignmentV1{
			Aligned:   al.Aligned,
			ClipStart: al.ClipStart,
			ClipEnd:   al.ClipEnd,
			Target:    al.Target,
		}
		if al.Aligned {
			out.Alignment.Cigar = al.Cigar.String()
		}
	}
	return out
}
