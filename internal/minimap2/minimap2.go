// internal/minimap2/minimap2.go

// Package minimap2 wraps the external minimap2 aligner behind the
// core align.Aligner contract: one process per batch, queries handed
// over as FASTA, PAF with a long-form cs tag parsed back out.
package minimap2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/biogo/external"

	"ccsalign-core/align"
	"ccsalign-core/seqio"
)

var ErrMissingRequired = errors.New("minimap2: missing required argument")

// Minimap2 defines parameters for the minimap2 aligner.
type Minimap2 struct {
	// Usage: minimap2 [options] target.fasta queries.fasta
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}minimap2{{end}}"` // minimap2

	// Indexing and mapping options:
	Preset string `buildarg:"{{if .}}-x{{split}}{{.}}{{end}}"` // -x: preset bundle

	// Scoring options:
	MatchScore      int    `buildarg:"{{if .}}-A{{split}}{{.}}{{end}}"`     // -A: matching score
	MismatchPenalty int    `buildarg:"{{if .}}-B{{split}}{{.}}{{end}}"`     // -B: mismatch penalty
	GapOpen         int    `buildarg:"{{if .}}-O{{split}}{{.}}{{end}}"`     // -O: gap open penalty
	GapExtend       int    `buildarg:"{{if .}}-E{{split}}{{.}}{{end}}"`     // -E: gap extension penalty
	EndBonus        int    `buildarg:"{{if .}}--end-bonus={{.}}{{end}}"`    // --end-bonus: bonus for extending to a read end
	NonCanonCost    string `buildarg:"{{if .}}-C{{.}}{{end}}"`              // -C: cost for a non-GT-AG splice ("0" = free)
	SpliceSites     string `buildarg:"{{if .}}-u{{.}}{{end}}"`              // -u: canonical splice site finding ("n" = don't)
	NoSpliceFlank   bool   `buildarg:"{{if .}}--splice-flank=no{{end}}"`    // --splice-flank=no: no flanking-base splice signal
	EndSeedPen      int    `buildarg:"{{if .}}--end-seed-pen={{.}}{{end}}"` // --end-seed-pen: penalty for terminal seeds
	NoSecondary     bool   `buildarg:"{{if .}}--secondary=no{{end}}"`       // --secondary=no: primary alignments only

	// Output options:
	OutCigar bool   `buildarg:"{{if .}}-c{{end}}"`         // -c: output cigar in PAF
	CS       string `buildarg:"{{if .}}--cs={{.}}{{end}}"` // --cs: output the cs difference tag

	// Input files:
	Target  string `buildarg:"{{.}}"` // "target.fasta"
	Queries string `buildarg:"{{.}}"` // "queries.fasta"
}

// BuildCommand returns an exec.Cmd built from the parameters in m.
func (m Minimap2) BuildCommand() (*exec.Cmd, error) {
	if m.Target == "" || m.Queries == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], cl[1:]...), nil
}

// Parameter presets, tuned for the two library designs this tool sees.
var (
	// CodonDMS suits deep mutational scanning amplicons: short
	// indels, scattered codon-level substitutions.
	CodonDMS = Minimap2{
		MatchScore:      2,
		MismatchPenalty: 4,
		GapOpen:         12,
		GapExtend:       2,
		EndBonus:        13,
		NoSecondary:     true,
	}

	// VirusWDel tolerates the long internal deletions of defective
	// viral genomes.
	VirusWDel = Minimap2{
		Preset:        "splice:hq",
		SpliceSites:   "n",
		NonCanonCost:  "0",
		NoSpliceFlank: true,
		EndSeedPen:    2,
		NoSecondary:   true,
	}
)

// Mapper runs one minimap2 invocation per Map call.
type Mapper struct {
	Args   Minimap2 // executable, preset options and target; query file is filled per call
	PAFOut string   // optional: keep the raw PAF report here
}

// Map aligns all queries in a single batch. A process failure or a
// malformed report fails the whole batch; queries minimap2 leaves out of
// the report are simply absent from the returned hits.
func (m *Mapper) Map(ctx context.Context, queries []align.Query) ([]align.Hit, error) {
	if m.Args.Target == "" {
		return nil, ErrMissingRequired
	}

	dir, err := os.MkdirTemp("", "ccsalign-mm2-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	qfile := filepath.Join(dir, "queries.fasta")
	qf, err := os.Create(qfile)
	if err != nil {
		return nil, err
	}
	recs := make([]seqio.Record, len(queries))
	for i, q := range queries {
		recs[i] = seqio.Record{ID: q.Name, Seq: q.Seq}
	}
	if err := seqio.WriteFASTA(qf, recs); err != nil {
		_ = qf.Close()
		return nil, err
	}
	if err := qf.Close(); err != nil {
		return nil, err
	}

	args := m.Args
	args.Queries = qfile
	args.OutCigar = true
	args.CS = "long"
	cl, err := external.Build(args)
	if err != nil {
		return nil, fmt.Errorf("minimap2: %v", err)
	}
	cmd := exec.CommandContext(ctx, cl[0], cl[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("minimap2: %v: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	if m.PAFOut != "" {
		if err := os.WriteFile(m.PAFOut, stdout.Bytes(), 0o644); err != nil {
			return nil, err
		}
	}
	return ParsePAF(stdout.Bytes())
}
