// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"ccsalign-core/align"
	"ccsalign-core/ccs"
	"ccsalign-core/pattern"
	"ccsalign-core/seqio"
	"ccsalign/internal/bamio"
	"ccsalign/internal/cli"
	"ccsalign/internal/minimap2"
	"ccsalign/internal/pipeline"
	"ccsalign/internal/version"
	"ccsalign/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("ccsalign")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "ccsalign version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	var aligner align.Aligner
	if !opts.NoAlign {
		args := minimap2.CodonDMS
		if opts.Preset == cli.PresetVirusWDel {
			args = minimap2.VirusWDel
		}
		args.Cmd = opts.Minimap2
		args.Target = opts.Target
		aligner = &minimap2.Mapper{Args: args, PAFOut: opts.PAF}
	}
	return run(parent, opts, aligner, stdout, stderr)
}

// run is the wiring behind RunContext, with the aligner injectable so
// tests can use a stand-in instead of a minimap2 binary.
func run(parent context.Context, opts cli.Options, aligner align.Aligner, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	pat, err := pattern.Compile(opts.Pattern)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if aligner != nil && !hasGroup(pat, opts.SourceField) {
		_, _ = fmt.Fprintf(stderr, "error: --source-field %q is not a named group of the pattern\n", opts.SourceField)
		return 2
	}

	records, err := loadReads(opts, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	matched, perr := pipeline.Process(ctx, pipeline.Config{
		Threads:  thr,
		Encoding: opts.Encoding,
	}, records, pat)
	if perr == nil && aligner != nil {
		var target seqio.Record
		target, perr = seqio.ReadTarget(opts.Target)
		if perr == nil {
			perr = align.Run(ctx, records, target.Seq, aligner, opts.SourceField)
		}
	}
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}

	inCh, writeErr := writers.StartReadWriter(outw, opts.Output, opts.Sort, opts.Header, pat.GroupNames(), thr*4)
	for _, rec := range records {
		inCh <- rec
	}
	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if matched == 0 {
		return 1
	}
	return 0
}

func hasGroup(pat *pattern.Pattern, name string) bool {
	for _, g := range pat.GroupNames() {
		if g == name {
			return true
		}
	}
	return false
}

// loadReads pulls records from every input container, keeping input
// order. Duplicate names break record identity, so they are rejected.
func loadReads(opts cli.Options, stderr io.Writer) ([]*ccs.Record, error) {
	var records []*ccs.Record
	for _, path := range opts.Bams {
		recs, err := bamio.LoadReads(path)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	for _, path := range opts.Fastqs {
		recs, err := seqio.ReadFASTQ(path)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			records = append(records, &ccs.Record{
				Name:     r.ID,
				Seq:      r.Seq,
				Qual:     r.Qual,
				Encoding: opts.Encoding,
			})
		}
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate read name %q in input", r.Name)
		}
		seen[r.Name] = true
	}
	if len(records) == 0 && !opts.Quiet {
		_, _ = fmt.Fprintln(stderr, "WARN: no reads in input")
	}
	return records, nil
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
