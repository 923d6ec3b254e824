// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
)

// Aligner presets
const (
	PresetCodonDMS  = "codon-dms"
	PresetVirusWDel = "virus-w-del"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Read input
	Bams     []string
	Fastqs   []string
	Encoding string

	// Matching
	Pattern     string
	SourceField string

	// Alignment
	Target   string
	Minimap2 string
	Preset   string
	PAF      string
	NoAlign  bool

	// Performance
	Threads int

	// Output
	Output string
	Sort   bool
	Header bool // true unless --no-header
	Quiet  bool

	Version bool
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Read input
	var bams, fastqs stringSlice
	fs.Var(&bams, "bam", "CCS BAM file (repeatable) [*]")
	fs.Var(&fastqs, "fastq", "FASTQ file, plain or gzip (repeatable, alternative to --bam) [*]")
	fs.StringVar(&opt.Encoding, "encoding", "sanger", "quality encoding for FASTQ input [sanger]")

	// Matching
	fs.StringVar(&opt.Pattern, "pattern", "", "anchored template with named groups, N = any base [*]")
	fs.StringVar(&opt.SourceField, "source-field", "read", "named group to align against the target [read]")

	// Alignment
	fs.StringVar(&opt.Target, "target", "", "target reference FASTA (one record) [*]")
	fs.StringVar(&opt.Minimap2, "minimap2", "minimap2", "minimap2 executable [minimap2]")
	fs.StringVar(&opt.Preset, "preset", PresetCodonDMS, "aligner preset: codon-dms | virus-w-del ["+PresetCodonDMS+"]")
	fs.StringVar(&opt.PAF, "paf", "", "save the raw PAF report to this file []")
	fs.BoolVar(&opt.NoAlign, "no-align", false, "skip alignment; report matching and accuracy only [false]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")

	// Output
	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort output rows by read name [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Bams = bams
	opt.Fastqs = fastqs
	opt.Header = !noHeader

	// Validation
	if len(opt.Bams) == 0 && len(opt.Fastqs) == 0 {
		return opt, errors.New("need at least one --bam or --fastq")
	}
	if opt.Pattern == "" {
		return opt, errors.New("--pattern is required")
	}
	if !opt.NoAlign && opt.Target == "" {
		return opt, errors.New("--target is required unless --no-align is set")
	}
	switch opt.Output {
	case "text", "json":
	default:
		return opt, fmt.Errorf("invalid --output %q (text|json)", opt.Output)
	}
	switch opt.Preset {
	case PresetCodonDMS, PresetVirusWDel:
	default:
		return opt, fmt.Errorf("invalid --preset %q (%s|%s)", opt.Preset, PresetCodonDMS, PresetVirusWDel)
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be >= 0")
	}
	return opt, nil
}
