// internal/cli/flagset.go
package cli

import (
	"flag"
	"fmt"

	"ccsalign/internal/version"
)

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: match, align and canonicalize PacBio CCS reads

Extracts named fields (insert, barcode, ...) from circular-consensus
reads with an anchored template, estimates per-read accuracy from the
quality scores, aligns the extracted insert against one target with
minimap2, and reports every alignment in canonical leftmost-indel form.

License: MIT
Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// stringSlice lets a flag repeat.
type stringSlice []string

func (s *stringSlice) String() string { return fmt.Sprint(*s) }
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}
