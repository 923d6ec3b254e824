// pkg/api/reads_v1.go

// Package api pins the wire formats emitted by ccsalign. Changing a field
// here is a compatibility break for downstream parsers; add, don't edit.
package api

// AlignmentV1 is present on a read only when alignment was attempted.
type AlignmentV1 struct {
	Aligned   bool   `json:"aligned"`
	Cigar     string `json:"cigar,omitempty"`
	ClipStart int    `json:"clip_start"`
	ClipEnd   int    `json:"clip_end"`
	Target    string `json:"target,omitempty"`
}

// ReadV1 is one processed CCS read.
type ReadV1 struct {
	Name      string            `json:"name"`
	Length    int               `json:"length"`
	Passes    int               `json:"passes,omitempty"`
	Accuracy  float64           `json:"accuracy"`
	Matched   bool              `json:"matched"`
	Groups    map[string]string `json:"groups,omitempty"`
	Alignment *AlignmentV1      `json:"alignment,omitempty"`
}
