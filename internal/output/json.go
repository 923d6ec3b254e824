// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"ccsalign-core/ccs"
	"ccsalign/pkg/api"
)

// WriteJSON emits the whole run as one indented array of api.ReadV1.
func WriteJSON(w io.Writer, recs []*ccs.Record) error {
	rows := make([]api.ReadV1, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, ToAPI(rec))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
