// core/seqio/open.go
package seqio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// sniffOpen opens path for reading, transparently decompressing gzip
// input. "-" means stdin. Compression is detected from the first two
// bytes of the stream (the gzip magic), so a compressed file reads
// correctly whatever it is named; the .gz suffix is the fallback when
// the stream is too short to peek.
func sniffOpen(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(fh)
	magic, perr := br.Peek(2)
	gzipped := perr == nil && magic[0] == 0x1f && magic[1] == 0x8b
	if !gzipped && !strings.HasSuffix(path, ".gz") {
		return &layered{r: br, stack: []io.Closer{fh}}, nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return &layered{r: gz, stack: []io.Closer{gz, fh}}, nil
}

// layered reads from the top of a reader stack and closes every layer,
// keeping the first close failure.
type layered struct {
	r     io.Reader
	stack []io.Closer
}

func (l *layered) Read(p []byte) (int, error) { return l.r.Read(p) }

func (l *layered) Close() error {
	var first error
	for _, c := range l.stack {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
