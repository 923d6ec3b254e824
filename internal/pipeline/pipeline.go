// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"ccsalign-core/ccs"
	"ccsalign-core/pattern"
	"ccsalign-core/quality"
)

// Config controls the per-read stage.
type Config struct {
	Threads  int    // number of worker goroutines (>=1)
	Encoding string // quality encoding for records that don't name one
}

// Process runs the quality model and the pattern matcher over every
// record with a worker pool. Records are independent and each one is
// owned by a single worker while in flight, so no locking is needed; the
// slice itself is never reordered. It returns the number of matched
// records and the first error encountered (including cancellation).
func Process(ctx context.Context, cfg Config, records []*ccs.Record, pat *pattern.Pattern) (int, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	// A worker that fails must also stop the feeder, or the feeder
	// blocks on a jobs channel nobody drains.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *ccs.Record, cfg.Threads*2)
	results := make(chan *ccs.Record, cfg.Threads*2)
	errs := make(chan error, cfg.Threads)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case rec, ok := <-jobs:
					if !ok {
						return
					}
					if len(rec.Qual) > 0 {
						enc := rec.Encoding
						if enc == "" {
							enc = cfg.Encoding
						}
						acc, err := quality.Accuracy(rec.Qual, enc)
						if err != nil {
							select {
							case errs <- err:
							default:
							}
							cancel()
							return
						}
						rec.Accuracy = acc
					}
					pat.MatchRecord(rec)

					select {
					case results <- rec:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cwg     sync.WaitGroup
		matched int
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for rec := range results {
			if rec.Matched {
				matched++
			}
		}
	}()

	// Feed work
feed:
	for _, rec := range records {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- rec:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return matched, err
	}
	return matched, ctx.Err()
}
