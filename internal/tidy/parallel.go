package tidy

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minChunkLines keeps tiny logs from being split into many tiny chunks.
const minChunkLines = 4096

// extractParallel parses contiguous chunks of lines concurrently and merges
// the per-chunk sets. Because the result is a set, chunk order does not
// affect it and the output matches the sequential path.
func (e *Extractor) extractParallel(lines []string) (*Set, Stats, error) {
	chunks := splitChunks(lines, e.opts.Jobs, minChunkLines)

	// each goroutine writes only its own index
	sets := make([]*Set, len(chunks))
	stats := make([]Stats, len(chunks))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(e.opts.Jobs)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			set := NewSet()
			var st Stats
			for _, line := range chunk {
				e.extractLine(line, set, &st)
			}
			sets[i] = set
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	merged := NewSet()
	var total Stats
	for i := range chunks {
		merged.Merge(sets[i])
		total.Add(stats[i])
	}
	total.Unique = merged.Len()
	e.logger.Debug("parallel extraction", "chunks", len(chunks), "jobs", e.opts.Jobs)
	return merged, total, nil
}

// splitChunks cuts lines into at most n contiguous chunks of at least minSize
// lines each (the last one may be shorter).
func splitChunks(lines []string, n, minSize int) [][]string {
	if len(lines) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := (len(lines) + n - 1) / n
	if size < minSize {
		size = minSize
	}
	var chunks [][]string
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lines[start:end])
	}
	return chunks
}
