package mosaic

import (
	"math"
	"strings"
)

// SlidingWindowChunker accumulates whitespace-delimited words by token cost
// until the window reaches the target, then steps back proportionally to
// the overlap budget before starting the next window, or strides forward by
// half the window when overlap is zero. An undersized tail below 30% of the
// target folds into the previous chunk instead of standing alone.
//
// Overlap tokens and percentage come from the longest word run shared
// between consecutive chunks; when text repeats, that run can exceed the
// actually carried words, so both metrics are approximate.
type SlidingWindowChunker struct {
	targetSize int
	overlap    int
}

// NewSlidingWindow creates a SlidingWindowChunker with the given options.
func NewSlidingWindow(opts ...Option) *SlidingWindowChunker {
	cfg := buildConfig(opts)
	return &SlidingWindowChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
}

// Chunk splits text into token-budgeted word windows.
func (c *SlidingWindowChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size, overlap := clampParams(c.targetSize, c.overlap)

	words := splitWords(text)
	if len(words) == 0 {
		return nil
	}
	n := len(words)

	costs := make([]int, n)
	for i, w := range words {
		costs[i] = EstimateTokens(w)
	}

	// First pass: window bounds only. The start position strictly increases
	// every iteration, so the pass ends after at most n windows.
	var windows []span
	start := 0
	for start < n {
		end, tok := start, 0
		for end < n && tok < size {
			tok += costs[end]
			end++
		}
		windows = append(windows, span{start, end})

		if end == n {
			if len(windows) > 1 && tok*10 < size*3 {
				// Fold the undersized tail into the previous window.
				windows = windows[:len(windows)-1]
				windows[len(windows)-1].hi = n
			}
			break
		}

		wc := end - start
		var next int
		if overlap == 0 {
			next = start + max(wc/2, 1)
		} else {
			stepBack := int(math.Round(float64(wc) * float64(overlap) / float64(tok)))
			next = end - stepBack
		}
		if next <= start {
			next = start + 1
		}
		start = next
	}

	// Second pass: build the records, measuring overlap against the
	// preceding window.
	chunks := make([]Chunk, 0, len(windows))
	for i, w := range windows {
		tok := windowTokens(costs, w)
		ch := newChunk(i+1, strings.Join(words[w.lo:w.hi], " "), StrategySliding)
		ch.UnitCount = w.hi - w.lo
		ch.UnitStart = w.lo + 1
		ch.UnitEnd = w.hi
		ch.Completeness = min(float64(tok)/float64(size), 1.0)
		if i > 0 {
			prev := windows[i-1]
			if run := sharedRun(words[prev.lo:prev.hi], words[w.lo:w.hi]); run > 0 {
				ch.OverlapTokens = windowTokens(costs, span{w.lo, w.lo + run})
				if tok > 0 {
					ch.OverlapPercent = 100 * float64(ch.OverlapTokens) / float64(tok)
				}
			}
		}
		chunks = append(chunks, ch)
	}
	return chunks
}

func windowTokens(costs []int, w span) int {
	tok := 0
	for i := w.lo; i < w.hi; i++ {
		tok += costs[i]
	}
	return tok
}

// sharedRun returns the length of the longest word run that both ends the
// previous window and starts the current one.
func sharedRun(prev, cur []string) int {
	for k := min(len(prev), len(cur)); k > 0; k-- {
		match := true
		for j := 0; j < k; j++ {
			if prev[len(prev)-k+j] != cur[j] {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return 0
}
