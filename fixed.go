package mosaic

import (
	"strings"
	"unicode"
)

// FixedSizeChunker walks the raw character sequence in windows of the
// target size. When a window's right edge lands inside a word and a space
// exists in the last fifth of the window, the window shortens to that space
// (word-boundary preference). The next window starts overlap runes before
// the previous end, snapped to a space within ten runes when one exists,
// and always at least one rune past the previous start so the pass
// terminates even when overlap exceeds the window size.
type FixedSizeChunker struct {
	targetSize int
	overlap    int
}

// NewFixedSize creates a FixedSizeChunker with the given options.
func NewFixedSize(opts ...Option) *FixedSizeChunker {
	cfg := buildConfig(opts)
	return &FixedSizeChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
}

// Chunk splits text into fixed-size chunks with character overlap.
func (c *FixedSizeChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size, overlap := clampParams(c.targetSize, c.overlap)

	runes := []rune(text)
	n := len(runes)

	var chunks []Chunk
	start := 0
	for start < n {
		end := min(start+size, n)

		// Word-boundary preference: when the cut lands between two
		// non-space runes, retreat to a space in the last fifth of the
		// window.
		if end < n && !unicode.IsSpace(runes[end]) && !unicode.IsSpace(runes[end-1]) {
			limit := end - size/5
			for sp := end - 1; sp > limit && sp > start; sp-- {
				if unicode.IsSpace(runes[sp]) {
					end = sp
					break
				}
			}
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, newChunk(len(chunks)+1, piece, StrategyFixed))
		}
		if end == n {
			break
		}

		// Next window: step back by the overlap, snapped to a nearby space
		// so chunks tend to begin on whole words. Never past the previous
		// end (no text may be skipped) and never behind the previous start
		// plus one (guaranteed forward progress).
		next := end - overlap
		if sp := nearestSpace(runes, next, 10); sp >= 0 {
			next = sp + 1
		}
		next = min(next, end)
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// nearestSpace returns the index of the whitespace rune closest to pos
// within reach, or -1 when pos is out of range, already on whitespace, or
// no space is near.
func nearestSpace(runes []rune, pos, reach int) int {
	if pos <= 0 || pos >= len(runes) || unicode.IsSpace(runes[pos]) {
		return -1
	}
	for d := 1; d <= reach; d++ {
		if pos-d > 0 && unicode.IsSpace(runes[pos-d]) {
			return pos - d
		}
		if pos+d < len(runes) && unicode.IsSpace(runes[pos+d]) {
			return pos + d
		}
	}
	return -1
}
