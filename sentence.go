package mosaic

import (
	"strings"
	"unicode/utf8"
)

// SentenceChunker accumulates whole sentences into a chunk while the joined
// character count stays within the target size. When the next sentence
// would overflow, the chunk is emitted and the next one is seeded with the
// smallest run of trailing sentences whose combined length covers the
// overlap budget. A chunk may exceed the target when a single sentence is
// longer than it; sentences are never cut.
type SentenceChunker struct {
	targetSize int
	overlap    int
}

// NewSentence creates a SentenceChunker with the given options.
func NewSentence(opts ...Option) *SentenceChunker {
	cfg := buildConfig(opts)
	return &SentenceChunker{targetSize: cfg.targetSize, overlap: cfg.overlap}
}

// Chunk splits text at sentence boundaries into overlapping chunks.
func (c *SentenceChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size, overlap := clampParams(c.targetSize, c.overlap)

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	for _, sp := range accumulate(sentences, 1, size, overlap) {
		chunks = append(chunks, sentenceChunk(sentences, sp, len(chunks)+1))
	}
	return chunks
}

func sentenceChunk(sentences []string, sp span, index int) Chunk {
	units := sentences[sp.lo:sp.hi]
	ch := newChunk(index, strings.Join(units, " "), StrategySentence)
	ch.UnitCount = len(units)
	ch.UnitStart = sp.lo + 1
	ch.UnitEnd = sp.hi
	ch.Completeness = terminatedFraction(units)
	return ch
}

// terminatedFraction reports the share of units ending in terminal
// punctuation.
func terminatedFraction(units []string) float64 {
	if len(units) == 0 {
		return 0
	}
	ended := 0
	for _, u := range units {
		if r, _ := utf8.DecodeLastRuneInString(u); isTerminator(r) {
			ended++
		}
	}
	return float64(ended) / float64(len(units))
}

// --- Shared unit accumulation ---

// span is a half-open range of atomic units contributing to one chunk.
type span struct {
	lo, hi int
}

// accumulate groups consecutive units into chunks whose joined length stays
// within size, carrying a trailing run of units into the next group when
// overlap is positive. sepLen is the rune cost of joining two units. A
// group containing only carried units always accepts the next one, so each
// group gains at least one new unit and the pass terminates after
// len(units) steps. A single unit longer than size still forms a group on
// its own.
func accumulate(units []string, sepLen, size, overlap int) []span {
	var spans []span

	lo, hi := 0, 0 // buffered units: units[lo:hi]
	fresh := 0     // units appended since the last emission
	curLen := 0    // joined rune length of the buffer

	for i, u := range units {
		uLen := utf8.RuneCountInString(u)
		candidate := uLen
		if hi > lo {
			candidate = curLen + sepLen + uLen
		}

		if fresh > 0 && candidate > size {
			spans = append(spans, span{lo, hi})
			lo = overlapStart(units, lo, hi, sepLen, overlap)
			curLen = joinedLen(units[lo:hi], sepLen)
			fresh = 0
			if hi > lo {
				candidate = curLen + sepLen + uLen
			} else {
				candidate = uLen
			}
		}

		if hi == lo {
			lo = i
		}
		hi = i + 1
		curLen = candidate
		fresh++
	}

	if hi > lo {
		spans = append(spans, span{lo, hi})
	}
	return spans
}

// overlapStart walks backward from the emitted group's last unit and
// returns the index of the first unit to carry into the next group: the
// smallest trailing run whose joined length reaches the overlap budget.
// When even the whole group falls short, everything is carried.
func overlapStart(units []string, lo, hi, sepLen, overlap int) int {
	if overlap <= 0 {
		return hi
	}
	acc := 0
	for j := hi - 1; j >= lo; j-- {
		if acc > 0 {
			acc += sepLen
		}
		acc += utf8.RuneCountInString(units[j])
		if acc >= overlap {
			return j
		}
	}
	return lo
}

func joinedLen(units []string, sepLen int) int {
	if len(units) == 0 {
		return 0
	}
	total := sepLen * (len(units) - 1)
	for _, u := range units {
		total += utf8.RuneCountInString(u)
	}
	return total
}
