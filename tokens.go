package mosaic

import (
	"math"
	"unicode"
)

// EstimateTokens approximates how many LLM tokens text would cost without
// running a real tokenizer. Contiguous alphanumeric runs count one token
// each. Punctuation adds one token per 2.5 marks, rounded up. All-digit
// runs add 0.7 each and words longer than six runes add 0.3 each, both
// rounded down, mirroring how subword tokenizers split numbers and long
// words. The result is a sizing budget, not a billing count.
//
// Empty input estimates to 0, any other input to at least 1. The function
// is deterministic and loosely monotonic: adding content never lowers the
// estimate.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	var words, longWords, numericRuns, punct int

	runLen := 0
	runAllDigits := true
	endRun := func() {
		if runLen == 0 {
			return
		}
		words++
		if runLen > 6 {
			longWords++
		}
		if runAllDigits {
			numericRuns++
		}
		runLen = 0
		runAllDigits = true
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			runLen++
			if !unicode.IsDigit(r) {
				runAllDigits = false
			}
		case unicode.IsSpace(r):
			endRun()
		default:
			// Anything that is neither alphanumeric nor whitespace counts
			// as a punctuation mark.
			endRun()
			punct++
		}
	}
	endRun()

	est := words
	est += int(math.Ceil(float64(punct) / 2.5))
	est += int(float64(numericRuns) * 0.7)
	est += int(float64(longWords) * 0.3)
	return max(est, 1)
}
