// Package summarize produces extractive summaries by truncating
// article content at a word limit, preferring sentence boundaries.
package summarize

import "strings"

// DefaultMaxWords is the summary length limit used when no override is
// configured.
const DefaultMaxWords = 150

// Summarizer trims text to a fixed word budget.
type Summarizer struct {
	maxWords int
}

// New returns a Summarizer with the given word limit. Non-positive
// limits fall back to DefaultMaxWords.
func New(maxWords int) *Summarizer {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Summarizer{maxWords: maxWords}
}

// Summarize returns text unchanged when it fits the word budget.
// Longer input is cut to the budget, then trimmed back to the last
// sentence terminator within the window; if the window holds no
// terminator an ellipsis is appended instead.
func (s *Summarizer) Summarize(text string) string {
	words := strings.Fields(text)
	if len(words) <= s.maxWords {
		return text
	}

	window := strings.Join(words[:s.maxWords], " ")
	if cut := strings.LastIndexAny(window, ".!?"); cut >= 0 {
		return window[:cut+1]
	}
	return window + "..."
}

// SummarizeAll summarizes each text independently. Empty inputs yield
// empty summaries.
func (s *Summarizer) SummarizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = s.Summarize(text)
	}
	return out
}
