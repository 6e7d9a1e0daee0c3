package extract

import (
	"regexp"
	"strings"
)

// Sentence is a slice of the source text with its byte offsets
type Sentence struct {
	Text  string
	Start int
	End   int
}

var sentenceBreak = regexp.MustCompile(`[.!?]\s+`)

// SplitSentences splits after '.', '!' or '?' when followed by whitespace.
// Empty pieces are dropped; offsets index into text.
func SplitSentences(text string) []Sentence {
	var out []Sentence
	pos := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		// Keep the terminator, drop the whitespace
		end := loc[0] + 1
		if end > pos {
			out = append(out, Sentence{Text: text[pos:end], Start: pos, End: end})
		}
		pos = loc[1]
	}
	if pos < len(text) {
		out = append(out, Sentence{Text: text[pos:], Start: pos, End: len(text)})
	}
	return out
}

// SentenceIndex returns the index of the sentence containing offset, or -1.
// Offsets in the whitespace gap belong to the preceding sentence.
func SentenceIndex(sentences []Sentence, offset int) int {
	for i, s := range sentences {
		next := len(s.Text) + s.Start
		if i+1 < len(sentences) {
			next = sentences[i+1].Start
		}
		if offset >= s.Start && offset < next {
			return i
		}
	}
	return -1
}

// Fragments splits text on every '.', '!' or '?' without trimming
func Fragments(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// FirstSentence returns the first non-blank fragment, trimmed
func FirstSentence(text string) string {
	for _, f := range Fragments(text) {
		if s := strings.TrimSpace(f); s != "" {
			return s
		}
	}
	return ""
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
