package stats

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the shortest word KeywordFrequency keeps by default.
const DefaultMinLength = 3

// KeywordFrequency counts words across texts. Text is lower-cased and every
// non-letter character is dropped from each whitespace separated token.
// Words shorter than minLength runes or present in stopwords are ignored.
// The result is ordered by descending count, ties in first-seen order.
func KeywordFrequency(texts []string, stopwords map[string]struct{}, minLength int) []LabelCount {
	c := NewCounts()
	for _, text := range texts {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			w := strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) {
					return r
				}
				return -1
			}, tok)
			if utf8.RuneCountInString(w) < minLength {
				continue
			}
			if _, stop := stopwords[w]; stop {
				continue
			}
			c.Add(w, 1)
		}
	}
	return TopN(c, 0)
}

// Stopwords builds a stopword set from words, lower-cased.
func Stopwords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// DefaultStopwords returns common Portuguese and English function words.
func DefaultStopwords() map[string]struct{} {
	return Stopwords(
		"a", "o", "as", "os", "um", "uma", "uns", "umas", "de", "do", "da", "dos", "das",
		"em", "no", "na", "nos", "nas", "por", "para", "pra", "com", "sem", "sobre",
		"que", "se", "e", "ou", "mas", "como", "mais", "muito", "muita", "ser", "ter",
		"foi", "são", "está", "estão", "isso", "este", "esta", "esse", "essa", "ao", "aos",
		"pelo", "pela", "pelos", "pelas", "entre", "também", "já", "não", "sim", "seu", "sua",
		"the", "and", "for", "with", "that", "this", "from", "are", "was", "were", "will",
		"have", "has", "not", "but", "all", "can", "our", "their", "into", "more", "also",
	)
}
