package review

import (
	"strings"

	"agentic_recommendation/pkg/models"
)

const (
	maxThemes = 10
	// Words kept on each side of a keyword hit.
	themeWindow = 2
)

// The keyword lists are deliberately simple. Theme extraction exists to give
// the model (and the rule-based fallback) concrete phrases to quote, not to
// be a sentiment classifier.
var positiveKeywords = []string{
	"excellent", "great", "amazing", "good", "best", "love",
	"perfect", "fantastic", "awesome", "quality", "worth",
	"comfortable", "easy", "fast", "clear", "bright", "beautiful",
	"sturdy", "reliable", "durable", "impressive", "satisfied",
	"recommend", "happy", "pleased", "outstanding", "superb",
}

var negativeKeywords = []string{
	"bad", "poor", "terrible", "worst", "hate", "issue",
	"problem", "broken", "defective", "disappointed", "waste",
	"cheap", "slow", "difficult", "uncomfortable", "useless",
	"failed", "not working", "stopped", "damage", "faulty",
}

// ExtractThemes scans sanitized review text for the fixed keyword sets and
// captures a five-word window around each hit. Duplicate windows are dropped
// and each polarity caps at ten themes.
func ExtractThemes(reviews []models.Review) Themes {
	var themes Themes
	seenPositive := make(map[string]bool)
	seenNegative := make(map[string]bool)

	for _, r := range reviews {
		text := strings.ToLower(SanitizeText(r.Text))
		if text == "" {
			continue
		}
		words := strings.Fields(text)
		themes.Positive = appendContexts(themes.Positive, seenPositive, words, positiveKeywords)
		themes.Negative = appendContexts(themes.Negative, seenNegative, words, negativeKeywords)

		if len(themes.Positive) >= maxThemes && len(themes.Negative) >= maxThemes {
			break
		}
	}
	return themes
}

func appendContexts(out []string, seen map[string]bool, words []string, keywords []string) []string {
	for _, keyword := range keywords {
		for i, word := range words {
			if !strings.Contains(word, keyword) {
				continue
			}
			start := i - themeWindow
			if start < 0 {
				start = 0
			}
			end := i + themeWindow + 1
			if end > len(words) {
				end = len(words)
			}
			context := strings.Join(words[start:end], " ")
			if seen[context] || len(out) >= maxThemes {
				continue
			}
			seen[context] = true
			out = append(out, context)
		}
	}
	return out
}
