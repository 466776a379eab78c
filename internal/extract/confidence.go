package extract

import (
	"regexp"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

var quoteVocabRe = regexp.MustCompile(`(?i)\b(?:quote|quotation|estimate)\b`)

// confidence scores how much of a quotation was recovered, 0..100.
func confidence(text string, d quotation.Draft, gstExplicit bool) int {
	score := 0
	if d.CustomerName != "" {
		score += 25
	}
	if n := len(d.Items); n > 0 {
		score += 40
		if n > 1 {
			score += 5
		}
	}
	if gstExplicit {
		score += 10
	}
	for _, v := range []string{d.Transport, d.Loading, d.Payment, d.Delivery, d.Validity} {
		if v != "" && v != quotation.NotSpecified {
			score += 5
		}
	}
	if quoteVocabRe.MatchString(text) {
		score += 5
	}
	if len(text) < 50 {
		score -= 10
	}
	return max(0, min(100, score))
}
