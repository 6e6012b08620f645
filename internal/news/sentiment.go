package news

import "strings"

var positiveWords = []string{
	"surge", "rally", "gain", "profit", "growth", "rise", "soar",
	"bullish", "outperform", "beat", "strong", "record", "high",
	"success", "breakthrough", "innovation", "expansion", "upgrade",
}

var negativeWords = []string{
	"plunge", "fall", "loss", "decline", "drop", "crash", "bear",
	"bearish", "underperform", "miss", "weak", "concern", "risk",
	"failure", "scandal", "lawsuit", "downgrade", "warning", "cut",
}

// Sentiment classifies text as positive, negative or neutral by signed
// keyword counting. Ties favor neutral.
func Sentiment(text string) string {
	if text == "" {
		return "neutral"
	}

	text = strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return "positive"
	case negative > positive:
		return "negative"
	default:
		return "neutral"
	}
}
