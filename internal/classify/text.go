package classify

import "strings"

// stopWords is the fixed stop-word list applied during normalization.
// It intentionally covers only the high-frequency function words that
// show up in email prose; exotic stop words add nothing to regex scoring.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "your": {}, "yours": {}, "our": {}, "ours": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "with": {}, "from": {},
	"have": {}, "has": {}, "had": {}, "was": {}, "were": {}, "been": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "can": {}, "may": {},
	"about": {}, "into": {}, "over": {}, "under": {}, "after": {}, "before": {},
	"please": {}, "thanks": {}, "regards": {}, "best": {}, "hello": {},
	"all": {}, "any": {}, "some": {}, "more": {}, "most": {}, "other": {},
	"there": {}, "here": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"what": {}, "how": {}, "why": {}, "out": {}, "also": {}, "them": {},
	"then": {}, "than": {}, "too": {}, "very": {}, "just": {}, "its": {},
}

// Normalize lowercases the text, strips everything but letters, tokenizes,
// drops stop words and tokens of length <= 2, lemmatizes the remaining
// tokens and joins them back into a single processed string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, skip := stopWords[tok]; skip {
			continue
		}
		kept = append(kept, lemmatize(tok))
	}

	return strings.Join(kept, " ")
}

// Tokens returns the normalized token list instead of the joined string.
func Tokens(text string) []string {
	processed := Normalize(text)
	if processed == "" {
		return nil
	}
	return strings.Fields(processed)
}

// lemmatize reduces a token to a base form. This is a deliberately small
// suffix-driven reduction (plural nouns, mostly); it does not attempt
// dictionary-backed lemmatization.
func lemmatize(token string) string {
	switch {
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "xes"), strings.HasSuffix(token, "zes"),
		strings.HasSuffix(token, "ches"), strings.HasSuffix(token, "shes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ss"), strings.HasSuffix(token, "us"),
		strings.HasSuffix(token, "is"):
		return token
	case strings.HasSuffix(token, "s") && len(token) > 3:
		return token[:len(token)-1]
	default:
		return token
	}
}
