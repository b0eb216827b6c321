package classify

import "regexp"

// defaultOrder is the registration order of the generic categories.
// First-registered wins ties, so the order is part of the contract.
var defaultOrder = []Category{
	CategoryPricing,
	CategorySupport,
	CategoryProductInfo,
	CategoryMeeting,
	CategoryGeneralInquiry,
}

// DefaultOrder returns a copy of the production category registration order.
func DefaultOrder() []Category {
	out := make([]Category, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

// DefaultTables returns the production pattern tables. The patterns are
// matched against the normalized (lowercased, lemmatized) text, so they
// target base word forms.
func DefaultTables() Tables {
	return Tables{
		SpecialSender:   "mohak64bansal@gmail.com",
		TriggerPhrase:   "query for pam",
		SpecialCategory: CategoryPAMQuery,
		Categories: []CategoryPatterns{
			{
				Name: CategoryPricing,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(price|cost|pricing|quote|budget|expensive|cheap|afford)\b`),
					regexp.MustCompile(`(?i)\b(how much|what.*cost|pricing.*information)\b`),
				},
			},
			{
				Name: CategorySupport,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(help|support|issue|problem|bug|error|trouble|stuck)\b`),
					regexp.MustCompile(`(?i)\b(how to|how do|can.*help|need.*help)\b`),
				},
			},
			{
				Name: CategoryProductInfo,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(feature|specification|spec|capability|functionality)\b`),
					regexp.MustCompile(`(?i)\b(what.*do|what.*can|how.*work|tell.*about)\b`),
				},
			},
			{
				Name: CategoryMeeting,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(meeting|call|schedule|appointment|demo|presentation)\b`),
					regexp.MustCompile(`(?i)\b(when.*available|book.*time|set.*up.*meeting)\b`),
				},
			},
			{
				Name: CategoryGeneralInquiry,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(greeting|good morning|good afternoon)\b`),
					regexp.MustCompile(`(?i)\b(interested|curious|want.*know|more.*information)\b`),
				},
			},
		},
	}
}
