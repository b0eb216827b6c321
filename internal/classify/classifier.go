package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xecurify/draftpilot/internal/mail"
)

// Category selects the response template for a message. It is independent
// of the analysis type produced by the analyzer.
type Category string

const (
	// CategoryPAMQuery is the dedicated category for the configured
	// special sender when the trigger phrase is present.
	CategoryPAMQuery Category = "pam_query"

	CategoryPricing        Category = "pricing"
	CategorySupport        Category = "support"
	CategoryProductInfo    Category = "product_info"
	CategoryMeeting        Category = "meeting"
	CategoryGeneralInquiry Category = "general_inquiry"

	// CategoryDefault means no template applies; the pipeline skips
	// draft creation for it.
	CategoryDefault Category = "default"
)

// CategoryPatterns binds a category to its scoring patterns. Registration
// order matters: on equal maximum score the first-registered category wins.
type CategoryPatterns struct {
	Name     Category
	Patterns []*regexp.Regexp
}

// Tables is the classifier's configuration data. It is a plain value so
// tests can substitute minimal fixtures.
type Tables struct {
	// SpecialSender short-circuits all generic scoring when it matches
	// the sender address (substring, case-insensitive).
	SpecialSender string

	// TriggerPhrase is the literal phrase that routes a special-sender
	// message to the dedicated category.
	TriggerPhrase string

	// SpecialCategory is the category returned on a trigger-phrase hit.
	SpecialCategory Category

	// Categories are scored in registration order.
	Categories []CategoryPatterns
}

// Classifier maps a message (plus optional thread context) to a response
// category. It is a pure function of its inputs and the pattern tables.
type Classifier struct {
	tables Tables
}

// New creates a classifier over the given tables.
func New(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

// NewDefault creates a classifier over the production tables.
func NewDefault() *Classifier {
	return New(DefaultTables())
}

// Classify determines the response category for a message. The thread
// context, when supplied, contributes its subjects and bodies to both the
// special-case phrase check and the generic scoring text.
func (c *Classifier) Classify(subject, body, sender string, thread []mail.Message) Category {
	if c.isSpecialSender(sender) {
		return c.classifySpecial(subject, body, thread)
	}

	combined := combineText(subject, body, thread)
	processed := Normalize(combined)
	if processed == "" {
		return CategoryDefault
	}

	best := CategoryDefault
	bestScore := 0
	for _, cat := range c.tables.Categories {
		score := 0
		for _, pattern := range cat.Patterns {
			score += len(pattern.FindAllString(processed, -1))
		}
		// Strict comparison keeps the first-registered category on ties.
		if score > bestScore {
			bestScore = score
			best = cat.Name
		}
	}

	return best
}

func (c *Classifier) isSpecialSender(sender string) bool {
	if c.tables.SpecialSender == "" {
		return false
	}
	return strings.Contains(strings.ToLower(sender), strings.ToLower(c.tables.SpecialSender))
}

// classifySpecial checks the trigger phrase over the lowercased message
// and thread text. A miss means skip, regardless of other keyword content.
func (c *Classifier) classifySpecial(subject, body string, thread []mail.Message) Category {
	combined := strings.ToLower(combineText(subject, body, thread))
	if c.tables.TriggerPhrase != "" && strings.Contains(combined, strings.ToLower(c.tables.TriggerPhrase)) {
		return c.tables.SpecialCategory
	}
	return CategoryDefault
}

func combineText(subject, body string, thread []mail.Message) string {
	var b strings.Builder
	b.WriteString(subject)
	b.WriteByte(' ')
	b.WriteString(body)
	for _, m := range thread {
		b.WriteByte(' ')
		b.WriteString(m.Subject)
		b.WriteByte(' ')
		b.WriteString(m.Body)
	}
	return b.String()
}

// CompilePatterns builds pattern tables from raw category pattern strings,
// keeping the provided registration order. It is used when the pattern
// tables are overridden via configuration.
func CompilePatterns(order []Category, raw map[string][]string) ([]CategoryPatterns, error) {
	var out []CategoryPatterns
	for _, name := range order {
		exprs, ok := raw[string(name)]
		if !ok {
			continue
		}
		cat := CategoryPatterns{Name: name}
		for _, expr := range exprs {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("category %s: compile pattern %q: %w", name, expr, err)
			}
			cat.Patterns = append(cat.Patterns, re)
		}
		out = append(out, cat)
	}
	return out, nil
}
