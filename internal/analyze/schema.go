// Package analyze produces a fixed-schema assessment of an email thread.
// Three tiers can produce it: a primary remote generator, a secondary
// REST transport, and a deterministic heuristic fallback. All three
// normalize into the same Analysis value.
package analyze

// Type classifies the conversation as a whole.
type Type string

const (
	TypeError   Type = "error"
	TypeMeeting Type = "meeting"
	TypeSupport Type = "support"
	TypeSales   Type = "sales"
	TypeGeneral Type = "general"
)

// Level is the shared low/medium/high scale used for urgency, technical
// complexity and business impact.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Sentiment is the perceived customer sentiment across the thread.
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentFrustrated Sentiment = "frustrated"
)

// ResponseTime is the expected response window.
type ResponseTime string

const (
	ResponseImmediate ResponseTime = "immediate"
	ResponseFourHours ResponseTime = "4h"
	ResponseDay       ResponseTime = "24h"
	ResponseWeek      ResponseTime = "week"
)

const (
	maxStakeholders = 5
	maxActions      = 4
)

// Analysis is the normalization target for every tier. Every producer
// fills every field; consumers never see a partially populated value.
type Analysis struct {
	Summary        string       `json:"executive_summary"`
	Type           Type         `json:"type"`
	Urgency        Level        `json:"urgency"`
	Sentiment      Sentiment    `json:"sentiment"`
	Issues         []string     `json:"issues"`
	Complexity     Level        `json:"complexity"`
	Escalation     bool         `json:"escalation"`
	ResponseTime   ResponseTime `json:"response_time"`
	Stakeholders   []string     `json:"stakeholders"`
	BusinessImpact Level        `json:"business_impact"`
	Actions        []string     `json:"recommended_actions"`
}

// DefaultAnalysis is the documented baseline returned for empty threads
// and used to fill gaps left by remote payloads.
func DefaultAnalysis() Analysis {
	return Analysis{
		Summary:        "Email thread analysis",
		Type:           TypeGeneral,
		Urgency:        LevelLow,
		Sentiment:      SentimentNeutral,
		Issues:         []string{"General inquiry"},
		Complexity:     LevelMedium,
		Escalation:     false,
		ResponseTime:   ResponseDay,
		Stakeholders:   []string{},
		BusinessImpact: LevelLow,
		Actions:        []string{"Review and respond manually"},
	}
}

func coerceType(s string) (Type, bool) {
	switch Type(s) {
	case TypeError, TypeMeeting, TypeSupport, TypeSales, TypeGeneral:
		return Type(s), true
	}
	return "", false
}

func coerceLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelLow, LevelMedium, LevelHigh:
		return Level(s), true
	}
	return "", false
}

func coerceSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentFrustrated:
		return Sentiment(s), true
	}
	return "", false
}

func coerceResponseTime(s string) (ResponseTime, bool) {
	switch ResponseTime(s) {
	case ResponseImmediate, ResponseFourHours, ResponseDay, ResponseWeek:
		return ResponseTime(s), true
	}
	return "", false
}
