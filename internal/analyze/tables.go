package analyze

// Scoring thresholds for the heuristic analyzer. Tunables carried over
// from production experience, not derived quantities.
const (
	urgencyHighUrgentHits = 2
	urgencyErrorHits      = 2
	complexityMediumHits  = 2
	complexityHighHits    = 5
	maxTechIssues         = 3
)

// IssueRule labels a compound keyword condition: at least one of Any
// must be present, and when With is non-empty at least one of it too.
type IssueRule struct {
	Any   []string
	With  []string
	Label string
}

// ActionSet contributes a fixed action block when any of its keywords
// appears in the thread text. Sets are evaluated in order.
type ActionSet struct {
	Keywords []string
	Actions  []string
}

// Tables is the heuristic analyzer's vocabulary. It is plain data so
// tests can substitute minimal fixtures without the full production
// keyword lists.
type Tables struct {
	ErrorKeywords      []string
	UrgentKeywords     []string
	MeetingKeywords    []string
	SupportKeywords    []string
	SalesKeywords      []string
	PositiveKeywords   []string
	FrustratedKeywords []string
	TechIndicators     []string

	// Response-time ladders, checked in order before the error-keyword
	// and default rungs.
	ImmediateKeywords []string
	SoonKeywords      []string

	// Business-impact ladders.
	HighImpactKeywords   []string
	MediumImpactKeywords []string

	IssueRules     []IssueRule
	ActionSets     []ActionSet
	DefaultActions []string
}

// DefaultHeuristics returns the production vocabulary.
func DefaultHeuristics() Tables {
	errorKeywords := []string{
		"error", "issue", "problem", "failed", "not working", "broken", "bug", "exception",
		"timeout", "connection failed", "authentication failed", "login failed", "access denied",
		"configuration error", "setup failed", "installation failed", "sync failed",
	}
	urgentKeywords := []string{
		"urgent", "critical", "asap", "immediately", "emergency", "priority", "high priority",
		"production down", "system down", "service unavailable", "outage", "incident",
	}
	meetingKeywords := []string{
		"demo", "meeting", "call", "schedule", "presentation", "webinar", "conference",
		"appointment", "availability", "calendar", "zoom", "teams", "skype",
	}
	supportKeywords := []string{
		"support", "help", "assistance", "ticket", "case", "troubleshoot", "debug",
		"technical support", "customer service", "escalation", "resolution",
	}
	salesKeywords := []string{
		"pricing", "quote", "cost", "budget", "license", "subscription", "renewal",
		"contract", "proposal", "deal", "opportunity", "lead", "prospect",
	}

	return Tables{
		ErrorKeywords:   errorKeywords,
		UrgentKeywords:  urgentKeywords,
		MeetingKeywords: meetingKeywords,
		SupportKeywords: supportKeywords,
		SalesKeywords:   salesKeywords,
		PositiveKeywords: []string{
			"thank", "thanks", "appreciate", "excellent", "great", "good", "perfect",
			"satisfied", "happy", "pleased", "working well", "successful",
		},
		FrustratedKeywords: []string{
			"frustrated", "annoyed", "disappointed", "unhappy", "dissatisfied", "angry",
			"upset", "concerned", "worried", "troubled", "problematic",
		},
		TechIndicators: []string{
			"api", "integration", "configuration", "setup", "installation", "deployment",
			"database", "server", "network", "security", "authentication", "authorization",
			"ldap", "saml", "oauth", "ssl", "certificate", "firewall", "vpn",
		},
		ImmediateKeywords:    []string{"urgent", "critical", "asap", "immediately"},
		SoonKeywords:         []string{"priority", "soon", "quickly"},
		HighImpactKeywords:   []string{"production", "system down", "outage", "critical"},
		MediumImpactKeywords: []string{"urgent", "priority", "important"},
		IssueRules: []IssueRule{
			{Any: []string{"authentication"}, With: []string{"failed", "error"}, Label: "Authentication/Login Issues"},
			{Any: []string{"configuration"}, With: []string{"error", "failed"}, Label: "Configuration Problems"},
			{Any: []string{"sync"}, With: []string{"failed", "not working"}, Label: "Data Synchronization Issues"},
			{Any: []string{"pricing", "cost"}, Label: "Pricing Inquiry"},
			{Any: []string{"demo", "meeting"}, Label: "Demo/Meeting Request"},
			{Any: []string{"support", "help"}, Label: "Technical Support Request"},
		},
		ActionSets: []ActionSet{
			{
				Keywords: errorKeywords,
				Actions: []string{
					"Investigate and diagnose the technical issue",
					"Provide step-by-step resolution guide",
					"Schedule follow-up to ensure resolution",
				},
			},
			{
				Keywords: meetingKeywords,
				Actions: []string{
					"Schedule demo/meeting at convenient time",
					"Prepare relevant materials and agenda",
					"Send calendar invitation with details",
				},
			},
			{
				Keywords: salesKeywords,
				Actions: []string{
					"Provide detailed pricing information",
					"Schedule sales call with decision maker",
					"Prepare customized proposal",
				},
			},
			{
				Keywords: supportKeywords,
				Actions: []string{
					"Create support ticket if not already done",
					"Assign to appropriate technical specialist",
					"Provide regular status updates",
				},
			},
		},
		DefaultActions: []string{
			"Review email content thoroughly",
			"Prepare appropriate response",
			"Follow up as needed",
		},
	}
}
