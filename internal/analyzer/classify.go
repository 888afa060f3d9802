package analyzer

import (
	"strings"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
)

// ClassifyInput is everything a rule may look at. It is computed once per
// span so rules stay plain predicates.
type ClassifyInput struct {
	Span     domain.Span
	Evidence Evidence

	AppCategory  domain.Category
	TicketFamily domain.TicketFamily
	Meeting      bool
	DevApp       bool
	Review       bool
	Infra        bool

	// DevShare is the development-app share of the span's session.
	DevShare          float64
	DevShareThreshold float64
}

// HeavyCoding reports whether the span's session is dominated by a
// development app. A zero threshold disables the check.
func (in ClassifyInput) HeavyCoding() bool {
	return in.DevShareThreshold > 0 && in.DevShare >= in.DevShareThreshold
}

// Rule pairs a predicate with the category it assigns.
type Rule struct {
	Name     string
	Category domain.Category
	When     func(in ClassifyInput) bool
}

// Applies reports the rule's category when its predicate holds. The app
// override rule has no fixed category and takes it from the input.
func (r Rule) Applies(in ClassifyInput) (domain.Category, bool) {
	if !r.When(in) {
		return "", false
	}
	if r.Category == "" {
		return in.AppCategory, true
	}
	return r.Category, true
}

// Rule names, in evaluation order.
const (
	RuleAppOverride    = "app_override"
	RuleBugTicket      = "bug_ticket"
	RuleFeatureTicket  = "feature_ticket"
	RuleCodeReview     = "code_review"
	RuleClientMeeting  = "client_meeting"
	RuleClientInfra    = "client_infrastructure"
	RuleClientSupport  = "client_support"
	RulePersonal       = "likely_personal"
	RulePersonalAsWork = "personal_in_coding_session"
	RuleMeetingContext = "meeting_context"
	RuleDevApp         = "dev_app"
	RuleInfraContext   = "infra_context"
	RuleFallback       = "fallback"
)

// DefaultRules returns the classification rules in priority order. The
// last rule always applies, so no span is left unclassified.
func DefaultRules() []Rule {
	hasTicket := func(in ClassifyInput) bool { return in.Evidence.Ticket != "" }
	hasClient := func(in ClassifyInput) bool { return in.Evidence.Client != "" }

	return []Rule{
		{Name: RuleAppOverride, When: func(in ClassifyInput) bool {
			return in.AppCategory != ""
		}},
		{Name: RuleBugTicket, Category: domain.CategoryBug, When: func(in ClassifyInput) bool {
			return hasTicket(in) && in.TicketFamily == domain.FamilyBug
		}},
		{Name: RuleFeatureTicket, Category: domain.CategoryDevelopment, When: hasTicket},
		// Ticket rules above already claim review pages that name a ticket.
		{Name: RuleCodeReview, Category: domain.CategoryCodeReview, When: func(in ClassifyInput) bool {
			return in.Review
		}},
		{Name: RuleClientMeeting, Category: domain.CategoryMeeting, When: func(in ClassifyInput) bool {
			return hasClient(in) && in.Meeting
		}},
		{Name: RuleClientInfra, Category: domain.CategoryInfrastructure, When: func(in ClassifyInput) bool {
			return hasClient(in) && in.Infra
		}},
		{Name: RuleClientSupport, Category: domain.CategorySupport, When: hasClient},
		{Name: RulePersonal, Category: domain.CategoryPersonal, When: func(in ClassifyInput) bool {
			return in.Evidence.Personal && !in.HeavyCoding()
		}},
		{Name: RulePersonalAsWork, Category: domain.CategoryDevelopment, When: func(in ClassifyInput) bool {
			return in.Evidence.Personal
		}},
		{Name: RuleMeetingContext, Category: domain.CategoryMeeting, When: func(in ClassifyInput) bool {
			return in.Meeting
		}},
		{Name: RuleDevApp, Category: domain.CategoryDevelopment, When: func(in ClassifyInput) bool {
			return in.DevApp
		}},
		{Name: RuleInfraContext, Category: domain.CategoryInfrastructure, When: func(in ClassifyInput) bool {
			return in.Infra
		}},
		{Name: RuleFallback, Category: domain.CategoryAdministrative, When: func(ClassifyInput) bool {
			return true
		}},
	}
}

// Classification is the outcome for one span.
type Classification struct {
	Category domain.Category
	TicketID string
	Client   string
	Rule     string
}

// Classifier assigns categories using an ordered rule list and the
// compiled configuration tables.
type Classifier struct {
	cfg      config.Config
	matchers *Matchers
	rules    []Rule
}

func NewClassifier(cfg config.Config, m *Matchers, rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{cfg: cfg, matchers: m, rules: rules}
}

// Input builds the rule input for a span from its evidence and session share.
func (c *Classifier) Input(span domain.Span, ev Evidence, devShare float64) ClassifyInput {
	in := ClassifyInput{
		Span:              span,
		Evidence:          ev,
		DevShare:          devShare,
		DevShareThreshold: c.cfg.Thresholds.DevShare,
	}
	text := spanText(span)

	if span.Kind == domain.SourceWindow {
		if m, ok := c.matchers.AppCategories.Match(span.Label); ok {
			if cat, err := domain.ParseCategory(m.Value); err == nil {
				in.AppCategory = cat
			}
		}
		if in.AppCategory == "" && Has(c.matchers.MeetingApps, span.Label) {
			in.AppCategory = domain.CategoryMeeting
		}
		in.DevApp = Has(c.matchers.DevApps, span.Label)
	} else {
		in.Meeting = Has(c.matchers.MeetingApps, span.Label)
	}
	if in.AppCategory == domain.CategoryMeeting {
		in.Meeting = true
	}

	if ev.Ticket != "" {
		if p, ok := c.cfg.TicketPrefixFor(ev.Ticket); ok {
			in.TicketFamily = p.Family
		}
	}
	in.Review = Has(c.matchers.Review, text)
	in.Infra = Has(c.matchers.Infra, span.Label+" "+text)
	return in
}

// Classify evaluates the rules in order; the first that applies wins.
func (c *Classifier) Classify(in ClassifyInput) Classification {
	for _, r := range c.rules {
		cat, ok := r.Applies(in)
		if !ok {
			continue
		}
		return c.attribute(in, Classification{Category: cat, Rule: r.Name})
	}
	return c.attribute(in, Classification{Category: domain.CategoryAdministrative, Rule: RuleFallback})
}

// attribute fills in ticket and client. Meetings are keyed by client, found
// through the contact table first; personal time carries neither.
func (c *Classifier) attribute(in ClassifyInput, cl Classification) Classification {
	switch cl.Category {
	case domain.CategoryPersonal:
		return cl
	case domain.CategoryMeeting:
		if m, ok := c.matchers.Contacts.Match(spanText(in.Span)); ok {
			cl.Client = m.Value
		} else {
			cl.Client = in.Evidence.Client
		}
		return cl
	}
	cl.TicketID = in.Evidence.Ticket
	cl.Client = in.Evidence.Client
	return cl
}

func spanText(span domain.Span) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, iv := range span.Intervals {
		t := iv.Text()
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t)
	}
	return b.String()
}
