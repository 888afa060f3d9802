package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
)

// Match is the result of a single matcher over a piece of text.
type Match struct {
	Value      string
	All        []string
	Confidence domain.Confidence
}

// Matcher finds at most one value in free text. Implementations are
// deterministic and safe for concurrent use once built.
type Matcher interface {
	Name() string
	Match(text string) (Match, bool)
}

// PrefixMatcher finds issue keys such as "ROMSD-1234" for a fixed set of prefixes.
type PrefixMatcher struct {
	re *regexp.Regexp
}

// NewPrefixMatcher returns nil when no prefixes are configured.
func NewPrefixMatcher(prefixes []string) *PrefixMatcher {
	var parts []string
	seen := make(map[string]bool)
	for _, p := range prefixes {
		n := config.NormalizePrefix(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		parts = append(parts, regexp.QuoteMeta(n))
	}
	if len(parts) == 0 {
		return nil
	}
	sort.Slice(parts, func(i, j int) bool {
		if len(parts[i]) != len(parts[j]) {
			return len(parts[i]) > len(parts[j])
		}
		return parts[i] < parts[j]
	})
	return &PrefixMatcher{re: regexp.MustCompile(`\b(?:` + strings.Join(parts, "|") + `)-\d+\b`)}
}

func (m *PrefixMatcher) Name() string { return "ticket_prefix" }

// Match returns the first ticket in text; All lists every distinct ticket in order.
func (m *PrefixMatcher) Match(text string) (Match, bool) {
	if m == nil || text == "" {
		return Match{}, false
	}
	found := m.re.FindAllString(text, -1)
	if len(found) == 0 {
		return Match{}, false
	}
	return Match{Value: found[0], All: dedupe(found), Confidence: domain.ConfidenceMedium}, true
}

// BranchMatcher pulls a git branch name out of IDE and git-client window titles.
type BranchMatcher struct {
	patterns []*regexp.Regexp
}

// NewBranchMatcher compiles the patterns; each must have a capture group
// holding the branch name.
func NewBranchMatcher(patterns []string) (*BranchMatcher, error) {
	m := &BranchMatcher{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling branch pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("branch pattern %q has no capture group", p)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

func (m *BranchMatcher) Name() string { return "git_branch" }

// Match tries the patterns in configured order; the first hit wins.
func (m *BranchMatcher) Match(text string) (Match, bool) {
	if m == nil || text == "" {
		return Match{}, false
	}
	for _, re := range m.patterns {
		if sub := re.FindStringSubmatch(text); len(sub) > 1 && sub[1] != "" {
			branch := strings.TrimRight(sub[1], ".,;:")
			return Match{Value: branch, All: []string{branch}, Confidence: domain.ConfidenceHigh}, true
		}
	}
	return Match{}, false
}

type keywordEntry struct {
	keyword string
	value   string
}

// KeywordMatcher maps case-insensitive substrings to values. Longer
// keywords are tried first so "dev.azure" beats "azure".
type KeywordMatcher struct {
	name       string
	entries    []keywordEntry
	confidence domain.Confidence
	// bounded keywords must not be glued to letters on either side.
	bounded bool
}

// NewKeywordMatcher builds a matcher over keyword -> value pairs.
func NewKeywordMatcher(name string, table map[string]string, confidence domain.Confidence) *KeywordMatcher {
	m := &KeywordMatcher{name: name, confidence: confidence}
	for k, v := range table {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		m.entries = append(m.entries, keywordEntry{keyword: k, value: v})
	}
	sort.Slice(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if len(a.keyword) != len(b.keyword) {
			return len(a.keyword) > len(b.keyword)
		}
		return a.keyword < b.keyword
	})
	return m
}

// NewKeywordSet builds a matcher whose values are the keywords themselves.
func NewKeywordSet(name string, keywords []string, confidence domain.Confidence) *KeywordMatcher {
	table := make(map[string]string, len(keywords))
	for _, k := range keywords {
		table[k] = strings.ToLower(strings.TrimSpace(k))
	}
	return NewKeywordMatcher(name, table, confidence)
}

// NewAppSet is NewKeywordSet for executable names. A keyword only matches
// where it is not part of a longer word, so "code" matches "Code.exe" and
// "Visual Studio Code" but not "xcodebuild". Digits may follow, as in
// "idea64.exe".
func NewAppSet(name string, apps []string, confidence domain.Confidence) *KeywordMatcher {
	m := NewKeywordSet(name, apps, confidence)
	m.bounded = true
	return m
}

func (m *KeywordMatcher) Name() string { return m.name }

func (m *KeywordMatcher) Match(text string) (Match, bool) {
	if m == nil || text == "" {
		return Match{}, false
	}
	lower := strings.ToLower(text)
	for _, e := range m.entries {
		if m.contains(lower, e.keyword) {
			return Match{Value: e.value, All: []string{e.value}, Confidence: m.confidence}, true
		}
	}
	return Match{}, false
}

func (m *KeywordMatcher) contains(text, keyword string) bool {
	if !m.bounded {
		return strings.Contains(text, keyword)
	}
	for from := 0; ; {
		i := strings.Index(text[from:], keyword)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(keyword)
		if (i == 0 || !isLetter(text[i-1])) && (end == len(text) || !isLetter(text[end])) {
			return true
		}
		from = i + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// DomainMatcher maps host suffixes ("acme.com") to values; "portal.acme.com"
// matches, "notacme.com" does not.
type DomainMatcher struct {
	entries []keywordEntry
}

func NewDomainMatcher(table map[string]string) *DomainMatcher {
	m := &DomainMatcher{}
	for k, v := range table {
		k = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(k)), ".")
		if k == "" {
			continue
		}
		m.entries = append(m.entries, keywordEntry{keyword: k, value: v})
	}
	sort.Slice(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if len(a.keyword) != len(b.keyword) {
			return len(a.keyword) > len(b.keyword)
		}
		return a.keyword < b.keyword
	})
	return m
}

func (m *DomainMatcher) Name() string { return "client_domain" }

// Match expects a bare host.
func (m *DomainMatcher) Match(host string) (Match, bool) {
	if m == nil || host == "" {
		return Match{}, false
	}
	host = strings.ToLower(host)
	for _, e := range m.entries {
		if host == e.keyword || strings.HasSuffix(host, "."+e.keyword) {
			return Match{Value: e.value, All: []string{e.value}, Confidence: domain.ConfidenceMedium}, true
		}
	}
	return Match{}, false
}

// Matchers is the compiled form of the configuration tables used by the
// extractor, classifier and aggregator.
type Matchers struct {
	Tickets        *PrefixMatcher
	Branches       *BranchMatcher
	ClientDomains  *DomainMatcher
	ClientKeywords *KeywordMatcher
	Contacts       *KeywordMatcher
	Personal       *KeywordMatcher
	Review         *KeywordMatcher
	Infra          *KeywordMatcher
	MeetingApps    *KeywordMatcher
	DevApps        *KeywordMatcher
	BranchApps     *KeywordMatcher
	AppCategories  *KeywordMatcher
	Projects       *KeywordMatcher
	Environments   *KeywordMatcher
	ContextHints   *KeywordMatcher
}

// NewMatchers compiles cfg. The config is expected to have passed Validate.
func NewMatchers(cfg config.Config) (*Matchers, error) {
	prefixes := make([]string, 0, len(cfg.TicketPrefixes))
	for _, p := range cfg.TicketPrefixes {
		prefixes = append(prefixes, p.Prefix)
	}
	branches, err := NewBranchMatcher(cfg.BranchPatterns)
	if err != nil {
		return nil, err
	}
	return &Matchers{
		Tickets:        NewPrefixMatcher(prefixes),
		Branches:       branches,
		ClientDomains:  NewDomainMatcher(cfg.ClientDomains),
		ClientKeywords: NewKeywordMatcher("client_keyword", cfg.Clients, domain.ConfidenceLow),
		Contacts:       NewKeywordMatcher("contact", cfg.Contacts, domain.ConfidenceMedium),
		Personal:       NewKeywordSet("likely_personal", cfg.LikelyPersonal, domain.ConfidenceLow),
		Review:         NewKeywordSet("review", cfg.ReviewKeywords, domain.ConfidenceMedium),
		Infra:          NewKeywordSet("infra", cfg.InfraKeywords, domain.ConfidenceLow),
		MeetingApps:    NewKeywordSet("meeting_app", cfg.MeetingApps, domain.ConfidenceHigh),
		DevApps:        NewAppSet("dev_app", cfg.DevApps, domain.ConfidenceHigh),
		BranchApps:     NewAppSet("branch_app", cfg.BranchApps, domain.ConfidenceHigh),
		AppCategories:  NewKeywordMatcher("app_category", cfg.AppCategories, domain.ConfidenceHigh),
		Projects:       NewKeywordMatcher("project", cfg.Projects, domain.ConfidenceLow),
		Environments:   NewKeywordMatcher("environment", cfg.Environments, domain.ConfidenceLow),
		ContextHints:   NewKeywordMatcher("context_hint", cfg.ContextHints, domain.ConfidenceLow),
	}, nil
}

// Has reports whether m matched text; nil matchers never match.
func Has(m Matcher, text string) bool {
	_, ok := m.Match(text)
	return ok
}

func dedupe(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
