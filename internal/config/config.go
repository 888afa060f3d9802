package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/worklog/internal/domain"
)

// ErrNotFound is returned when an explicitly requested config file does not exist.
var ErrNotFound = errors.New("config file not found")

// TicketPrefix is a recognised issue-tracker key prefix such as "ROMSD".
type TicketPrefix struct {
	Prefix      string              `toml:"prefix" json:"prefix"`
	Family      domain.TicketFamily `toml:"family" json:"family"`
	Description string              `toml:"description" json:"description"`
}

// Thresholds holds the numeric tuning parameters of the engine.
type Thresholds struct {
	MergeGapSeconds int `toml:"merge_gap_seconds" json:"merge_gap_seconds"`
	BreakSeconds    int `toml:"break_seconds" json:"break_seconds"`
	// DevShare is the share of session time a development app must reach
	// before personal-looking spans in that session count as work. Zero
	// disables the reclassification.
	DevShare float64 `toml:"dev_share" json:"dev_share"`
	// MinRowSeconds hides rows below this total in rendered tables.
	MinRowSeconds int `toml:"min_row_seconds" json:"min_row_seconds"`
}

// Config is the complete, immutable-by-convention configuration value.
// Components receive it explicitly; nothing reads it from globals.
type Config struct {
	Database string `toml:"database" json:"database"`
	Export   string `toml:"export" json:"export"`
	Hostname string `toml:"hostname" json:"hostname"`
	Timezone string `toml:"timezone" json:"timezone"`
	LogCalls bool   `toml:"log_calls" json:"log_calls"`

	Clients        map[string]string `toml:"clients" json:"clients"`
	ClientDomains  map[string]string `toml:"client_domains" json:"client_domains"`
	Contacts       map[string]string `toml:"contacts" json:"contacts"`
	TicketPrefixes []TicketPrefix    `toml:"ticket_prefixes" json:"-"`
	KnownTickets   map[string]string `toml:"known_tickets" json:"known_tickets"`
	LikelyPersonal []string          `toml:"likely_personal" json:"likely_personal"`
	AppCategories  map[string]string `toml:"app_categories" json:"app_categories"`
	MeetingApps    []string          `toml:"meeting_apps" json:"meeting_apps"`
	DevApps        []string          `toml:"dev_apps" json:"dev_apps"`
	BranchApps     []string          `toml:"branch_apps" json:"branch_apps"`
	BranchPatterns []string          `toml:"branch_patterns" json:"branch_patterns"`
	ReviewKeywords []string          `toml:"review_keywords" json:"review_keywords"`
	InfraKeywords  []string          `toml:"infra_keywords" json:"infra_keywords"`
	Projects       map[string]string `toml:"projects" json:"projects"`
	Environments   map[string]string `toml:"environments" json:"environments"`
	ContextHints   map[string]string `toml:"context_hints" json:"context_hints"`

	Thresholds Thresholds `toml:"thresholds" json:"thresholds"`
}

// DefaultConfig returns a Config with empty mapping tables and the stock
// app lists. Ticket prefixes and clients are site-specific and start empty.
func DefaultConfig() Config {
	return Config{
		Clients:        map[string]string{},
		ClientDomains:  map[string]string{},
		Contacts:       map[string]string{},
		KnownTickets:   map[string]string{},
		AppCategories:  map[string]string{},
		Projects:       map[string]string{},
		Environments:   map[string]string{},
		ContextHints:   map[string]string{},
		LikelyPersonal: []string{"youtube", "netflix", "reddit", "twitch", "spotify"},
		MeetingApps:    []string{"ms-teams", "teams.exe", "zoom", "webex", "meet.google.com", "teams.microsoft.com"},
		DevApps:        []string{"rider", "devenv", "code", "idea", "goland", "pycharm", "gitextensions", "windowsterminal", "terminal", "iterm", "alacritty", "kitty"},
		BranchApps:     []string{"gitextensions", "rider", "code", "idea", "goland", "windowsterminal", "terminal", "iterm"},
		BranchPatterns: []string{
			`Commit to ([^ ]+)`,
			`on branch ([\w./-]+)`,
			`\(([\w.-]+/[\w./-]+)\)`,
			`\[([\w.-]+/[\w./-]+)\]`,
			// Git Extensions: "<repo> (<branch>) - Git Extensions", branch may lack a slash
			`(?i)^[\w.-]+ \(([\w./-]+)\) - git ?extensions`,
		},
		ReviewKeywords: []string{"pull request", "merge request", "code review", "/pullrequest/", "/pull/"},
		InfraKeywords:  []string{"portal.azure", "aws.amazon", "console.cloud", "grafana", "kibana", "jenkins", "argocd", "pipeline", "kubernetes", "terraform"},
		Thresholds: Thresholds{
			MergeGapSeconds: 5,
			BreakSeconds:    600,
			MinRowSeconds:   60,
		},
	}
}

// Load resolves the config file (explicit path, $WORKLOG_CONFIG, then the
// XDG locations), decodes it over the defaults and applies environment
// overrides. A missing file at a default location is not an error.
func Load(explicit string) (Config, error) {
	cfg := DefaultConfig()

	path := explicit
	if path == "" {
		path = os.Getenv("WORKLOG_CONFIG")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	cfg.Database = expandHome(cfg.Database)
	cfg.Export = expandHome(cfg.Export)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeLegacyJSON(path, cfg)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// legacyConfig mirrors the config.json layout of the older Python tooling,
// where ticket_prefixes maps a prefix to its description.
type legacyConfig struct {
	Config
	TicketPrefixes map[string]string `json:"ticket_prefixes"`
	TicketFamilies map[string]string `json:"ticket_families"`
}

func decodeLegacyJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	legacy := legacyConfig{Config: *cfg}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	*cfg = legacy.Config
	for prefix, desc := range legacy.TicketPrefixes {
		cfg.TicketPrefixes = append(cfg.TicketPrefixes, TicketPrefix{
			Prefix:      prefix,
			Family:      domain.TicketFamily(legacy.TicketFamilies[prefix]),
			Description: desc,
		})
	}
	sortPrefixes(cfg.TicketPrefixes)
	return nil
}

func applyEnv(cfg *Config) {
	if v := domain.CoalesceStr(os.Getenv("WORKLOG_DB"), os.Getenv("AW_DATABASE")); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("WORKLOG_EXPORT"); v != "" {
		cfg.Export = v
	}
	if v := os.Getenv("WORKLOG_HOSTNAME"); v != "" {
		cfg.Hostname = v
	}
	if v := os.Getenv("WORKLOG_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("WORKLOG_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("WORKLOG_MERGE_GAP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Thresholds.MergeGapSeconds = n
		}
	}
	if v := os.Getenv("WORKLOG_BREAK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Thresholds.BreakSeconds = n
		}
	}
	if v := os.Getenv("WORKLOG_DEV_SHARE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.Thresholds.DevShare = f
		}
	}
}

// Validate checks thresholds, category names and branch patterns.
func (c Config) Validate() error {
	var errs []error
	if c.Thresholds.MergeGapSeconds < 0 {
		errs = append(errs, fmt.Errorf("thresholds.merge_gap_seconds must be >= 0"))
	}
	if c.Thresholds.BreakSeconds <= 0 {
		errs = append(errs, fmt.Errorf("thresholds.break_seconds must be > 0"))
	}
	if c.Thresholds.DevShare < 0 || c.Thresholds.DevShare > 1 {
		errs = append(errs, fmt.Errorf("thresholds.dev_share must be within [0, 1]"))
	}
	for app, cat := range c.AppCategories {
		if _, err := domain.ParseCategory(cat); err != nil {
			errs = append(errs, fmt.Errorf("app_categories[%s]: %w", app, err))
		}
	}
	for _, p := range c.TicketPrefixes {
		if strings.Trim(p.Prefix, "- ") == "" {
			errs = append(errs, fmt.Errorf("ticket_prefixes: empty prefix"))
		}
		switch p.Family {
		case domain.FamilyNone, domain.FamilyBug, domain.FamilyFeature:
		default:
			errs = append(errs, fmt.Errorf("ticket_prefixes[%s]: unknown family %q", p.Prefix, p.Family))
		}
	}
	for _, pat := range c.BranchPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			errs = append(errs, fmt.Errorf("branch_patterns %q: %w", pat, err))
			continue
		}
		if re.NumSubexp() < 1 {
			errs = append(errs, fmt.Errorf("branch_patterns %q: needs a capture group", pat))
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Location returns the configured time zone, defaulting to the local one.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// MergeGap returns the span merge tolerance.
func (c Config) MergeGap() time.Duration {
	return time.Duration(c.Thresholds.MergeGapSeconds) * time.Second
}

// BreakThreshold returns the minimum idle duration that counts as a break.
func (c Config) BreakThreshold() time.Duration {
	return time.Duration(c.Thresholds.BreakSeconds) * time.Second
}

// TicketPrefixFor returns the configured prefix entry a ticket ID starts with.
func (c Config) TicketPrefixFor(ticket string) (TicketPrefix, bool) {
	for _, p := range c.TicketPrefixes {
		if strings.HasPrefix(ticket, NormalizePrefix(p.Prefix)+"-") {
			return p, true
		}
	}
	return TicketPrefix{}, false
}

// TicketDescription prefers a known-ticket description over the prefix one.
func (c Config) TicketDescription(ticket string) string {
	if d := c.KnownTickets[ticket]; d != "" {
		return d
	}
	if p, ok := c.TicketPrefixFor(ticket); ok {
		return p.Description
	}
	return ""
}

// NormalizePrefix strips the separator from a configured prefix ("ROMSD-" -> "ROMSD").
func NormalizePrefix(p string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(p), "-"))
}

func sortPrefixes(ps []TicketPrefix) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Prefix < ps[j].Prefix })
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "worklog", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "worklog", "config.toml"),
			filepath.Join(home, ".config", "worklog", "config.json"),
		)
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
