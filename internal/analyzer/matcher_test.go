package analyzer

import (
	"testing"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixMatcher(t *testing.T) {
	m := NewPrefixMatcher([]string{"ROMSD-", "ITEM", "romsd"})
	require.NotNil(t, m)

	got, ok := m.Match("ROMSD-12 and ITEM-7, again ROMSD-12")
	require.True(t, ok)
	assert.Equal(t, "ROMSD-12", got.Value)
	assert.Equal(t, []string{"ROMSD-12", "ITEM-7"}, got.All)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)

	_, ok = m.Match("XROMSD-12 romsd-3 ROMSD-")
	assert.False(t, ok)
}

func TestPrefixMatcher_NoPrefixes(t *testing.T) {
	m := NewPrefixMatcher(nil)
	assert.Nil(t, m)
	assert.False(t, Has(m, "ROMSD-1"))
}

func TestBranchMatcher(t *testing.T) {
	m, err := NewBranchMatcher([]string{`Commit to ([^ ]+)`, `rooms \(([^)]+)\)`})
	require.NoError(t, err)

	got, ok := m.Match("Commit to feature/ITEM-42-login - GitExtensions")
	require.True(t, ok)
	assert.Equal(t, "feature/ITEM-42-login", got.Value)
	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)

	got, ok = m.Match("rooms (bugfix/ROMSD-9) - GitExtensions")
	require.True(t, ok)
	assert.Equal(t, "bugfix/ROMSD-9", got.Value)

	_, ok = m.Match("Browse - GitExtensions")
	assert.False(t, ok)
}

func TestDefaultBranchPatterns_GitExtensionsTitle(t *testing.T) {
	m := newTestMatchers(t, config.DefaultConfig())

	tests := []struct {
		title  string
		branch string
	}{
		{"rooms (master) - Git Extensions", "master"},
		{"rooms (develop) - GitExtensions", "develop"},
		{"rooms (feature/ITEM-42-login) - Git Extensions", "feature/ITEM-42-login"},
		{"rooms (master) - Visual Studio", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := m.Branches.Match(tt.title)
			assert.Equal(t, tt.branch != "", ok)
			assert.Equal(t, tt.branch, got.Value)
		})
	}
}

func TestBranchMatcher_InvalidPatterns(t *testing.T) {
	_, err := NewBranchMatcher([]string{`on branch \w+`})
	assert.Error(t, err, "pattern without capture group")

	_, err = NewBranchMatcher([]string{`(`})
	assert.Error(t, err)
}

func TestKeywordMatcher_LongestFirstCaseInsensitive(t *testing.T) {
	m := NewKeywordMatcher("client", map[string]string{
		"azure":     "Cloud",
		"dev.azure": "Acme",
	}, domain.ConfidenceLow)

	got, ok := m.Match("https://DEV.Azure.com/acme/_git")
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Value)
	assert.Equal(t, "client", m.Name())

	got, ok = m.Match("portal.azure.com")
	require.True(t, ok)
	assert.Equal(t, "Cloud", got.Value)
}

func TestKeywordSet_EmptyNeverMatches(t *testing.T) {
	m := NewKeywordSet("personal", nil, domain.ConfidenceLow)
	assert.False(t, Has(m, "youtube"))

	var nilMatcher *KeywordMatcher
	assert.False(t, Has(nilMatcher, "youtube"))
}

func TestAppSet_MatchesWholeExecutableNames(t *testing.T) {
	m := NewAppSet("dev_app", []string{"code", "idea", "terminal", "windowsterminal"}, domain.ConfidenceHigh)

	tests := []struct {
		app  string
		want bool
	}{
		{"Code.exe", true},
		{"Visual Studio Code", true},
		{"idea64.exe", true},
		{"WindowsTerminal.exe", true},
		{"gnome-terminal-server", true},
		{"xcodebuild", false},
		{"Codecademy.exe", false},
		{"ideaboard.exe", false},
		{"myterminalapp", false},
		{"decode", false},
	}
	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			assert.Equal(t, tt.want, Has(m, tt.app))
		})
	}

	// plain keyword sets still match inside words
	assert.True(t, Has(NewKeywordSet("review", []string{"code"}, domain.ConfidenceLow), "xcodebuild"))
}

func TestDomainMatcher_SuffixOnly(t *testing.T) {
	m := NewDomainMatcher(map[string]string{".acme.com": "Acme"})

	for _, host := range []string{"acme.com", "portal.acme.com", "PORTAL.ACME.COM"} {
		assert.True(t, Has(m, host), host)
	}
	for _, host := range []string{"notacme.com", "acme.com.evil.io", ""} {
		assert.False(t, Has(m, host), host)
	}
}

func TestNewMatchers_InvalidBranchPattern(t *testing.T) {
	cfg := testConfig()
	cfg.BranchPatterns = []string{`[`}
	_, err := NewMatchers(cfg)
	assert.Error(t, err)
}
