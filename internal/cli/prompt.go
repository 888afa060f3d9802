package cli

import (
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// worklogHuhTheme returns a huh theme using the Gruvbox palette.
func worklogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// dateForm asks for the day to report on. A blank answer means today.
func dateForm(value *string, now func() time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD, DD.MM.YYYY, today or yesterday").
				Placeholder(now().Format(time.DateOnly)).
				Value(value).
				Validate(func(s string) error { return validateOptionalDate(s, now) }),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false)
}

func validateOptionalDate(s string, now func() time.Time) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseDate(s, now())
	return err
}

// promptDate runs the date form on the terminal.
func promptDate(now func() time.Time) (time.Time, error) {
	var answer string
	if err := dateForm(&answer, now).Run(); err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(answer) == "" {
		return civil(now()), nil
	}
	return parseDate(answer, now())
}
