package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// pagerModel shows rendered output in a scrollable viewport.
type pagerModel struct {
	title   string
	content string
	vp      viewport.Model
	ready   bool
	quit    key.Binding
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{
		title:   title,
		content: content,
		quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

func (m pagerModel) Init() tea.Cmd { return nil }

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.KeyMap = pagerKeyMap()
			m.vp.MouseWheelEnabled = true
			m.vp.MouseWheelDelta = 3
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			return m, tea.Quit
		}
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return ""
	}
	bar := strings.Join([]string{
		formatter.Dim(m.title),
		scrollIndicator(m.vp),
		formatter.Dim("q: quit"),
	}, "  ")
	return m.vp.View() + "\n" + bar
}

func pagerKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ", "f")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "b")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u", "u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d", "d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

// scrollIndicator returns a dim scroll position string for the status bar.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

// runPager blocks until the user leaves the pager.
func runPager(title, content string) error {
	_, err := tea.NewProgram(newPagerModel(title, content), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
