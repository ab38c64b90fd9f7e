package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/storage"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	Level catalog.Level
	Stats storage.LevelStats // zero when never played
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	env            Env
	items          []MenuItem // levels matching the filter
	filters        []catalog.Difficulty
	filter         int // index into filters; 0 shows every level
	cursor         int
	width          int
	height         int
	theme          Theme
	quitting       bool
	selected       *MenuItem // Set when user selects a level
	openScoreboard bool      // True if user pressed T for scoreboard
}

// NewMenuModel creates a new level picker.
func NewMenuModel(env Env, width, height int) MenuModel {
	m := MenuModel{
		env:     env,
		filters: append([]catalog.Difficulty{""}, catalog.Difficulties()...),
		width:   width,
		height:  height,
		theme:   DefaultTheme(),
	}
	m.reload()
	return m
}

// reload rebuilds the item list from the catalog and the run history.
func (m *MenuModel) reload() {
	stats := make(map[int]storage.LevelStats)
	if m.env.Store != nil {
		all, err := m.env.Store.LevelStats(m.env.Catalog.Name())
		if err != nil {
			m.env.logger().Warn("could not load level stats", "error", err)
		}
		for _, st := range all {
			stats[st.LevelID] = st
		}
	}

	var levels []catalog.Level
	if d := m.filters[m.filter]; d == "" {
		levels = m.env.Catalog.Levels()
	} else {
		levels = m.env.Catalog.ByDifficulty(d)
	}

	m.items = make([]MenuItem, 0, len(levels))
	for _, lvl := range levels {
		m.items = append(m.items, MenuItem{Level: lvl, Stats: stats[lvl.ID]})
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionFilter:
		m.filter = (m.filter + 1) % len(m.filters)
		m.cursor = 0
		m.reload()

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	t := m.theme
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(t.MenuTitle.Render("S H A P E S Y N T H"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(t.MenuDescription.Render(m.env.Catalog.Title()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderFilters(), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(t.MenuDescription.Render("No levels at this difficulty."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		lvl := item.Level
		cursor := "  "
		style := t.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = t.MenuItemActive
		}

		diff := lipgloss.NewStyle().Foreground(lipgloss.Color(DifficultyColor(string(lvl.Difficulty)))).
			Render(fmt.Sprintf("%-6s", lvl.Difficulty))
		line := style.Render(fmt.Sprintf("%s%d. %-16s", cursor, lvl.ID, lvl.Name)) + " " + diff +
			t.MenuDescription.Render(fmt.Sprintf("  %3ds  %3.0f%%  %s", lvl.TimeLimit, lvl.RequiredAccuracy, bestLabel(item.Stats)))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Difficulty  |  T: Scores  |  Q: Quit"
	b.WriteString(centerText(t.HUDControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) renderFilters() string {
	parts := make([]string, len(m.filters))
	for i, d := range m.filters {
		name := "all"
		if d != "" {
			name = string(d)
		}
		if i == m.filter {
			parts[i] = m.theme.MenuItemActive.Render("[" + name + "]")
		} else {
			parts[i] = m.theme.MenuDescription.Render(" " + name + " ")
		}
	}
	return strings.Join(parts, " ")
}

// bestLabel summarizes a level's history for the menu.
func bestLabel(st storage.LevelStats) string {
	if st.Attempts == 0 {
		return "not played"
	}
	if st.Successes == 0 {
		return fmt.Sprintf("best %.0f%% (%d tries)", st.BestMatch, st.Attempts)
	}
	return fmt.Sprintf("best %d (%d/%d)", st.BestScore, st.Successes, st.Attempts)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Filter returns the active difficulty filter, empty for all levels.
func (m MenuModel) Filter() catalog.Difficulty {
	return m.filters[m.filter]
}
