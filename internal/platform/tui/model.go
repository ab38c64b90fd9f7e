package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/shapesynth/internal/core"
)

// screen identifies the active view of an AppModel.
type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// AppModel manages the full ShapeSynth flow: menu -> game -> menu, with the
// scoreboard reachable from the menu. It is the top-level model for both
// local play and SSH sessions.
type AppModel struct {
	env        Env
	screen     screen
	menu       MenuModel
	gameModel  *GameModel
	scoreboard ScoreboardModel
	width      int
	height     int
	quitting   bool
}

// NewAppModel creates the top-level model, starting at the level menu.
func NewAppModel(env Env, width, height int) AppModel {
	return AppModel{
		env:    env,
		menu:   NewMenuModel(env, width, height),
		width:  width,
		height: height,
	}
}

// NewAppModelAt creates the top-level model with levelID already loaded.
func NewAppModelAt(env Env, levelID, width, height int) (AppModel, error) {
	m := NewAppModel(env, width, height)
	game, err := NewGameModel(env, levelID, width, height)
	if err != nil {
		return AppModel{}, err
	}
	m.gameModel = &game
	m.screen = screenGame
	return m, nil
}

// Init initializes the active screen.
func (m AppModel) Init() tea.Cmd {
	if m.screen == screenGame && m.gameModel != nil {
		return m.gameModel.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.env, m.width, m.height)
		m.screen = screenScores
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := NewGameModel(m.env, selected.Level.ID, m.width, m.height)
		if err != nil {
			// Shouldn't happen since the menu only lists catalog levels
			m.env.logger().Error("could not load level", "level", selected.Level.ID, "error", err)
			m.menu = m.freshMenu()
			return m, nil
		}
		m.gameModel = &game
		m.screen = screenGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.gameModel == nil {
		m.screen = screenMenu
		return m, nil
	}

	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// Check if user left the game (back to menu)
	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		m.screen = screenMenu
		m.menu = m.freshMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.freshMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// freshMenu rebuilds the menu so new results show up, keeping the filter.
func (m AppModel) freshMenu() MenuModel {
	menu := NewMenuModel(m.env, m.width, m.height)
	for menu.Filter() != m.menu.Filter() {
		menu.filter++
		if menu.filter >= len(menu.filters) {
			menu.filter = 0
			break
		}
	}
	menu.reload()
	return menu
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// Screen returns the name of the active screen.
func (m AppModel) Screen() string {
	switch m.screen {
	case screenGame:
		return "game"
	case screenScores:
		return "scores"
	default:
		return "menu"
	}
}

// Game returns the running game model, or nil outside a game.
func (m AppModel) Game() *GameModel {
	return m.gameModel
}

// Run starts the Bubble Tea program locally. A positive levelID skips the
// menu and opens that level.
func Run(env Env, cfg core.RuntimeConfig, levelID int) error {
	sessions := &sessionSet{}
	defer sessions.closeAll()
	env = env.withTracking(sessions)

	w, h := cfg.ScreenW, cfg.ScreenH

	var model tea.Model = NewAppModel(env, w, h)
	if levelID > 0 {
		app, err := NewAppModelAt(env, levelID, w, h)
		if err != nil {
			return err
		}
		model = app
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse placement on the playfield
	)

	_, err := p.Run()
	return err
}
