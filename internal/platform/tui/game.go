package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/config"
	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/session"
	"github.com/vovakirdan/shapesynth/internal/storage"
)

// Game screen layout
const (
	hudLines    = 2
	footerLines = 2 // message + help
	timeBarLen  = 12
)

// GameModel is the Bubble Tea model of a running level: it forwards input to
// a session and redraws on the session's events.
type GameModel struct {
	env    Env
	sess   *session.Session
	sub    *session.Subscription
	keys   GameKeyMap
	help   help.Model
	theme  Theme
	canvas *core.Canvas
	view   Viewport
	width  int
	height int

	frame      int
	message    string
	recorded   bool // the current finished attempt has been saved
	quitting   bool
	backToMenu bool
}

// NewGameModel loads levelID into a fresh session.
func NewGameModel(env Env, levelID, width, height int) (GameModel, error) {
	sess := env.newSession()
	if err := sess.Load(levelID); err != nil {
		sess.Close()
		return GameModel{}, err
	}

	m := GameModel{
		env:    env,
		sess:   sess,
		sub:    sess.Subscribe(0),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		theme:  DefaultTheme(),
		canvas: core.NewCanvas(0, 0),
	}
	m.resize(width, height)
	return m, nil
}

// Init starts listening for session events and the frame ticker.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.sub),
		frameCmd(m.env.Config.UI.FrameInterval()),
	)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case SessionEventMsg:
		m.settle()
		return m, waitForEvent(m.sub)
	case sessionClosedMsg:
		return m, nil
	case FrameMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		m.frame++
		m.settle()
		return m, frameCmd(m.env.Config.UI.FrameInterval())
	}
	return m, nil
}

func (m *GameModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	fieldH := core.Max(height-hudLines-footerLines, 4)
	m.canvas.Resize(core.Max(width, 4), fieldH)
	m.view = Viewport{Area: core.NewRect(1, 1, core.Max(width-2, 2), fieldH-2)}
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}
	m.settle()
	m.apply(action)
	m.settle()
	return m, nil
}

// apply runs a game action against the session and records the outcome in
// the message line.
func (m *GameModel) apply(action core.Action) {
	var err error
	switch action {
	case core.ActionNone:
		return
	case core.ActionBack:
		m.backToMenu = true
		m.Close()
		return
	case core.ActionStart:
		err = m.sess.Start()
	case core.ActionNextShape:
		err = m.cycleSelection(1)
	case core.ActionPrevShape:
		err = m.cycleSelection(-1)
	case core.ActionMoveUp, core.ActionMoveDown, core.ActionMoveLeft, core.ActionMoveRight:
		dx, dy, _ := action.MoveDelta()
		err = m.nudge(dx, dy)
	case core.ActionRotate:
		err = m.sess.RotateSelected()
	case core.ActionScaleUp:
		err = m.sess.ScaleSelected(m.env.Config.Session.ScaleStep)
	case core.ActionScaleDown:
		err = m.sess.ScaleSelected(-m.env.Config.Session.ScaleStep)
	case core.ActionHint:
		var h catalog.Hint
		h, err = m.sess.UseHint("")
		if err == nil {
			m.message = fmt.Sprintf("Hint: move to (%.0f, %.0f), rotate to %d°, scale %.1f. %d hints left.",
				h.Position.X, h.Position.Y, h.Rotation, h.Scale, m.sess.State().HintsRemaining)
			return
		}
	case core.ActionRestart:
		err = m.sess.RestartLevel()
	case core.ActionAdvance:
		err = m.sess.AdvanceLevel()
		if errors.Is(err, session.ErrNotFound) {
			m.message = "That was the last level. Well played!"
			return
		}
	}

	if err != nil {
		m.message = describeError(action, err)
		return
	}
	m.message = ""
}

// cycleSelection selects the next (dir > 0) or previous shape.
func (m *GameModel) cycleSelection(dir int) error {
	snap := m.sess.Snapshot()
	n := len(snap.Shapes)
	if n == 0 {
		return nil
	}

	idx := -1
	for i, sh := range snap.Shapes {
		if sh.ID == snap.Selected {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx < 0 && dir < 0:
		next = n - 1
	case idx < 0:
		next = 0
	default:
		next = ((idx+dir)%n + n) % n
	}
	return m.sess.SelectShape(snap.Shapes[next].ID)
}

// nudge moves the selected shape one step. An unplaced shape starts from its
// tray slot.
func (m *GameModel) nudge(dx, dy float64) error {
	snap := m.sess.Snapshot()
	if snap.Selected == "" {
		return session.ErrNoSelection
	}

	for i, sh := range snap.Shapes {
		if sh.ID != snap.Selected {
			continue
		}
		step := m.env.Config.UI.MoveStep
		p := displayPosition(sh, i).Add(dx*step, dy*step)
		p = core.Pt(core.ClampF(p.X, 0, FieldWidth), core.ClampF(p.Y, 0, FieldHeight))
		return m.sess.MoveShape(sh.ID, p)
	}
	return nil
}

// handleMouse selects the clicked shape, or drops the selected shape at the
// clicked point.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	x, y := msg.X, msg.Y-hudLines
	m.settle()
	snap := m.sess.Snapshot()

	var err error
	if id, ok := m.view.ShapeAt(snap.Shapes, x, y); ok {
		err = m.sess.SelectShape(id)
	} else if p, ok := m.view.ToCanvas(x, y); ok && snap.Selected != "" {
		err = m.sess.MoveShape(snap.Selected, p)
	} else {
		return m, nil
	}

	if err != nil {
		m.message = describeError(core.ActionNone, err)
	} else {
		m.message = ""
	}
	m.settle()
	return m, nil
}

// settle saves a finished attempt exactly once. It reads the session state
// directly, so a terminal event dropped from a full subscription buffer
// cannot skip the save.
func (m *GameModel) settle() {
	if m.quitting || m.backToMenu {
		return
	}
	st := m.sess.State()
	if !st.Status.Terminal() {
		m.recorded = false
		return
	}
	if m.recorded {
		return
	}
	m.recorded = true

	switch st.Status {
	case session.StatusSuccess:
		m.message = "Level complete! Press N for the next level."
	case session.StatusFailed:
		m.message = "Time's up! Press X to try again."
	}
	m.recordRun(st, m.sess.CompletionBonus())
}

// recordRun saves a finished attempt. A successful run is recorded with the
// time bonus it will carry into the next level.
func (m *GameModel) recordRun(st session.State, bonus int) {
	if m.env.Store == nil {
		return
	}

	run := storage.Run{
		Pack:          m.env.Catalog.Name(),
		LevelID:       st.LevelID,
		Player:        m.env.Player,
		Outcome:       storage.OutcomeFailed,
		Score:         st.Score + bonus,
		Match:         st.MatchPercentage,
		TimeRemaining: st.TimeRemaining,
		HintsUsed:     m.sess.HintBudget() - st.HintsRemaining,
	}
	if st.Status == session.StatusSuccess {
		run.Outcome = storage.OutcomeSuccess
	}

	if _, err := m.env.Store.SaveRun(run); err != nil {
		m.env.logger().Warn("could not save run", "level", st.LevelID, "error", err)
	}
}

// saveScreenshot writes the current playfield as plain text to the user's
// screenshots directory.
func (m *GameModel) saveScreenshot() {
	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.message = "Could not save screenshot."
		return
	}

	name := fmt.Sprintf("level%d_%s.txt", m.sess.State().LevelID, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.canvas.String()), 0o600); err != nil {
		m.message = "Could not save screenshot."
		return
	}
	m.message = "Screenshot saved to " + path
}

// describeError turns a session error into a player-facing message.
func describeError(action core.Action, err error) string {
	if errors.Is(err, session.ErrNotFound) {
		return "Nothing to show here."
	}
	if errors.Is(err, session.ErrNoHints) {
		return "No hints remaining for this level!"
	}
	if errors.Is(err, session.ErrNoSelection) {
		return "Select a shape first (Tab or click)."
	}

	if st, ok := session.StatusOf(err); ok {
		switch {
		case action == core.ActionAdvance:
			return "Complete the level before advancing."
		case st == session.StatusIdle:
			return "Press SPACE to start the level."
		case st.Terminal():
			return "The level is over. Press X to restart."
		}
	}
	return err.Error()
}

// Close releases the session and its subscription.
func (m GameModel) Close() {
	m.sub.Close()
	m.sess.Close()
}

// View renders the HUD, the playfield and the footer.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	snap := m.sess.Snapshot()

	m.canvas.Clear()
	blink := m.frame%10 >= 5
	DrawPlayfield(m.canvas, m.view, snap, m.env.Config.Scoring.Evaluator().Center, blink)
	m.drawOverlay(snap)

	var b strings.Builder
	b.WriteString(m.renderHUD(snap))
	b.WriteString("\n")
	b.WriteString(RenderCanvas(m.canvas))
	b.WriteString("\n")
	b.WriteString(m.theme.Message.Render(m.message))
	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))
	return b.String()
}

func (m GameModel) renderHUD(snap session.Snapshot) string {
	t := m.theme
	st := snap.State
	lvl := snap.Level
	sep := t.HUDSeparator.Render("  │  ")

	diff := lipgloss.NewStyle().Foreground(lipgloss.Color(DifficultyColor(string(lvl.Difficulty)))).
		Render(strings.ToUpper(string(lvl.Difficulty)))
	line1 := t.HUDTitle.Render("ShapeSynth") + sep +
		t.HUDLabel.Render(fmt.Sprintf("Level %d · ", lvl.ID)) + t.HUDValue.Render(lvl.Name) + " " + diff +
		t.HUDLabel.Render(fmt.Sprintf("  target %d°", lvl.Target.Rotation))

	matchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(MatchColor(st.MatchPercentage, lvl.RequiredAccuracy))).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(TimerColor(st.TimeRemaining, lvl.TimeLimit)))

	line2 := t.HUDLabel.Render("Match ") + matchStyle.Render(fmt.Sprintf("%.0f%%", st.MatchPercentage)) +
		t.HUDLabel.Render(fmt.Sprintf(" / %.0f%%", lvl.RequiredAccuracy)) + sep +
		t.HUDLabel.Render("Time ") + timeStyle.Render(TimeBar(st.TimeRemaining, lvl.TimeLimit, timeBarLen)) +
		t.HUDValue.Render(fmt.Sprintf(" %ds", st.TimeRemaining)) + sep +
		t.HUDLabel.Render("Score ") + t.HUDValue.Render(fmt.Sprintf("%d", st.Score)) + sep +
		t.HUDLabel.Render("Hints ") + t.HUDValue.Render(fmt.Sprintf("%d", st.HintsRemaining))

	if sh, ok := snap.SelectedShape(); ok {
		line2 += sep + t.HUDLabel.Render(sh.ID+" ") +
			t.HUDValue.Render(fmt.Sprintf("%d° ×%.1f", sh.Rotation, sh.Scale))
	}
	return line1 + "\n" + line2
}

// drawOverlay writes the status banner into the playfield.
func (m GameModel) drawOverlay(snap session.Snapshot) {
	var text, color string
	switch snap.State.Status {
	case session.StatusIdle:
		text, color = " Press SPACE to start · Tab selects a shape ", "#FFFFFF"
	case session.StatusSuccess:
		text, color = " LEVEL COMPLETE · N next level · X replay ", colorSuccess
	case session.StatusFailed:
		text, color = " TIME'S UP · X retry · Esc levels ", colorError
	default:
		return
	}
	m.canvas.DrawTextCentered(m.canvas.Height()-2, text, color)
}

// TimeBar renders remaining/limit as a bar of width cells.
func TimeBar(remaining, limit, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if limit > 0 {
		filled = core.Clamp(remaining*width/limit, 0, width)
		if remaining > 0 && filled == 0 {
			filled = 1
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Session returns the underlying game session.
func (m GameModel) Session() *session.Session {
	return m.sess
}

// Message returns the current status line.
func (m GameModel) Message() string {
	return m.message
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level picker.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
