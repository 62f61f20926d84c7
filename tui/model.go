// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model implementation driving the rejection session

// Package tui provides the interactive terminal workbench for reviewing
// and rejecting epochs.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"epoch-select/config"
	"epoch-select/epoch"
	"epoch-select/rejection"
)

// Navigation and interaction constants
const (
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	manualTag             = "manual"        // Tag written by interactive accept toggles
)

// Prompt identifiers for the single-line text input
const (
	promptNone = iota
	promptThreshold
	promptSaveAs
	promptLoad
	promptPage
)

// unsavedWarning is the quit guard message; a second quit press while it
// is showing force-quits without saving.
const unsavedWarning = "Unsaved changes! Press 'w' to save or 'q' again to quit without saving"

// notices collects observer callbacks between renders. The session
// notifies synchronously during Update, so a pointer-held sink is
// enough; Update drains it after every session call.
type notices struct {
	changed    []int
	pathMoved  bool
	savedFlips []bool
}

// CasesChanged records the trials whose state was just written.
func (n *notices) CasesChanged(indices []int) {
	n.changed = append(n.changed, indices...)
}

// PathChanged records a destination path change.
func (n *notices) PathChanged() {
	n.pathMoved = true
}

// SavedChanged records a flip of the all-changes-saved state.
func (n *notices) SavedChanged(saved bool) {
	n.savedFlips = append(n.savedFlips, saved)
}

// reset clears all pending notices.
func (n *notices) reset() {
	n.changed = n.changed[:0]
	n.pathMoved = false
	n.savedFlips = n.savedFlips[:0]
}

// model holds the TUI state
type model struct {
	// Dependencies (concrete types following Go philosophy)
	sess   *rejection.Model
	stats  []epoch.Extremum
	debugf func(string, ...interface{})

	// Configuration
	cfg        config.Config
	configPath string

	// Paging
	cursorPos int
	page      int
	pageSize  int

	// Prompt state
	promptKind int
	input      textinput.Model

	// UI state
	width        int
	height       int
	statusMsg    string
	statusMsgAge time.Time
	quitWarned   bool

	// Observer sink, drained after every session call
	events *notices
}

// Key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	GotoPage  key.Binding
	Toggle    key.Binding
	Threshold key.Binding
	Clear     key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Save      key.Binding
	SaveAs    key.Binding
	Load      key.Binding
	Average   key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first trial"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last trial"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("[", "pgup"),
		key.WithHelp("[", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("]", "pgdown"),
		key.WithHelp("]", "next page"),
	),
	GotoPage: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "go to page"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle accept"),
	),
	Threshold: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "threshold"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear rejections"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save"),
	),
	SaveAs: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "save as"),
	),
	Load: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "load file"),
	),
	Average: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "grand average"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Options contains configuration for running the workbench
type Options struct {
	ConfigPath string
	DebugLog   bool
}

// Run starts the workbench over an existing session with injected
// dependencies.
func Run(sess *rejection.Model, cfg config.Config, opts Options, debugf func(string, ...interface{})) error {
	m := initModel(sess, cfg, opts, debugf)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(sess *rejection.Model, cfg config.Config, opts Options, debugf func(string, ...interface{})) model {
	input := textinput.New()
	input.CharLimit = 128
	input.Width = 40

	events := &notices{}
	sess.Subscribe(events)

	pageSize := cfg.PageRows * cfg.PageCols
	if pageSize < 1 {
		pageSize = 1
	}

	return model{
		sess:       sess,
		stats:      epoch.ComputeStats(sess.Doc().CleanTrials()),
		debugf:     debugf,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		pageSize:   pageSize,
		promptKind: promptNone,
		input:      input,
		events:     events,
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// drainEvents converts pending observer notices into a status message.
// The trial table always re-renders from the document, so the notices
// only feed user feedback.
func (m *model) drainEvents(verb string) {
	if n := len(m.events.changed); n > 0 && verb != "" {
		m.setStatusMsg(fmt.Sprintf("%s: %d trial(s)", verb, n))
	}

	m.events.reset()
}
