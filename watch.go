// ABOUTME: Read-only rejection-file viewer with live file watching
// ABOUTME: Monitors the rejection file for changes and redisplays decisions

package main

import (
	"fmt"
	"time"

	"epoch-select/epoch"
	"epoch-select/rejection"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

// viewModel holds the state for the read-only rejection viewer
type viewModel struct {
	rejPath     string
	trials      *epoch.Trials
	accept      []bool
	tags        []string
	viewport    viewport.Model
	width       int
	height      int
	fileWatcher *fsnotify.Watcher
	lastReload  time.Time
	errorMsg    string
	ready       bool
}

// Key bindings for view mode
type viewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var viewKeys = viewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "go to top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "go to bottom"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles for view mode
var (
	viewTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	viewHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	viewStatusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	viewHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	viewErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	viewRejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// fileChangeMsg is sent when the rejection file changes
type fileChangeMsg struct{}

// reloadCompleteMsg is sent after the rejection file reload completes
type reloadCompleteMsg struct {
	accept []bool
	tags   []string
	err    error
}

// RunViewMode starts the view-only mode with file watching. Another
// process (or another epoch-select session) owns the rejection file;
// this mode just mirrors it.
func RunViewMode(opts RunOptions) error {
	trials, err := epoch.ReadFile(opts.EpochsPath)
	if err != nil {
		return fmt.Errorf("failed to load epochs: %w", err)
	}

	accept, tags, err := rejection.ReadForDisplay(opts.RejPath, trials.Triggers)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(opts.RejPath); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch rejection file: %w", err)
	}

	m := viewModel{
		rejPath:     opts.RejPath,
		trials:      trials,
		accept:      accept,
		tags:        tags,
		fileWatcher: watcher,
		lastReload:  time.Now(),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		watcher.Close()
		return fmt.Errorf("view mode error: %w", err)
	}

	watcher.Close()
	return nil
}

// Init initializes the view model
func (m viewModel) Init() tea.Cmd {
	return tea.Batch(
		waitForFileChange(m.fileWatcher),
		tea.EnterAltScreen,
	)
}

// waitForFileChange returns a command that waits for file system events
func waitForFileChange(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				// Saves go through rename, so react to both
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					// Debounce: wait a bit for atomic writes to complete
					time.Sleep(100 * time.Millisecond)
					return fileChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadRejections loads the rejection file in the background
func reloadRejections(path string, triggers []int) tea.Cmd {
	return func() tea.Msg {
		accept, tags, err := rejection.ReadForDisplay(path, triggers)
		if err != nil {
			return reloadCompleteMsg{err: err}
		}

		return reloadCompleteMsg{accept: accept, tags: tags}
	}
}

// Update handles messages and updates the model
func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title + header row + separator
		footerHeight := 2 // Status + help
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.renderContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}

		return m, nil

	case fileChangeMsg:
		return m, tea.Batch(
			reloadRejections(m.rejPath, m.trials.Triggers),
			waitForFileChange(m.fileWatcher), // Continue watching
		)

	case reloadCompleteMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Error reloading: %v", msg.err)
		} else {
			m.accept = msg.accept
			m.tags = msg.tags
			m.lastReload = time.Now()
			m.errorMsg = ""
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, viewKeys.Top):
			m.viewport.GotoTop()

		case key.Matches(msg, viewKeys.Bottom):
			m.viewport.GotoBottom()

		case key.Matches(msg, viewKeys.Reload):
			return m, reloadRejections(m.rejPath, m.trials.Triggers)
		}
	}

	// Up/Down/PageUp/PageDown fall through to the viewport
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the view
func (m viewModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := viewTitleStyle.Render(fmt.Sprintf("Rejection Viewer: %s", m.rejPath))

	header := viewHeaderStyle.Render(fmt.Sprintf("%-5s %-8s %-6s %-20s",
		"#", "Trigger", "State", "Tag"))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		title, header, m.viewport.View(), m.renderStatus(), m.renderHelp())
}

// renderContent renders all trials for the viewport
func (m viewModel) renderContent() string {
	var content string

	for i := range m.accept {
		state := "ok"
		if !m.accept[i] {
			state = "REJECT"
		}

		line := fmt.Sprintf("%-5d %-8d %-6s %-20s",
			i,
			m.trials.Triggers[i],
			state,
			m.tags[i],
		)

		if !m.accept[i] {
			line = viewRejectStyle.Render(line)
		}

		if i < len(m.accept)-1 {
			content += line + "\n"
		} else {
			content += line // No trailing newline on last trial
		}
	}

	return content
}

// renderStatus renders the status bar
func (m viewModel) renderStatus() string {
	rejected := 0
	for _, ok := range m.accept {
		if !ok {
			rejected++
		}
	}

	reloadTime := m.lastReload.Format("15:04:05")

	var statusText string
	if m.errorMsg != "" {
		statusText = fmt.Sprintf("%d trials | %d rejected | %s",
			len(m.accept),
			rejected,
			viewErrorStyle.Render(m.errorMsg),
		)
	} else {
		statusText = fmt.Sprintf("%d trials | %d rejected | Last reload: %s",
			len(m.accept),
			rejected,
			reloadTime,
		)
	}

	return viewStatusStyle.Width(m.width).Render(statusText)
}

// renderHelp renders the help text
func (m viewModel) renderHelp() string {
	return viewHelpStyle.Render("↑/↓: scroll | g/G: top/bottom | r: reload | q: quit")
}
