// ABOUTME: Bubble Tea update loop for the workbench
// ABOUTME: Key handling, prompts, and session command dispatch

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"epoch-select/config"
	"epoch-select/rejection"
)

// Update handles messages and updates the model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case tea.KeyMsg:
		if m.promptKind != promptNone {
			return m.updatePrompt(msg)
		}

		return m.updateKeys(msg)
	}

	return m, nil
}

// updateKeys handles key presses outside of prompts
func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := m.sess.Doc().Len()

	// Any key other than quit cancels a pending quit warning
	if !key.Matches(msg, keys.Quit) {
		m.quitWarned = false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if !m.sess.IsSaved() && !m.quitWarned {
			m.quitWarned = true
			m.setStatusMsg(unsavedWarning)

			return m, nil
		}

		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.cursorPos = clampIndex(m.cursorPos-1, total)
		m.page = pageOf(m.cursorPos, m.pageSize)

	case key.Matches(msg, keys.Down):
		m.cursorPos = clampIndex(m.cursorPos+1, total)
		m.page = pageOf(m.cursorPos, m.pageSize)

	case key.Matches(msg, keys.Top):
		m.cursorPos = 0
		m.page = 0

	case key.Matches(msg, keys.Bottom):
		m.cursorPos = clampIndex(total-1, total)
		m.page = pageOf(m.cursorPos, m.pageSize)

	case key.Matches(msg, keys.PrevPage):
		if m.page > 0 {
			m.page--
			m.cursorPos, _ = pageBounds(m.page, m.pageSize, total)
		}

	case key.Matches(msg, keys.NextPage):
		if m.page < pageCount(total, m.pageSize)-1 {
			m.page++
			m.cursorPos, _ = pageBounds(m.page, m.pageSize, total)
		}

	case key.Matches(msg, keys.Toggle):
		if err := m.sess.ToggleAccept(m.cursorPos, manualTag); err != nil {
			m.setStatusMsg(fmt.Sprintf("Toggle failed: %v", err))
		} else {
			m.drainEvents("Toggled")
		}

	case key.Matches(msg, keys.Threshold):
		m.promptKind = promptThreshold
		m.input.Prompt = "threshold (method value): "
		m.input.SetValue(fmt.Sprintf("%s %g", m.cfg.Method, m.cfg.Threshold))
		m.input.CursorEnd()
		m.input.Focus()

	case key.Matches(msg, keys.GotoPage):
		m.promptKind = promptPage
		m.input.Prompt = fmt.Sprintf("page (1-%d): ", pageCount(total, m.pageSize))
		m.input.SetValue("")
		m.input.Focus()

	case key.Matches(msg, keys.Clear):
		n := m.sess.Clear()
		m.events.reset()
		if n == 0 {
			m.setStatusMsg("Nothing to clear")
		} else {
			m.setStatusMsg(fmt.Sprintf("Cleared %d rejection(s)", n))
		}

	case key.Matches(msg, keys.Undo):
		if m.sess.Undo() {
			m.drainEvents("Undo")
		} else {
			m.setStatusMsg("Nothing to undo")
		}

	case key.Matches(msg, keys.Redo):
		if m.sess.Redo() {
			m.drainEvents("Redo")
		} else {
			m.setStatusMsg("Nothing to redo")
		}

	case key.Matches(msg, keys.Save):
		if m.sess.Doc().Path() == "" {
			m.promptKind = promptSaveAs
			m.input.Prompt = "save as: "
			m.input.SetValue("")
			m.input.Focus()

			break
		}

		if err := m.sess.Save(); err != nil {
			m.setStatusMsg(fmt.Sprintf("Save failed: %v", err))
		} else {
			m.setStatusMsg(fmt.Sprintf("Saved to %s", m.sess.Doc().Path()))
		}
		m.events.reset()

	case key.Matches(msg, keys.SaveAs):
		m.promptKind = promptSaveAs
		m.input.Prompt = "save as: "
		m.input.SetValue(m.sess.Doc().Path())
		m.input.CursorEnd()
		m.input.Focus()

	case key.Matches(msg, keys.Load):
		m.promptKind = promptLoad
		m.input.Prompt = "load file: "
		m.input.SetValue("")
		m.input.Focus()

	case key.Matches(msg, keys.Average):
		m.showGrandAverage()
	}

	return m, nil
}

// updatePrompt handles key presses while a text prompt is active
func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.promptKind = promptNone
		m.input.Blur()

		return m, nil

	case tea.KeyEnter:
		kind := m.promptKind
		value := strings.TrimSpace(m.input.Value())
		m.promptKind = promptNone
		m.input.Blur()

		switch kind {
		case promptThreshold:
			m.runThreshold(value)
		case promptSaveAs:
			m.runSaveAs(value)
		case promptLoad:
			m.runLoad(value)
		case promptPage:
			m.runGotoPage(value)
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// parseThresholdInput parses the "<method> <value>" prompt syntax.
func parseThresholdInput(value string) (rejection.Method, float64, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("expected: <method> <threshold>, e.g. absolute 2e-12")
	}

	method, err := rejection.ParseMethod(fields[0])
	if err != nil {
		return "", 0, err
	}

	threshold, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad threshold value %q", fields[1])
	}

	return method, threshold, nil
}

// runThreshold parses the prompt input and applies the rejection. The
// above/below policy comes from the config defaults.
func (m *model) runThreshold(value string) {
	method, threshold, err := parseThresholdInput(value)
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Threshold failed: %v", err))

		return
	}

	above := m.cfg.MarkAbove
	below := m.cfg.MarkBelow

	n, err := m.sess.AutoReject(rejection.ThresholdConfig{
		Threshold: threshold,
		Method:    method,
		Above:     &above,
		Below:     &below,
	})
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Threshold failed: %v", err))

		return
	}

	m.events.reset()
	if n == 0 {
		m.setStatusMsg("Threshold changed no trials")
	} else {
		m.setStatusMsg(fmt.Sprintf("Threshold marked %d trial(s)", n))
	}

	// Remember the last-used criterion for the next prompt and across
	// sessions
	m.cfg.Method = string(method)
	m.cfg.Threshold = threshold

	if m.configPath != "" {
		if err := config.SaveConfig(m.configPath, m.cfg); err != nil {
			m.debugf("[TUI] Failed to persist threshold settings: %v", err)
		}
	}
}

// runGotoPage jumps to a 1-based page number from the prompt
func (m *model) runGotoPage(value string) {
	total := m.sess.Doc().Len()
	pages := pageCount(total, m.pageSize)

	page, err := strconv.Atoi(value)
	if err != nil || page < 1 || page > pages {
		m.setStatusMsg(fmt.Sprintf("Bad page %q (want 1-%d)", value, pages))

		return
	}

	m.page = page - 1
	m.cursorPos, _ = pageBounds(m.page, m.pageSize, total)
}

// runSaveAs saves the session to a new destination
func (m *model) runSaveAs(path string) {
	if path == "" {
		m.setStatusMsg("Save cancelled: empty path")

		return
	}

	if err := m.sess.SaveAs(path); err != nil {
		m.setStatusMsg(fmt.Sprintf("Save failed: %v", err))

		return
	}

	m.events.reset()
	m.setStatusMsg(fmt.Sprintf("Saved to %s", m.sess.Doc().Path()))
}

// runLoad replaces the session state from a rejection file
func (m *model) runLoad(path string) {
	if path == "" {
		m.setStatusMsg("Load cancelled: empty path")

		return
	}

	if err := m.sess.Load(path); err != nil {
		m.setStatusMsg(fmt.Sprintf("Load failed: %v", err))

		return
	}

	m.events.reset()
	m.setStatusMsg(fmt.Sprintf("Loaded %s", m.sess.Doc().Path()))
}

// showGrandAverage summarizes the mean over accepted trials in the
// status bar.
func (m *model) showGrandAverage() {
	avg, err := m.sess.Doc().GrandAverage()
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Grand average failed: %v", err))

		return
	}

	var peak float64
	for _, channel := range avg {
		for _, v := range channel {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
	}

	accepted := 0
	for _, ok := range m.sess.Doc().Accept() {
		if ok {
			accepted++
		}
	}

	m.setStatusMsg(fmt.Sprintf("Grand average over %d trial(s), peak |amplitude| %g", accepted, peak))
}
