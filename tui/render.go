// ABOUTME: Rendering for the workbench trial table
// ABOUTME: Title, paged table, status bar, prompt line, and help text

package tui

import (
	"fmt"
	"strings"
	"time"
)

// View renders the workbench
func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := m.renderTitle()
	header := headerStyle.Render(fmt.Sprintf("%-5s %-8s %-5s %-16s %-12s %-12s",
		"#", "Trigger", "State", "Tag", "MaxAbs", "P2P"))
	table := m.renderTable()
	status := m.renderStatus()
	footer := m.renderFooter()

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", title, header, table, status, footer)
}

// renderTitle renders the title line with a dirty marker
func (m model) renderTitle() string {
	path := m.sess.Doc().Path()
	if path == "" {
		path = "(no file)"
	}

	marker := ""
	if !m.sess.IsSaved() {
		marker = " *"
	}

	return titleStyle.Render(fmt.Sprintf("Epoch Rejection: %s%s", path, marker))
}

// renderTable renders the current page of the trial table
func (m model) renderTable() string {
	doc := m.sess.Doc()
	total := doc.Len()
	start, end := pageBounds(m.page, m.pageSize, total)
	triggers := doc.Triggers()

	var b strings.Builder
	for i := start; i < end; i++ {
		state := acceptStyle.Render("OK ")
		if !doc.AcceptAt(i) {
			state = rejectStyle.Render("REJ")
		}

		var maxAbs, p2p string
		if i < len(m.stats) {
			maxAbs = fmt.Sprintf("%.4g", m.stats[i].MaxAbs)
			p2p = fmt.Sprintf("%.4g", m.stats[i].PeakToPeak)
		}

		line := fmt.Sprintf("%-5d %-8d %-5s %-16s %-12s %-12s",
			i,
			triggers[i],
			state,
			truncate(doc.TagAt(i), 16),
			maxAbs,
			p2p,
		)

		if i == m.cursorPos {
			line = cursorStyle.Render(line)
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	// Pad short pages so the status bar does not jump around
	for i := end - start; i < m.pageSize; i++ {
		b.WriteString("\n")
	}

	return b.String()
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	doc := m.sess.Doc()

	rejected := 0
	for i := 0; i < doc.Len(); i++ {
		if !doc.AcceptAt(i) {
			rejected++
		}
	}

	parts := []string{
		fmt.Sprintf("%d trials", doc.Len()),
		fmt.Sprintf("%d rejected", rejected),
		fmt.Sprintf("page %d/%d", m.page+1, pageCount(doc.Len(), m.pageSize)),
	}

	if m.sess.CanUndo() || m.sess.CanRedo() {
		parts = append(parts, fmt.Sprintf("undo:%v redo:%v", m.sess.CanUndo(), m.sess.CanRedo()))
	}

	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		msg := m.statusMsg
		if strings.Contains(msg, "failed") || msg == unsavedWarning {
			msg = errorStyle.Render(msg)
		}
		parts = append(parts, msg)
	}

	return statusStyle.Width(m.width).Render(strings.Join(parts, " | "))
}

// renderFooter renders the prompt line when active, otherwise help text
func (m model) renderFooter() string {
	if m.promptKind != promptNone {
		return promptStyle.Render(m.input.View())
	}

	return helpStyle.Render("space: toggle | t: threshold | c: clear | u/ctrl+r: undo/redo | w: save | S: save as | o: load | a: average | [/]: page | p: go to page | q: quit")
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
