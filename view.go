package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0f0f0")).Background(lipgloss.Color("#3c3c3c"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	activeTool   = lipgloss.NewStyle().Reverse(true).Bold(true)
	panelStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			PaddingLeft(1).
			Width(panelWidth - 1)
	canvasStyle = lipgloss.NewStyle().Background(lipgloss.Color(defaultBackground))
)

var helpLines = []string{
	"sketchpad help",
	"==============",
	"",
	"Navigation:",
	"  h/←/j/↓/k/↑/l/→  Move the pointer",
	"  Shift+h/j/k/l    Move 2x faster",
	"  z                Toggle pan mode",
	"",
	"Tools (toolbar order):",
	"  1-9, 0, !, @, #  Arm a drawing tool",
	"  Space            Press/release the pointer at the cursor",
	"  Mouse            Click and drag to draw, select and move",
	"  Enter            Finish a polygon, polyline or chain",
	"  Esc              Finish a chain in progress, or disarm",
	"",
	"Selection:",
	"  Tab              Select the next shape",
	"  Shift+click      Add to or remove from the selection",
	"  Enter / dblclick Select the first member of a group",
	"  m                Move the selection with hjkl, Enter to keep",
	"  e or :           Edit a property: name=value",
	"  [ / ]            Cycle fill / stroke color",
	"  v / V / b        Move vertex / split edge / pull edge to the cursor",
	"  g / G            Group / ungroup",
	"  d                Delete",
	"  D                Duplicate",
	"  c / p            Copy / paste through the clipboard",
	"",
	"Reference image:",
	"  i                Import a reference image",
	"  f                Detect perspective for the next shape",
	"",
	"Files:",
	"  s / o            Save / open a drawing",
	"  Ctrl+X           Delete the highlighted drawing (open list)",
	"  S / X            Export PNG / text",
	"  n                New drawing",
	"",
	"General:",
	"  u / U            Undo / redo",
	"  ?                Toggle this help",
	"  q / Ctrl+C       Quit",
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var body string
	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		body = m.fileListView()
	} else {
		body = m.canvasView()
	}
	if m.width > panelWidth*2 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panelView())
	}
	return body + "\n" + m.statusView()
}

func (m model) canvasView() string {
	if m.frame == nil {
		return ""
	}
	rows := make([]string, len(m.frame.cells))
	for y, row := range m.frame.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && sameStyle(row[x], row[start]) && !m.isCursor(x, y) && !m.isCursor(start, y) {
				continue
			}
			b.WriteString(m.renderRun(row[start:x], start, y))
			start = x
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func sameStyle(a, b cell) bool {
	return a.color == b.color && a.selected == b.selected
}

func (m model) isCursor(x, y int) bool {
	return m.mode != ModeFileInput && x == m.cursorX && y == m.cursorY
}

func (m model) renderRun(run []cell, x, y int) string {
	rs := make([]rune, len(run))
	for i, c := range run {
		rs[i] = c.r
	}
	if len(run) == 1 && m.isCursor(x, y) {
		return canvasStyle.Foreground(lipgloss.Color("#000000")).Render("█")
	}
	style := canvasStyle
	c := run[0]
	if c.color != "" {
		fg := c.color
		if c.selected {
			if d, err := darken(fg); err == nil {
				fg = d
			}
			style = style.Bold(true)
		}
		style = style.Foreground(lipgloss.Color(fg))
	}
	return style.Render(string(rs))
}

func (m model) fileListView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Open a saved drawing"))
	b.WriteString("\n")
	if len(m.drawingList) == 0 {
		b.WriteString("(no saved drawings)\n")
	}
	limit := max(m.viewport.Rows-2, 1)
	start := 0
	if m.selectedFile >= limit {
		start = m.selectedFile - limit + 1
	}
	for i := start; i < len(m.drawingList) && i < start+limit; i++ {
		d := m.drawingList[i]
		line := fmt.Sprintf("%-24s %3d shapes  %s", d.Name, d.Shapes, d.UpdatedAt.Format("2006-01-02 15:04"))
		if i == m.selectedFile {
			b.WriteString(activeTool.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(m.viewport.Cols).Height(m.viewport.Rows).Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) panelView() string {
	var b strings.Builder
	s := m.session

	b.WriteString(titleStyle.Render("Tools"))
	b.WriteString("\n")
	for _, t := range toolKeys {
		line := fmt.Sprintf("%s %s", t.key, t.kind)
		if s.Tool() == t.kind {
			b.WriteString(activeTool.Render(line))
		} else {
			b.WriteString(toolStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Selection"))
	b.WriteString("\n")
	sel := s.Selection()
	b.WriteString(fmt.Sprintf("%s %s (%d)\n", labelStyle.Render("mode"), sel.Mode(), len(sel.IDs())))
	if sh, ok := sel.Single(); ok {
		for _, p := range sh.Properties() {
			value := p.Value
			if room := panelWidth - len(p.Name) - 4; room > 0 && len(value) > room {
				value = value[:room-1] + "…"
			}
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(p.Name), value))
		}
	} else if g, ok := sel.Group(); ok {
		b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("members"), len(g.Members())))
	}
	if r, ok := sel.Bounds(); ok {
		b.WriteString(fmt.Sprintf("%s %s %sx%s\n", labelStyle.Render("bounds"),
			fmtPoint(Point{r.Left, r.Top}), fmtNum(r.Width), fmtNum(r.Height)))
	}

	b.WriteString("\n")
	h := s.History()
	b.WriteString(fmt.Sprintf("%s %d/%d\n", labelStyle.Render("history"), h.Index()+1, h.Len()))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("repaints"), m.surface.Frames()))
	if m.reference != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("reference"), m.reference.Path))
	}
	if m.detecting {
		b.WriteString("detecting perspective…\n")
	} else if s.PendingPerspective() {
		b.WriteString("perspective pending\n")
	}
	return panelStyle.Height(m.viewport.Rows).Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) statusView() string {
	var status string
	switch m.mode {
	case ModeMove:
		status = "Mode: MOVE | hjkl/arrows=move, Enter=finish, Esc=cancel"
	case ModePropertyInput:
		status = fmt.Sprintf("Mode: EDIT | %s█ | name=value, Enter=apply, Esc=cancel", m.input)
	case ModeFileInput:
		op := map[FileOperation]string{
			FileOpSave:          "Save",
			FileOpOpen:          "Open",
			FileOpSavePNG:       "Export PNG",
			FileOpSaveVisualTXT: "Export text",
			FileOpReference:     "Reference image",
		}[m.fileOp]
		status = fmt.Sprintf("Mode: FILE | %s: %s█ | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		status = "Mode: CONFIRM | " + m.confirmMessage()
	default:
		modeStr := m.modeString()
		if m.zPanMode {
			modeStr = "PAN"
		}
		p := m.cursorWorld()
		status = fmt.Sprintf("Mode: %s | Tool: %s | Cursor: (%d,%d) %s", modeStr, m.session.Tool(), m.cursorX, m.cursorY, fmtPoint(p))
	}
	line := statusStyle.Render(status)
	switch {
	case m.errorMessage != "":
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		line += " " + successStyle.Render(m.successMessage)
	case m.mode == ModeNormal:
		line += " " + labelStyle.Render("? for help | q to quit")
	}
	return line
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDelete:
		return "Delete the selection? (y/n)"
	case ConfirmQuit:
		return "Quit sketchpad? (y/n)"
	case ConfirmNewDrawing:
		return "Start a new drawing? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwrite:
		return fmt.Sprintf("Drawing %s already exists. Overwrite? (y/n)", m.filename)
	case ConfirmDeleteDrawing:
		return fmt.Sprintf("Delete saved drawing %s? (y/n)", m.filename)
	}
	return ""
}

func (m model) modeString() string {
	switch m.session.State() {
	case StateToolArmed:
		return "ARMED"
	case StateDrawing:
		return "DRAW"
	}
	return "NORMAL"
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	return strings.Join(helpLines[start:end], "\n")
}
