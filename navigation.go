package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

// handlePan scrolls the viewport by whole cells.
func (m *model) handlePan(key string, speed int) tea.Model {
	dx, dy := keyDelta(key, speed)
	m.viewport.PanX -= float64(dx) * m.viewport.CellW
	m.viewport.PanY -= float64(dy) * m.viewport.CellH
	m.surface.RequestRender()
	return m
}

// handleCursorMove moves the keyboard pointer. A held pointer or a shape
// in progress follows it.
func (m *model) handleCursorMove(key string, speed int) tea.Model {
	dx, dy := keyDelta(key, speed)
	m.cursorX += dx
	m.cursorY += dy
	m.ensureCursorInBounds()
	if m.pointerHeld || m.session.State() == StateDrawing {
		p := m.cursorWorld()
		m.session.PointerMove(p.X, p.Y)
	}
	return m
}

func keyDelta(key string, speed int) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -speed, 0
	case "l", "right", "L", "shift+right":
		return speed, 0
	case "k", "up", "K", "shift+up":
		return 0, -speed
	case "j", "down", "J", "shift+down":
		return 0, speed
	}
	return 0, 0
}

func isNavigationKey(key string) bool {
	dx, dy := keyDelta(key, 1)
	return dx != 0 || dy != 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.viewport.Cols > 0 && m.cursorX >= m.viewport.Cols {
		m.cursorX = m.viewport.Cols - 1
	}
	if m.viewport.Rows > 0 && m.cursorY >= m.viewport.Rows {
		m.cursorY = m.viewport.Rows - 1
	}
}

func (m *model) cursorWorld() Point {
	return m.viewport.toWorld(m.cursorX, m.cursorY)
}

// resizeViewport splits the window between canvas and properties panel.
func (m *model) resizeViewport() {
	cols := m.width
	if cols > panelWidth*2 {
		cols -= panelWidth
	}
	rows := m.height - statusHeight
	if rows < 1 {
		rows = 1
	}
	m.viewport.Cols = max(cols, 1)
	m.viewport.Rows = rows
	m.surface.RequestRender()
}
