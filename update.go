package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cdr.dev/slog"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.surface.Flush() || m.frame == nil {
		m.frame = renderScene(m.surface, m.viewport)
	}
	return m, cmd
}

func (m model) update(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.ensureCursorInBounds()
		return m, nil

	case referenceMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.reference = msg.ref
		m.successMessage = fmt.Sprintf("Reference %s loaded, f to detect perspective", msg.ref.Path)
		return m, nil

	case perspectiveMsg:
		m.detecting = false
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.errorMessage = "perspective: " + msg.err.Error()
			}
			return m, nil
		}
		if !m.session.ApplyPerspective(msg.token, msg.angle) {
			return m, nil
		}
		if m.session.PendingPerspective() {
			m.successMessage = fmt.Sprintf("Perspective %.1f° applies to the next shape", msg.angle)
		} else {
			m.successMessage = fmt.Sprintf("Perspective %.1f° applied", msg.angle)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m.quit()
		}
		if m.help {
			return m.handleHelpKey(key)
		}
		switch m.mode {
		case ModeMove:
			return m.handleMoveKey(key)
		case ModePropertyInput:
			return m.handlePropertyKey(msg)
		case ModeFileInput:
			return m.handleFileKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(key)
		}
		return m.handleNormalKey(key)
	}
	return m, nil
}

func (m model) quit() (model, tea.Cmd) {
	if m.detectStop != nil {
		m.detectStop()
	}
	m.cancel()
	return m, tea.Quit
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	if msg.X < 0 || msg.Y < 0 || msg.X >= m.viewport.Cols || msg.Y >= m.viewport.Rows {
		return m, nil
	}
	m.cursorX, m.cursorY = msg.X, msg.Y
	p := m.cursorWorld()

	switch msg.Type {
	case tea.MouseLeft:
		if msg.Shift && m.session.State() == StateIdle {
			m.session.SelectAt(p, true)
			return m, nil
		}
		m.mouseDown = true
		m.session.PointerDown(p.X, p.Y)
	case tea.MouseMotion:
		m.session.PointerMove(p.X, p.Y)
	case tea.MouseRelease:
		if !m.mouseDown {
			return m, nil
		}
		m.mouseDown = false
		m.session.PointerUp(p.X, p.Y)
		now := time.Now()
		at := point{msg.X, msg.Y}
		if at == m.lastClickAt && now.Sub(m.lastClick) <= doubleClickWindow {
			m.session.DoubleClick()
			m.lastClick = time.Time{}
		} else {
			m.lastClick, m.lastClickAt = now, at
		}
	}
	return m, nil
}

// pointerPress drives the session from the keyboard. Shapes that are
// dragged out stay pressed until the next press.
func (m *model) pointerPress() {
	p := m.cursorWorld()
	if m.pointerHeld {
		m.pointerHeld = false
		m.session.PointerUp(p.X, p.Y)
		return
	}
	m.session.PointerDown(p.X, p.Y)
	cur := m.session.Current()
	if (cur != nil && !cur.kind.isMultiPoint()) || m.session.drag != nil {
		m.pointerHeld = true
		return
	}
	m.session.PointerUp(p.X, p.Y)
}

func (m model) handleHelpKey(key string) (model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handleNormalKey(key string) (model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if k, ok := toolForKey(key); ok && m.session.State() != StateDrawing {
		m.pointerHeld = false
		m.session.SelectTool(k)
		return m, nil
	}
	if isNavigationKey(key) {
		m.handleNavigation(key, m.getMoveSpeed(key))
		return m, nil
	}

	switch key {
	case "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m.quit()
	case "?":
		m.help = true
	case "z":
		m.zPanMode = !m.zPanMode
	case " ":
		m.pointerPress()
	case "enter":
		if m.session.State() == StateDrawing {
			m.pointerHeld = false
			m.session.Finish()
		} else {
			m.session.DoubleClick()
		}
	case "esc":
		m.pointerHeld = false
		if m.session.State() == StateDrawing && m.session.Current().kind.isMultiPoint() {
			m.session.Finish()
			return m, nil
		}
		m.session.SelectTool(NoTool)
	case "tab":
		m.session.CycleSelection()
	case "g":
		if !m.session.Group() {
			m.errorMessage = "select at least two ungrouped shapes to group"
		}
	case "G":
		if !m.session.Ungroup() {
			m.errorMessage = "select a group to ungroup"
		}
	case "d", "delete", "backspace":
		if len(m.session.Selection().IDs()) == 0 {
			return m, nil
		}
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDelete
			return m, nil
		}
		m.session.Delete()
	case "D":
		m.session.Clone()
	case "m":
		if len(m.session.Selection().IDs()) > 0 {
			m.mode = ModeMove
			m.moveDX, m.moveDY = 0, 0
		}
	case "e", ":":
		if _, ok := m.session.Selection().Single(); !ok {
			m.errorMessage = "select one shape to edit its properties"
			return m, nil
		}
		m.mode = ModePropertyInput
		m.input = ""
	case "[", "]":
		sh, ok := m.session.Selection().Single()
		if !ok {
			return m, nil
		}
		if key == "[" {
			m.session.ApplyPropertyChanges(Patch{Fill: S(nextPaletteColor(sh.style.Fill))})
		} else {
			m.session.ApplyPropertyChanges(Patch{Stroke: S(nextPaletteColor(sh.style.Stroke))})
		}
	case "v", "V", "b":
		if !m.editPolygon(key) {
			m.errorMessage = "select a polygon or polyline to edit its vertices"
		}
	case "u":
		if !m.session.Undo() {
			m.successMessage = "Nothing to undo"
		}
	case "U":
		if !m.session.Redo() {
			m.successMessage = "Nothing to redo"
		}
	case "c":
		n, err := m.session.CopySelection()
		switch {
		case err != nil:
			m.errorMessage = err.Error()
		case n > 0:
			m.successMessage = fmt.Sprintf("Copied %d shape(s)", n)
		}
	case "p":
		n, err := m.session.Paste(m.cursorWorld())
		if err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = fmt.Sprintf("Pasted %d shape(s)", n)
		}
	case "s":
		return m.startFileInput(FileOpSave)
	case "o":
		return m.startFileInput(FileOpOpen)
	case "S":
		return m.startFileInput(FileOpSavePNG)
	case "X":
		return m.startFileInput(FileOpSaveVisualTXT)
	case "i":
		return m.startFileInput(FileOpReference)
	case "f":
		return m.detectPerspective()
	case "n":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmNewDrawing
			return m, nil
		}
		m.newDrawing()
	}
	return m, nil
}

// editPolygon applies a vertex edit at the cursor: v moves the nearest
// vertex, V splits the nearest edge and b pulls the nearest edge.
func (m *model) editPolygon(key string) bool {
	p := m.cursorWorld()
	switch key {
	case "v":
		return m.session.DragVertex(p, p)
	case "V":
		return m.session.SplitEdge(p)
	}
	_, g, ok := m.session.selectedPoly()
	if !ok {
		return false
	}
	mids := g.EdgeMidpoints()
	i := nearest(mids, p)
	if i < 0 {
		return false
	}
	return m.session.DragEdge(p, p.X-mids[i].X, p.Y-mids[i].Y)
}

func (m *model) newDrawing() {
	m.pointerHeld = false
	m.session.Reset()
	m.filename = ""
}

func (m model) detectPerspective() (model, tea.Cmd) {
	if m.reference == nil {
		m.errorMessage = "import a reference image first (i)"
		return m, nil
	}
	if m.detectStop != nil {
		m.detectStop()
	}
	tok := m.session.RequestPerspective()
	ctx, stop := context.WithCancel(m.ctx)
	m.detectStop = stop
	m.detecting = true
	m.successMessage = "Detecting perspective..."
	return m, detectPerspectiveCmd(ctx, tok, m.reference.Image)
}

func (m model) handleMoveKey(key string) (model, tea.Cmd) {
	switch key {
	case "enter":
		if m.moveDX != 0 || m.moveDY != 0 {
			m.session.pushState()
		}
		m.mode = ModeNormal
	case "esc":
		if m.moveDX != 0 || m.moveDY != 0 {
			m.session.translateSelection(-m.moveDX, -m.moveDY)
		}
		m.mode = ModeNormal
	default:
		dx, dy := keyDelta(key, m.getMoveSpeed(key))
		if dx == 0 && dy == 0 {
			return m, nil
		}
		wx, wy := float64(dx)*m.viewport.CellW, float64(dy)*m.viewport.CellH
		m.session.translateSelection(wx, wy)
		m.moveDX += wx
		m.moveDY += wy
	}
	return m, nil
}

func (m model) handlePropertyKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input = ""
	case tea.KeyEnter:
		patch, err := ParseAssignment(m.input)
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.session.ApplyPropertyChanges(patch)
		m.mode = ModeNormal
		m.input = ""
		m.errorMessage = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m model) startFileInput(op FileOperation) (model, tea.Cmd) {
	if (op == FileOpSave || op == FileOpOpen) && m.store == nil {
		m.errorMessage = "drawing store is unavailable"
		return m, nil
	}
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.drawingList = nil
	m.selectedFile = -1
	if op == FileOpReference {
		m.filename = ""
	}
	if op == FileOpOpen || op == FileOpSave {
		list, err := m.store.List(m.ctx)
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.drawingList = list
		if op == FileOpOpen && len(list) > 0 {
			m.selectedFile = 0
			m.filename = list[0].Name
		}
	}
	return m, nil
}

func (m model) handleFileKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
		return m, nil
	case tea.KeyEnter:
		return m.runFileOp(false)
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeyUp, tea.KeyDown:
		if m.fileOp != FileOpOpen || len(m.drawingList) == 0 {
			return m, nil
		}
		if msg.Type == tea.KeyUp && m.selectedFile > 0 {
			m.selectedFile--
		}
		if msg.Type == tea.KeyDown && m.selectedFile < len(m.drawingList)-1 {
			m.selectedFile++
		}
		m.filename = m.drawingList[m.selectedFile].Name
	case tea.KeyCtrlX:
		if m.fileOp == FileOpOpen && m.filename != "" {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteDrawing
		}
	case tea.KeySpace:
		m.filename += " "
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m model) drawingExists(name string) bool {
	for _, d := range m.drawingList {
		if d.Name == name {
			return true
		}
	}
	return false
}

// runFileOp performs the pending file operation on m.filename.
func (m model) runFileOp(confirmed bool) (model, tea.Cmd) {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "filename cannot be empty"
		return m, nil
	}
	var err error
	switch m.fileOp {
	case FileOpSave:
		if !confirmed && m.config.Confirmations && m.drawingExists(name) {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwrite
			return m, nil
		}
		if err = m.store.Save(m.ctx, name, m.session.Snapshot()); err == nil {
			m.successMessage = fmt.Sprintf("Saved %s", name)
		}
	case FileOpOpen:
		var snap SceneSnapshot
		if snap, err = m.store.Load(m.ctx, name); err == nil {
			m.pointerHeld = false
			m.session.LoadScene(snap)
			m.successMessage = fmt.Sprintf("Opened %s", name)
		}
	case FileOpSavePNG:
		path := m.config.GetSavePath(ensureExt(name, ".png"))
		if err = ExportPNG(m.surface, path, defaultCanvasWidth, defaultCanvasHeight, defaultBackground); err == nil {
			m.successMessage = fmt.Sprintf("Exported %s", path)
		}
	case FileOpSaveVisualTXT:
		path := m.config.GetSavePath(ensureExt(name, ".txt"))
		if err = ExportTXT(renderScene(m.surface, m.viewport).Lines(), path); err == nil {
			m.successMessage = fmt.Sprintf("Exported %s", path)
		}
	case FileOpReference:
		home, _ := os.UserHomeDir()
		m.mode = ModeNormal
		return m, importReferenceCmd(expandPath(name, home))
	}
	if err != nil {
		logWarn(m.ctx, "file operation failed", slog.F("name", name), slog.Error(err))
		m.mode = ModeFileInput
		m.errorMessage = err.Error()
		return m, nil
	}
	m.filename = name
	m.mode = ModeNormal
	return m, nil
}

func ensureExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func (m model) handleConfirmKey(key string) (model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDelete:
			m.session.Delete()
		case ConfirmQuit:
			return m.quit()
		case ConfirmNewDrawing:
			m.newDrawing()
		case ConfirmOverwrite:
			return m.runFileOp(true)
		case ConfirmDeleteDrawing:
			if err := m.store.Delete(m.ctx, m.filename); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = fmt.Sprintf("Deleted %s", m.filename)
			}
			m.filename = ""
		}
	case "n", "N", "esc":
		switch m.confirmAction {
		case ConfirmOverwrite, ConfirmDeleteDrawing:
			m.mode = ModeFileInput
		default:
			m.mode = ModeNormal
		}
	}
	return m, nil
}
