package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModePropertyInput
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpReference
)

type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmQuit
	ConfirmNewDrawing
	ConfirmOverwrite
	ConfirmDeleteDrawing
)

const (
	doubleClickWindow = 400 * time.Millisecond
	statusHeight      = 1
	panelWidth        = 30
)

// toolKeys arms a drawing tool from normal mode, in toolbar order.
var toolKeys = []struct {
	key  string
	kind Kind
}{
	{"1", KindRectangle},
	{"2", KindCircle},
	{"3", KindEllipse},
	{"4", KindTriangle},
	{"5", KindLine},
	{"6", KindText},
	{"7", KindCurvedLine},
	{"8", KindPolygon},
	{"9", KindPolyline},
	{"0", KindConnectedCircles},
	{"!", KindClosedConnectedCircles},
	{"@", KindClosedConnectedEllipses},
	{"#", KindAngleIndicator},
}

func toolForKey(key string) (Kind, bool) {
	for _, t := range toolKeys {
		if t.key == key {
			return t.kind, true
		}
	}
	return NoTool, false
}
