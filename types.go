package main

import (
	"context"
	"time"
)

type model struct {
	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	cursorX  int
	cursorY  int
	zPanMode bool
	viewport Viewport

	session *EditingSession
	surface *MemorySurface
	store   *Store
	config  *Config
	frame   *grid

	mode          Mode
	help          bool
	helpScroll    int
	fileOp        FileOperation
	confirmAction ConfirmAction
	filename      string
	drawingList   []DrawingInfo
	selectedFile  int
	input         string

	// pointerHeld is set while the keyboard pointer is pressed.
	pointerHeld bool
	lastClick   time.Time
	lastClickAt point
	mouseDown   bool

	moveDX, moveDY float64

	reference  *ReferenceImage
	detecting  bool
	detectStop context.CancelFunc

	errorMessage   string
	successMessage string
}

type point struct {
	X, Y int
}
