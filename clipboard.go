package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"cdr.dev/slog"
	"github.com/atotto/clipboard"
)

const clipboardKind = "sketchpad/shapes"

var (
	errEmptyClipboard = errors.New("clipboard is empty")

	clipboardWrite = clipboard.WriteAll
	clipboardRead  = readClipboardText
)

type clipboardPayload struct {
	Kind   string        `json:"kind"`
	Shapes []ShapeRecord `json:"shapes"`
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// CopySelection puts the selected shapes on the system clipboard as JSON.
func (s *EditingSession) CopySelection() (int, error) {
	recs := s.SelectedRecords()
	if len(recs) == 0 {
		return 0, nil
	}
	data, err := json.Marshal(clipboardPayload{Kind: clipboardKind, Shapes: recs})
	if err != nil {
		return 0, fmt.Errorf("encode clipboard: %w", err)
	}
	if err := clipboardWrite(string(data)); err != nil {
		return 0, fmt.Errorf("write clipboard: %w", err)
	}
	return len(recs), nil
}

// Paste inserts shapes copied from a sketchpad, offset so they do not hide
// the originals. Any other text becomes a text shape at at.
func (s *EditingSession) Paste(at Point) (int, error) {
	text, err := clipboardRead()
	if err != nil {
		return 0, fmt.Errorf("read clipboard: %w", err)
	}
	text = cleanClipboardText(text)
	if strings.TrimSpace(text) == "" {
		return 0, errEmptyClipboard
	}

	var payload clipboardPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && payload.Kind == clipboardKind {
		return s.insertRecords(payload.Shapes, cloneOffset, cloneOffset), nil
	}

	logDebug(s.ctx, "pasting clipboard as text", slog.F("bytes", len(text)))
	sh := NewShape(KindText)
	if err := sh.Initialize(at.X, at.Y); err != nil {
		return 0, err
	}
	if err := sh.ApplyPatch(Patch{Text: S(text)}); err != nil {
		return 0, err
	}
	return s.insertRecords([]ShapeRecord{sh.Record()}, 0, 0), nil
}

// cleanClipboardText drops control characters and normalizes line endings.
func cleanClipboardText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	out := strings.ReplaceAll(b.String(), "\r\n", "\n")
	return strings.ReplaceAll(out, "\r", "\n")
}
