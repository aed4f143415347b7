package main

import (
	"encoding/json"
	"fmt"
)

// History is a linear list of whole-scene snapshots with a cursor. Entries
// are encoded once and never mutated.
type History struct {
	entries [][]byte
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

// Push drops any redo branch past the cursor and appends snap.
func (h *History) Push(snap SceneSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	h.entries = append(h.entries[:h.index+1], b)
	h.index = len(h.entries) - 1
	return nil
}

// Undo steps back one entry. ok is false when already at the first entry.
func (h *History) Undo() (SceneSnapshot, bool, error) {
	if h.index <= 0 {
		return SceneSnapshot{}, false, nil
	}
	h.index--
	snap, err := h.decode(h.index)
	return snap, true, err
}

// Redo steps forward one entry. ok is false at the last entry.
func (h *History) Redo() (SceneSnapshot, bool, error) {
	if h.index >= len(h.entries)-1 {
		return SceneSnapshot{}, false, nil
	}
	h.index++
	snap, err := h.decode(h.index)
	return snap, true, err
}

func (h *History) Reset() {
	h.entries = nil
	h.index = -1
}

func (h *History) Index() int { return h.index }
func (h *History) Len() int   { return len(h.entries) }

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Current decodes the entry under the cursor.
func (h *History) Current() (SceneSnapshot, bool, error) {
	if h.index < 0 {
		return SceneSnapshot{}, false, nil
	}
	snap, err := h.decode(h.index)
	return snap, true, err
}

func (h *History) decode(i int) (SceneSnapshot, error) {
	var snap SceneSnapshot
	if err := json.Unmarshal(h.entries[i], &snap); err != nil {
		return SceneSnapshot{}, fmt.Errorf("decode snapshot %d: %w", i, err)
	}
	return snap, nil
}
