package main

import (
	"context"
	"fmt"
	"os"

	"cdr.dev/slog"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	config, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logFile, err := os.OpenFile(config.GetSavePath("sketchpad.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	ctx := withLogger(context.Background(), newFileLogger(logFile, config.LogLevel))

	store, err := OpenStore(ctx, config.databasePath())
	if err != nil {
		logError(ctx, "drawing store unavailable", slog.Error(err))
	} else {
		logInfo(ctx, "drawing store opened", slog.F("path", config.databasePath()))
		defer store.Close()
	}

	m := initialModel(ctx, config, store)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		logError(ctx, "program exited", slog.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initialModel(ctx context.Context, config *Config, store *Store) model {
	ctx, cancel := context.WithCancel(ctx)
	surface := NewMemorySurface()
	session := NewEditingSession(ctx, surface)
	session.Configure(config)

	m := model{
		ctx:          ctx,
		cancel:       cancel,
		session:      session,
		surface:      surface,
		store:        store,
		config:       config,
		mode:         ModeNormal,
		selectedFile: -1,
		viewport:     Viewport{CellW: config.CellWidth, CellH: config.CellHeight},
	}
	session.Selection().Observe(func(ev SelectionEvent) {
		logDebug(ctx, "selection changed", slog.F("mode", ev.Mode.String()), slog.F("ids", ev.IDs))
	})
	return m
}

func (m model) Init() tea.Cmd {
	if m.config.ReferenceImage != "" {
		return importReferenceCmd(m.config.ReferenceImage)
	}
	return nil
}
