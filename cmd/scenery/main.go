package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"scenery/config"
	"scenery/core"
	"scenery/editor"
	"scenery/export"
	"scenery/render"
	"scenery/stores"
	"scenery/tui"
)

func main() {
	// The TUI owns the terminal; log to a file when asked, otherwise drop.
	if path := os.Getenv("SCENERY_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logrus.SetOutput(f)
			defer f.Close()
		}
	} else {
		logrus.SetOutput(io.Discard)
	}

	cfg := config.Load()

	store, err := stores.GetStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage:", err)
		os.Exit(1)
	}

	name := "untitled"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	ed := editor.New(core.NewProject(name))

	surface := render.NewRaster()
	pipeline := export.New(surface)

	p := tea.NewProgram(
		tui.NewModel(ed, surface, pipeline, store, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Thumbnail regeneration is debounced; the timer posts back into the
	// program loop so all document access stays on it.
	thumbs := editor.NewThumbnailScheduler(editor.DefaultThumbnailDelay, func() {
		p.Send(tui.ThumbnailMsg{})
	})
	ed.AttachThumbnails(thumbs)
	defer thumbs.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
