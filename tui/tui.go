// Package tui is the terminal front-end: it translates key and mouse input
// into editor operations and draws the document state. Document-level
// shortcuts are suppressed whenever a text input is focused.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scenery/config"
	"scenery/core"
	"scenery/editor"
	"scenery/export"
	"scenery/genmedia"
	"scenery/render"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextEdit
	ModeRenamePage
	ModeGeneratePrompt
	ModeConfirmDeletePage
)

// minSaveIndicator keeps the save indicator visible long enough to register,
// even when the store answers instantly.
const minSaveIndicator = 600 * time.Millisecond

// cell-to-pixel approximations used to fit the page into the terminal canvas
// area.
const (
	cellPxW = 8.0
	cellPxH = 16.0
)

type Model struct {
	ed       *editor.Editor
	surface  *render.Raster
	pipeline *export.Pipeline
	store    core.ProjectStore
	cfg      *config.Config

	width  int
	height int

	mode  Mode
	input string

	dragging     bool
	dragX, dragY int

	saving      bool
	saveStarted time.Time
	generating  bool

	// videosSeeked records that startExport paused the live page's videos,
	// so exportDoneMsg knows to release them.
	videosSeeked bool

	exportProgress float64

	errorMessage   string
	successMessage string
}

func NewModel(ed *editor.Editor, surface *render.Raster, pipeline *export.Pipeline, store core.ProjectStore, cfg *config.Config) Model {
	return Model{
		ed:       ed,
		surface:  surface,
		pipeline: pipeline,
		store:    store,
		cfg:      cfg,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// messages

type saveDoneMsg struct{ err error }
type saveHideMsg struct{}
type exportDoneMsg struct {
	path string
	err  error
}
type exportTickMsg struct{}
type genDoneMsg struct {
	layerID string
	uri     string
	err     error
}

// ThumbnailMsg asks the model to regenerate the active page thumbnail. The
// debounce scheduler sends it after a quiet period.
type ThumbnailMsg struct{}

// isTextEditing reports whether an in-place text input owns the keyboard.
func (m Model) isTextEditing() bool {
	return m.mode == ModeTextEdit || m.mode == ModeRenamePage || m.mode == ModeGeneratePrompt
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitToScreen()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case saveDoneMsg:
		if msg.err != nil {
			m.errorMessage = "save failed: " + msg.err.Error()
		} else {
			m.successMessage = "saved"
		}
		remaining := minSaveIndicator - time.Since(m.saveStarted)
		if remaining < 0 {
			remaining = 0
		}
		return m, tea.Tick(remaining, func(time.Time) tea.Msg { return saveHideMsg{} })

	case saveHideMsg:
		m.saving = false
		return m, nil

	case exportDoneMsg:
		if m.videosSeeked {
			m.ed.ReleaseVideosForExport()
			m.videosSeeked = false
		}
		m.ed.EndExport()
		m.exportProgress = 0
		if msg.err != nil {
			m.errorMessage = "export failed: " + msg.err.Error()
		} else {
			m.successMessage = "exported " + msg.path
		}
		return m, nil

	case exportTickMsg:
		if !m.ed.Exporting() {
			return m, nil
		}
		m.exportProgress = m.pipeline.Progress()
		return m, exportTick()

	case genDoneMsg:
		m.generating = false
		if msg.err != nil {
			m.errorMessage = "generation failed: " + msg.err.Error()
		} else {
			m.ed.ApplyGeneratedVideo(msg.layerID, msg.uri)
			m.successMessage = "video generated"
		}
		return m, nil

	case ThumbnailMsg:
		// The pipeline owns the render surface for the duration of an
		// export; regeneration fires again once editing resumes.
		if !m.ed.Exporting() {
			m.regenerateThumbnail()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) fitToScreen() {
	w, h := m.canvasCellSize()
	m.ed.FitToScreen(float64(w)*cellPxW, float64(h)*cellPxH)
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.ed.Exporting() {
		m.dragging = false
		return m
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.ed.ZoomBy(1.1)
		} else {
			m.ed.PanBy(0, cellPxH)
		}
		return m
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.ed.ZoomBy(1 / 1.1)
		} else {
			m.ed.PanBy(0, -cellPxH)
		}
		return m
	}

	// Press-drag pans: middle button with any tool, left button with the
	// hand tool.
	pans := msg.Button == tea.MouseButtonMiddle ||
		(msg.Button == tea.MouseButtonLeft && m.ed.Tool() == editor.ToolHand)

	switch msg.Action {
	case tea.MouseActionPress:
		if pans {
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.ed.PanBy(float64(msg.X-m.dragX)*cellPxW, float64(msg.Y-m.dragY)*cellPxH)
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.isTextEditing() {
		return m.handleTextInput(msg)
	}
	if m.mode == ModeConfirmDeletePage {
		return m.handleConfirm(key), nil
	}

	// Export owns the render surface; only viewing is allowed meanwhile.
	if m.ed.Exporting() {
		return m, nil
	}

	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "q":
		return m, tea.Quit

	// tools
	case "v":
		m.ed.SetTool(editor.ToolSelect)
	case "m":
		m.ed.SetTool(editor.ToolHand)

	// layers
	case "t":
		m.ed.AddTextLayer("Add your text")
		m.mode = ModeTextEdit
		m.input = "Add your text"
	case "r":
		m.ed.AddShapeLayer(core.KindRect)
	case "e":
		m.ed.AddShapeLayer(core.KindEllipse)
	case "n":
		m.ed.AddShapeLayer(core.KindLine)
	case "p":
		m.ed.AddShapeLayer(core.KindPolygon)
	case "g":
		m.ed.AddShapeLayer(core.KindTriangle)
	case "s":
		m.ed.AddShapeLayer(core.KindStar)
	case "d":
		m.ed.DuplicateLayer(m.ed.Selection())
	case "delete", "backspace":
		m.ed.DeleteLayer(m.ed.Selection())
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "]":
		m.moveSelected(1)
	case "[":
		m.moveSelected(-1)
	case "enter":
		if l, ok := m.ed.SelectedLayer(); ok && l.Kind == core.KindText {
			m.mode = ModeTextEdit
			m.input = l.Text.Content
		}
	case "c":
		if err := m.ed.CopySelectedLayer(); err == nil {
			m.successMessage = "layer copied"
		}
	case "V":
		if err := m.ed.PasteLayer(); err == nil {
			m.successMessage = "layer pasted"
		}
	case "esc":
		m.ed.ClearSelection()

	// pages
	case "a":
		m.ed.AddPage(core.AspectLandscape)
	case "D":
		m.ed.DuplicatePage(m.ed.ActivePageID())
	case "X":
		m.mode = ModeConfirmDeletePage
	case "R":
		m.mode = ModeRenamePage
		m.input = m.ed.ActivePage().Name
	case ",":
		m.cyclePage(-1)
	case ".":
		m.cyclePage(1)

	// history
	case "u", "ctrl+z":
		m.ed.Undo()
	case "ctrl+y", "ctrl+shift+z":
		m.ed.Redo()

	// viewport
	case "+", "=":
		m.ed.ZoomBy(1.1)
	case "-":
		m.ed.ZoomBy(1 / 1.1)
	case "f":
		m.fitToScreen()
	case "left", "h":
		m.pan(cellPxW, 0)
	case "right", "l":
		m.pan(-cellPxW, 0)
	case "up", "k":
		m.pan(0, cellPxH)
	case "down", "j":
		m.pan(0, -cellPxH)

	// persistence + export
	case "ctrl+s":
		return m.startSave()
	case "E":
		return m.startExport(export.FormatPNG)
	case "W":
		return m.startExport(export.FormatAVI)

	// generative media
	case "G":
		if m.generating || m.cfg.GenerateURL == "" {
			break
		}
		if l, ok := m.ed.SelectedLayer(); ok && l.Media != nil {
			m.mode = ModeGeneratePrompt
			m.input = ""
		}
	}
	return m, nil
}

func (m *Model) pan(dx, dy float64) {
	// Hand tool (or plain arrows) pans; the select tool reserves arrows for
	// nudging the selected layer.
	if m.ed.Tool() == editor.ToolSelect && m.ed.Selection() != "" {
		if l, ok := m.ed.SelectedLayer(); ok && !l.Locked {
			x := l.Frame.X - dx
			y := l.Frame.Y - dy
			m.ed.UpdateLayer(l.ID, core.LayerPatch{X: &x, Y: &y})
			return
		}
	}
	m.ed.PanBy(dx, dy)
}

func (m Model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input = ""
	case "enter":
		switch {
		case m.mode == ModeRenamePage:
			m.ed.RenamePage(m.ed.ActivePageID(), m.input)
		case m.mode == ModeGeneratePrompt:
			return m.startGenerate(m.input)
		default:
			if l, ok := m.ed.SelectedLayer(); ok && l.Kind == core.KindText {
				content := m.input
				m.ed.UpdateLayer(l.ID, core.LayerPatch{Text: &core.TextPatch{Content: &content}})
			}
		}
		m.mode = ModeNormal
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case "space":
		m.input += " "
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func (m Model) handleConfirm(key string) Model {
	switch key {
	case "y", "Y":
		if err := m.ed.DeletePage(m.ed.ActivePageID()); err != nil {
			m.errorMessage = "a project needs at least one page"
		}
	}
	m.mode = ModeNormal
	return m
}

func (m *Model) cycleSelection(dir int) {
	page := m.ed.ActivePage()
	if len(page.Layers) == 0 {
		return
	}
	i := page.LayerIndex(m.ed.Selection())
	i = (i + dir + len(page.Layers)) % len(page.Layers)
	m.ed.SelectLayer(page.Layers[i].ID)
}

// moveSelected shifts the selected layer one step in the stack by handing the
// editor a full replacement order.
func (m *Model) moveSelected(dir int) {
	page := m.ed.ActivePage()
	i := page.LayerIndex(m.ed.Selection())
	j := i + dir
	if i < 0 || j < 0 || j >= len(page.Layers) {
		return
	}
	order := make([]string, len(page.Layers))
	for k, l := range page.Layers {
		order[k] = l.ID
	}
	order[i], order[j] = order[j], order[i]
	m.ed.ReorderLayers(order)
}

func (m *Model) cyclePage(dir int) {
	pages := m.ed.Pages()
	i := 0
	for k, p := range pages {
		if p.ID == m.ed.ActivePageID() {
			i = k
			break
		}
	}
	i = (i + dir + len(pages)) % len(pages)
	m.ed.SetActivePage(pages[i].ID)
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	m.saveStarted = time.Now()
	project := m.ed.Project()
	project.UpdatedAt = time.Now().UTC()
	store := m.store
	return m, func() tea.Msg {
		return saveDoneMsg{err: store.Save(context.Background(), &project)}
	}
}

// exportStage hands the pipeline a private deep copy of the page, so the
// recording goroutine never touches editor state. The live page's seek and
// release happen on the program loop: in startExport and in the
// exportDoneMsg handler.
type exportStage struct{ page core.Page }

func newExportStage(page core.Page) *exportStage {
	return &exportStage{page: page.Clone()}
}

func (s *exportStage) Page() core.Page { return s.page }

func (s *exportStage) SeekVideos() {
	zero := 0.0
	paused := false
	s.patchVideos(core.LayerPatch{Media: &core.MediaPatch{Playing: &paused, CurrentTime: &zero}})
}

func (s *exportStage) ReleaseVideos() {
	playing := true
	s.patchVideos(core.LayerPatch{Media: &core.MediaPatch{Playing: &playing, ClearCurrentTime: true}})
}

func (s *exportStage) patchVideos(patch core.LayerPatch) {
	for _, l := range s.page.Layers {
		if l.Kind != core.KindVideo {
			continue
		}
		s.page = s.page.WithLayerReplaced(l.ID, l.Apply(patch))
	}
}

func (m Model) startExport(format export.Format) (tea.Model, tea.Cmd) {
	if err := m.ed.BeginExport(); err != nil {
		return m, nil
	}
	m.exportProgress = 0

	// Seek the visible page here, on the program loop, then detach a copy
	// for the recorder. The matching release happens when exportDoneMsg
	// arrives. Stills never touch video playback.
	if format != export.FormatPNG {
		m.ed.SeekVideosForExport()
		m.videosSeeked = true
	}

	name := m.ed.ProjectName()
	dir := m.cfg.ExportDir()
	pipeline := m.pipeline
	stage := newExportStage(m.ed.ActivePage())
	targetWidth := stage.Page().Width

	run := func() tea.Msg {
		var (
			path string
			err  error
		)
		if format == export.FormatPNG {
			opts := export.Options{Format: export.FormatPNG, TargetWidth: targetWidth, Label: "still"}
			path, err = pipeline.Still(stage.Page(), name, opts, dir)
		} else {
			opts := export.Options{Format: format, TargetWidth: targetWidth, Label: "video", Duration: 5 * time.Second}
			path, err = pipeline.Video(stage, name, opts, dir)
		}
		return exportDoneMsg{path: path, err: err}
	}
	return m, tea.Batch(run, exportTick())
}

func exportTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return exportTickMsg{} })
}

// startGenerate grabs the selected layer's current raster as the reference
// keyframe and submits it with the prompt. The layer is updated only after
// the generation fully succeeds.
func (m Model) startGenerate(prompt string) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	m.input = ""

	l, ok := m.ed.SelectedLayer()
	if !ok || l.Media == nil {
		return m, nil
	}
	page := m.ed.ActivePage()
	keyframe, err := m.surface.LayerRaster(page, l.ID)
	if err != nil {
		m.errorMessage = "generate: " + err.Error()
		return m, nil
	}

	m.generating = true
	client := genmedia.NewHTTPClient(m.cfg.GenerateURL)
	req := genmedia.Request{Keyframe: keyframe, Prompt: prompt, Aspect: aspectClass(page)}
	layerID := l.ID
	return m, func() tea.Msg {
		uri, err := client.Generate(context.Background(), req, nil)
		return genDoneMsg{layerID: layerID, uri: uri, err: err}
	}
}

func aspectClass(page core.Page) genmedia.AspectClass {
	switch {
	case page.Width > page.Height:
		return genmedia.AspectClassLandscape
	case page.Width < page.Height:
		return genmedia.AspectClassPortrait
	}
	return genmedia.AspectClassSquare
}

func (m *Model) regenerateThumbnail() {
	page := m.ed.ActivePage()
	if page.Width == 0 {
		return
	}
	thumb, err := renderThumbnail(m.surface, page)
	if err != nil {
		return
	}
	m.ed.SetPageThumbnail(page.ID, thumb)
}
