package tui

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scenery/core"
	"scenery/render"
)

const thumbnailWidth = 160.0

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeItemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	overlayStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("212"))
)

// paneWidths splits the terminal into pages / canvas / layers columns.
func paneWidths(total int) (pages, canvas, layers int) {
	pages = total / 6
	if pages < 14 {
		pages = 14
	}
	layers = total / 5
	if layers < 18 {
		layers = 18
	}
	canvas = total - pages - layers
	if canvas < 20 {
		canvas = 20
		pages = (total - canvas) / 2
		layers = total - canvas - pages
	}
	return pages, canvas, layers
}

func (m Model) canvasCellSize() (int, int) {
	_, canvas, _ := paneWidths(max(m.width, 40))
	h := m.height - 4
	if h < 6 {
		h = 6
	}
	return canvas - 4, h - 2
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.viewHeader()
	body := m.viewBody()
	status := m.viewStatus()

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, status)
	if m.ed.Exporting() {
		overlay := overlayStyle.Render(fmt.Sprintf("Exporting… %3.0f%%", m.exportProgress))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return out
}

func (m Model) viewHeader() string {
	title := m.ed.ProjectName()
	if title == "" {
		title = "untitled"
	}
	indicator := ""
	if m.saving {
		indicator = "  ● saving"
	}
	if m.generating {
		indicator += "  ✦ generating"
	}
	vp := m.ed.Viewport()
	right := fmt.Sprintf("zoom %d%%", int(vp.Zoom*100))
	left := headerStyle.Render("scenery — " + title + indicator)
	gap := m.width - lipgloss.Width(left) - len(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + dimStyle.Render(right)
}

func (m Model) viewBody() string {
	pagesW, canvasW, layersW := paneWidths(m.width)
	bodyH := m.height - 4
	if bodyH < 6 {
		bodyH = 6
	}

	pages := paneStyle.Width(pagesW - 2).Height(bodyH).Render(m.viewPages(bodyH))
	canvas := paneStyle.Width(canvasW - 2).Height(bodyH).Render(m.viewCanvas())
	layers := paneStyle.Width(layersW - 2).Height(bodyH).Render(m.viewLayers(bodyH))

	return lipgloss.JoinHorizontal(lipgloss.Top, pages, canvas, layers)
}

func (m Model) viewPages(maxLines int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("PAGES") + "\n")
	for i, p := range m.ed.Pages() {
		if i >= maxLines-2 {
			break
		}
		line := fmt.Sprintf("%d %s", i+1, p.Name)
		if p.ID == m.ed.ActivePageID() {
			if m.mode == ModeRenamePage {
				line = fmt.Sprintf("%d %s▏", i+1, m.input)
			}
			b.WriteString(activeItemStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m Model) viewLayers(maxLines int) string {
	page := m.ed.ActivePage()
	var b strings.Builder
	b.WriteString(dimStyle.Render("LAYERS") + "\n")
	// Top of stack first.
	for i := len(page.Layers) - 1; i >= 0; i-- {
		if len(page.Layers)-1-i >= maxLines-2 {
			break
		}
		l := page.Layers[i]
		marker := "  "
		if l.ID == m.ed.Selection() {
			marker = "▸ "
		}
		flags := ""
		if !l.Visible {
			flags += " ∅"
		}
		if l.Locked {
			flags += " ⬩"
		}
		line := marker + l.Name + flags
		if l.ID == m.ed.Selection() {
			b.WriteString(activeItemStyle.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}
	if len(page.Layers) == 0 {
		b.WriteString(dimStyle.Render("  (empty)") + "\n")
	}
	return b.String()
}

// viewCanvas draws a coarse cell preview of the active page: layer frames
// mapped onto a rune grid, selection shown solid.
func (m Model) viewCanvas() string {
	page := m.ed.ActivePage()
	cw, ch := m.canvasCellSize()
	if cw < 4 || ch < 2 {
		return ""
	}

	// Fit the page into the cell grid, preserving aspect (cells are ~2x
	// taller than wide).
	sx := float64(cw) / float64(page.Width)
	sy := float64(ch) / float64(page.Height)
	s := sx
	if sy < s {
		s = sy
	}
	gw := int(float64(page.Width) * s)
	gh := int(float64(page.Height) * s)
	if gw < 1 || gh < 1 {
		return ""
	}

	grid := make([][]rune, gh)
	for y := range grid {
		grid[y] = make([]rune, gw)
		for x := range grid[y] {
			grid[y][x] = '·'
		}
	}

	for _, l := range page.Layers {
		if !l.Visible {
			continue
		}
		fill := layerGlyph(l)
		if l.ID == m.ed.Selection() {
			fill = '▓'
		}
		x0 := int(l.Frame.X * s)
		y0 := int(l.Frame.Y * s)
		x1 := int((l.Frame.X + l.Frame.Width) * s)
		y1 := int((l.Frame.Y + l.Frame.Height) * s)
		for y := max(y0, 0); y < y1 && y < gh; y++ {
			for x := max(x0, 0); x < x1 && x < gw; x++ {
				grid[y][x] = fill
			}
		}
	}

	var b strings.Builder
	if m.mode == ModeTextEdit {
		b.WriteString(activeItemStyle.Render("text: "+m.input+"▏") + "\n")
	}
	for _, row := range grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func layerGlyph(l core.Layer) rune {
	switch {
	case l.Kind == core.KindText:
		return 'T'
	case l.Kind == core.KindVideo:
		return '▶'
	case l.Kind == core.KindImage:
		return '▦'
	default:
		return '░'
	}
}

func (m Model) viewStatus() string {
	switch {
	case m.errorMessage != "":
		return errorStyle.Render(" " + m.errorMessage)
	case m.successMessage != "":
		return successStyle.Render(" " + m.successMessage)
	case m.mode == ModeConfirmDeletePage:
		return errorStyle.Render(" delete this page? (y/n)")
	case m.mode == ModeTextEdit:
		return dimStyle.Render(" editing text — enter to apply, esc to cancel")
	case m.mode == ModeRenamePage:
		return dimStyle.Render(" renaming page — enter to apply, esc to cancel")
	case m.mode == ModeGeneratePrompt:
		return dimStyle.Render(" prompt: " + m.input + "▏  (enter to generate, esc to cancel)")
	}
	tool := "select"
	if m.ed.Tool() != 0 {
		tool = "hand"
	}
	return dimStyle.Render(fmt.Sprintf(
		" [%s] t/r/e/n/p/g/s add · d dup · del delete · u undo · ctrl+s save · E png · W video · q quit",
		tool))
}

func renderThumbnail(surface *render.Raster, page core.Page) ([]byte, error) {
	ratio := thumbnailWidth / float64(page.Width)
	img, err := surface.Snapshot(page, ratio)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
