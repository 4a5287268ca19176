package editor

import (
	"fmt"

	"scenery/core"
)

// Pages returns a copy of the page sequence.
func (e *Editor) Pages() []core.Page {
	return core.ClonePages(e.project.Pages)
}

// SetActivePage switches editing focus. Unknown ids are a silent no-op.
// History-exempt: which page is active is view state.
func (e *Editor) SetActivePage(id string) {
	if e.project.PageIndex(id) < 0 {
		return
	}
	e.active = id
	e.selected = ""
}

// AddPage appends a new empty page with the given preset and activates it.
func (e *Editor) AddPage(aspect core.AspectRatio) core.Page {
	page := core.NewPage(fmt.Sprintf("Scene %d", len(e.project.Pages)+1), aspect)
	e.project.Pages = append(e.project.Pages, page)
	e.active = page.ID
	e.selected = ""
	e.commit()
	e.bumpThumbnails()
	return page
}

// DuplicatePage copies the page directly after its source and activates the
// copy. Unknown ids are a silent no-op.
func (e *Editor) DuplicatePage(id string) {
	i := e.project.PageIndex(id)
	if i < 0 {
		return
	}
	dup := e.project.Pages[i].Duplicate()
	pages := make([]core.Page, 0, len(e.project.Pages)+1)
	pages = append(pages, e.project.Pages[:i+1]...)
	pages = append(pages, dup)
	pages = append(pages, e.project.Pages[i+1:]...)
	e.project.Pages = pages
	e.active = dup.ID
	e.selected = ""
	e.commit()
	e.bumpThumbnails()
}

// DeletePage removes the page. Deleting the last remaining page is refused;
// deleting the active page activates the (new) first page.
func (e *Editor) DeletePage(id string) error {
	if len(e.project.Pages) == 1 {
		return ErrLastPage
	}
	i := e.project.PageIndex(id)
	if i < 0 {
		return nil
	}
	e.project.Pages = append(e.project.Pages[:i], e.project.Pages[i+1:]...)
	if e.active == id {
		e.active = e.project.Pages[0].ID
		e.selected = ""
	}
	e.commit()
	e.bumpThumbnails()
	return nil
}

// RenamePage sets the page's user label. Unknown ids are a silent no-op.
func (e *Editor) RenamePage(id, name string) {
	i := e.project.PageIndex(id)
	if i < 0 {
		return
	}
	e.project.Pages[i].Name = name
	e.commit()
}

// SetPageBackground changes the page's background color.
func (e *Editor) SetPageBackground(id, color string) {
	i := e.project.PageIndex(id)
	if i < 0 {
		return
	}
	e.project.Pages[i].Background = color
	e.commit()
	e.bumpThumbnails()
}

// SetPageThumbnail stores a regenerated preview raster. Derived data, so it
// does not commit.
func (e *Editor) SetPageThumbnail(id string, thumb []byte) {
	i := e.project.PageIndex(id)
	if i < 0 {
		return
	}
	e.project.Pages[i].Thumbnail = append([]byte(nil), thumb...)
}
