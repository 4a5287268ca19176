package core

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const firstPageName = "Scene 1"

// Project is the full document belonging to one saved composition: an
// ordered page sequence plus persistence metadata.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Pages     []Page    `json:"pages"`
	UpdatedAt time.Time `json:"updatedAt"`
	Thumbnail []byte    `json:"thumbnail,omitempty"`
}

// ProjectSummary is the listing shape: everything but page content.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
	Thumbnail []byte    `json:"thumbnail,omitempty"`
}

// NewProjectID returns a sortable project identifier.
func NewProjectID() string {
	return ulid.Make().String()
}

// NewProject returns a project with a single empty 16:9 page. A project
// always has at least one page.
func NewProject(name string) Project {
	return Project{
		ID:        NewProjectID(),
		Name:      name,
		Pages:     []Page{NewPage(firstPageName, AspectLandscape)},
		UpdatedAt: time.Now().UTC(),
	}
}

func (p Project) Clone() Project {
	c := p
	c.Pages = ClonePages(p.Pages)
	if p.Thumbnail != nil {
		c.Thumbnail = append([]byte(nil), p.Thumbnail...)
	}
	return c
}

func (p Project) Summary() ProjectSummary {
	s := ProjectSummary{ID: p.ID, Name: p.Name, UpdatedAt: p.UpdatedAt}
	if p.Thumbnail != nil {
		s.Thumbnail = append([]byte(nil), p.Thumbnail...)
	}
	return s
}

func (p Project) PageIndex(id string) int {
	for i, pg := range p.Pages {
		if pg.ID == id {
			return i
		}
	}
	return -1
}
