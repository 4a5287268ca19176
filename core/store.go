package core

import (
	"context"
	"errors"
)

// ErrProjectNotFound is returned by ProjectStore implementations when an id
// does not resolve.
var ErrProjectNotFound = errors.New("project not found")

// ProjectStore is the persistence collaborator. The editor only depends on
// these four operations; transport and storage technology live behind it.
type ProjectStore interface {
	// Save creates or replaces a project.
	Save(ctx context.Context, project *Project) error

	// Load returns the full project, pages included.
	Load(ctx context.Context, id string) (*Project, error)

	// List returns summaries only, without page content.
	List(ctx context.Context) ([]ProjectSummary, error)

	// Delete removes a project.
	Delete(ctx context.Context, id string) error
}
