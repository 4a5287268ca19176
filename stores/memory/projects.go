// Package memory keeps projects in process memory. Used by tests and as the
// default store when nothing is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"scenery/core"
)

type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]core.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[string]core.Project)}
}

func (s *ProjectStore) Save(_ context.Context, project *core.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project.Clone()
	return nil
}

func (s *ProjectStore) Load(_ context.Context, id string) (*core.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, core.ErrProjectNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (s *ProjectStore) List(_ context.Context) ([]core.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ProjectSummary, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *ProjectStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return core.ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}
