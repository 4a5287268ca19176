// Package filesystem persists projects as one JSON document per project.
// Writes go through a temp file and atomic rename so a crash never leaves a
// half-written project behind.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"scenery/core"
)

type ProjectStore struct {
	dir string
	log *logrus.Entry
}

func NewProjectStore(dir string) (*ProjectStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ProjectStore{
		dir: dir,
		log: logrus.WithFields(logrus.Fields{"store": "filesystem", "dir": dir}),
	}, nil
}

func (s *ProjectStore) file(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *ProjectStore) Save(_ context.Context, project *core.Project) error {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, project.ID+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.file(project.ID))
}

func (s *ProjectStore) Load(_ context.Context, id string) (*core.Project, error) {
	data, err := os.ReadFile(s.file(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrProjectNotFound
		}
		return nil, err
	}
	var p core.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]core.ProjectSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]core.ProjectSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		p, err := s.Load(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("file", e.Name()).Warn("skipping unreadable project")
			continue
		}
		out = append(out, p.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *ProjectStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.file(id))
	if errors.Is(err, os.ErrNotExist) {
		return core.ErrProjectNotFound
	}
	return err
}
