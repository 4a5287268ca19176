// Package httpstore talks to a sceneryd instance over its JSON API, so the
// editor can keep projects on a remote store through the same four-operation
// interface.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scenery/core"
)

type ProjectStore struct {
	base   string
	client *http.Client
}

func NewProjectStore(baseURL string) *ProjectStore {
	return &ProjectStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ProjectStore) url(parts ...string) string {
	return s.base + "/api/projects" + strings.Join(parts, "")
}

func (s *ProjectStore) Save(ctx context.Context, project *core.Project) error {
	body, err := json.Marshal(project)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url("/", project.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, nil)
}

func (s *ProjectStore) Load(ctx context.Context, id string) (*core.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url("/", id), nil)
	if err != nil {
		return nil, err
	}
	var p core.Project
	if err := s.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]core.ProjectSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(), nil)
	if err != nil {
		return nil, err
	}
	var out []core.ProjectSummary
	if err := s.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.url("/", id), nil)
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

func (s *ProjectStore) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.ErrProjectNotFound
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("httpstore: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
