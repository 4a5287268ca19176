// Package sqlite persists projects in a single SQLite database using the
// cgo-free modernc driver. Page content is stored as a JSON blob; summary
// columns are kept separately so listing never deserializes pages.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"scenery/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	thumbnail  BLOB,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at DESC);
`

type ProjectStore struct {
	db  *sql.DB
	log *logrus.Entry
}

func NewProjectStore(dataSourceName string) (*ProjectStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &ProjectStore{
		db:  db,
		log: logrus.WithFields(logrus.Fields{"store": "sqlite", "dsn": dataSourceName}),
	}, nil
}

func (s *ProjectStore) Close() error { return s.db.Close() }

func (s *ProjectStore) Save(ctx context.Context, project *core.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, data, thumbnail, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			thumbnail = excluded.thumbnail,
			updated_at = excluded.updated_at`,
		project.ID, project.Name, data, project.Thumbnail, project.UpdatedAt)
	return err
}

func (s *ProjectStore) Load(ctx context.Context, id string) (*core.Project, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM projects WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, core.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	var p core.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]core.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, thumbnail, updated_at FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.ProjectSummary
	for rows.Next() {
		var sum core.ProjectSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Thumbnail, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrProjectNotFound
	}
	return nil
}
