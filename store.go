package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var ErrNotFound = errors.New("drawing not found")

const storeSchema = `
CREATE TABLE IF NOT EXISTS drawings (
	name       TEXT PRIMARY KEY,
	scene      TEXT NOT NULL,
	shapes     INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store keeps named scene snapshots in sqlite.
type Store struct {
	db *sql.DB
}

// DrawingInfo is one row of the drawing list.
type DrawingInfo struct {
	Name      string
	Shapes    int
	UpdatedAt time.Time
}

func OpenStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes snap under name, replacing an existing drawing.
func (s *Store) Save(ctx context.Context, name string, snap SceneSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO drawings (name, scene, shapes, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            scene = excluded.scene,
            shapes = excluded.shapes,
            updated_at = excluded.updated_at
    `, name, string(data), countShapes(snap.Objects), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save drawing %q: %w", name, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (SceneSnapshot, error) {
	var data string
	row := s.db.QueryRowContext(ctx, `SELECT scene FROM drawings WHERE name = ?`, name)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SceneSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return SceneSnapshot{}, fmt.Errorf("load drawing %q: %w", name, err)
	}
	var snap SceneSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return SceneSnapshot{}, fmt.Errorf("decode drawing %q: %w", name, err)
	}
	return snap, nil
}

// List returns drawings, most recently saved first.
func (s *Store) List(ctx context.Context) ([]DrawingInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, shapes, updated_at
        FROM drawings
        ORDER BY updated_at DESC, name
    `)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	var out []DrawingInfo
	for rows.Next() {
		var (
			d       DrawingInfo
			updated int64
		)
		if err := rows.Scan(&d.Name, &d.Shapes, &updated); err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		d.UpdatedAt = time.Unix(0, updated)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drawings WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete drawing %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func countShapes(objs []ObjectRecord) int {
	n := 0
	for _, o := range objs {
		if len(o.Members) > 0 {
			n += countShapes(o.Members)
			continue
		}
		if o.Shape != nil {
			n++
		}
	}
	return n
}
