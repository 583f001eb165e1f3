// Package persistence provides SQLite-based floor layout storage: racks and
// emitters survive restarts; thermal snapshots deliberately do not.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/rackheat/internal/layout"
	"github.com/talgya/rackheat/internal/thermal"
)

// DB wraps a SQLite connection for layout persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS racks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS emitters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		intensity REAL NOT NULL CHECK (intensity > 0)
	);

	CREATE TABLE IF NOT EXISTS floor_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_racks_rowcol ON racks(row, col);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasLayout reports whether any racks are stored.
func (db *DB) HasLayout() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM racks"); err != nil {
		return false
	}
	return count > 0
}

// SaveRacks writes the rack layout (full replace).
func (db *DB) SaveRacks(racks []layout.Rack) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM racks"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO racks (id, name, row, col, x, y, z) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range racks {
		_, err := stmt.Exec(r.ID.String(), r.Name, r.Row, r.Col,
			r.Position.X, r.Position.Y, r.Position.Z)
		if err != nil {
			return fmt.Errorf("insert rack %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// LoadRacks reads the rack layout ordered by row then column.
func (db *DB) LoadRacks() ([]layout.Rack, error) {
	type rackRow struct {
		ID   string  `db:"id"`
		Name string  `db:"name"`
		Row  int     `db:"row"`
		Col  int     `db:"col"`
		X    float64 `db:"x"`
		Y    float64 `db:"y"`
		Z    float64 `db:"z"`
	}

	var rows []rackRow
	err := db.conn.Select(&rows,
		"SELECT id, name, row, col, x, y, z FROM racks ORDER BY row, col")
	if err != nil {
		return nil, fmt.Errorf("load racks: %w", err)
	}

	racks := make([]layout.Rack, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("rack %s: bad id: %w", r.Name, err)
		}
		racks = append(racks, layout.Rack{
			ID:       id,
			Name:     r.Name,
			Row:      r.Row,
			Col:      r.Col,
			Position: r3.Vector{X: r.X, Y: r.Y, Z: r.Z},
		})
	}
	return racks, nil
}

// SaveEmitters writes the emitter set (full replace). Emitters are
// validated before any row is touched.
func (db *DB) SaveEmitters(emitters []thermal.Emitter) error {
	if err := thermal.ValidateEmitters(emitters); err != nil {
		return err
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM emitters"); err != nil {
		return err
	}

	for _, e := range emitters {
		_, err := tx.Exec(
			"INSERT INTO emitters (name, x, y, z, intensity) VALUES (?, ?, ?, ?, ?)",
			e.Name, e.Position.X, e.Position.Y, e.Position.Z, e.Intensity)
		if err != nil {
			return fmt.Errorf("insert emitter %q: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

// LoadEmitters reads the emitter set in insertion order.
func (db *DB) LoadEmitters() ([]thermal.Emitter, error) {
	type emitterRow struct {
		Name      string  `db:"name"`
		X         float64 `db:"x"`
		Y         float64 `db:"y"`
		Z         float64 `db:"z"`
		Intensity float64 `db:"intensity"`
	}

	var rows []emitterRow
	err := db.conn.Select(&rows,
		"SELECT name, x, y, z, intensity FROM emitters ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load emitters: %w", err)
	}

	emitters := make([]thermal.Emitter, 0, len(rows))
	for _, e := range rows {
		emitters = append(emitters, thermal.Emitter{
			Name:      e.Name,
			Position:  r3.Vector{X: e.X, Y: e.Y, Z: e.Z},
			Intensity: e.Intensity,
		})
	}
	return emitters, nil
}

// SaveMeta stores a key-value pair in floor metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO floor_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM floor_meta WHERE key = ?", key)
	return value, err
}

// SeedDemo populates an empty database with the demo machine room.
func (db *DB) SeedDemo() error {
	racks := layout.DemoRacks()
	emitters := layout.DemoEmitters()

	slog.Info("seeding demo layout", "racks", len(racks), "emitters", len(emitters))

	if err := db.SaveRacks(racks); err != nil {
		return fmt.Errorf("seed racks: %w", err)
	}
	if err := db.SaveEmitters(emitters); err != nil {
		return fmt.Errorf("seed emitters: %w", err)
	}
	return db.SaveMeta("seeded", "demo")
}
