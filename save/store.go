package save

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSave is returned when a slot has never been written.
var ErrNoSave = errors.New("no save in slot")

// Snapshot is everything a save slot carries: where the player is,
// what they have unlocked, and the state that must survive restarts.
// World state and flags stay with the running session.
type Snapshot struct {
	Slot  int
	Map   string
	X, Y  int
	Layer int

	Money    int
	Effect   string
	Unlocked []string

	// RandValue is the per-save random stream, drawn once when the
	// slot is created and stable for its lifetime.
	RandValue float32

	Steps     uint64
	PlayTicks uint64
	SavedAt   time.Time
}

// Store persists save slots in a local SQLite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			slot INTEGER PRIMARY KEY,
			map TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			layer INTEGER NOT NULL,
			money INTEGER NOT NULL,
			effect TEXT NOT NULL,
			unlocked_json TEXT NOT NULL,
			rand_value REAL NOT NULL,
			steps INTEGER NOT NULL,
			play_ticks INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Write upserts one slot. SavedAt is stamped here.
func (s *Store) Write(snap Snapshot) error {
	unlocked, err := json.Marshal(snap.Unlocked)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO saves
			(slot,map,x,y,layer,money,effect,unlocked_json,rand_value,steps,play_ticks,saved_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.Slot, snap.Map, snap.X, snap.Y, snap.Layer,
		snap.Money, snap.Effect, string(unlocked),
		float64(snap.RandValue), int64(snap.Steps), int64(snap.PlayTicks),
		now.Format(time.RFC3339Nano),
	)
	return err
}

// Read loads one slot, or ErrNoSave.
func (s *Store) Read(slot int) (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT slot,map,x,y,layer,money,effect,unlocked_json,rand_value,steps,play_ticks,saved_at
			FROM saves WHERE slot = ?`, slot)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("slot %d: %w", slot, ErrNoSave)
	}
	return snap, err
}

// Slots lists every written slot in order.
func (s *Store) Slots() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT slot,map,x,y,layer,money,effect,unlocked_json,rand_value,steps,play_ticks,saved_at
			FROM saves ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes a slot. Deleting an empty slot is not an error.
func (s *Store) Delete(slot int) error {
	_, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, slot)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		snap      Snapshot
		unlocked  string
		randValue float64
		steps     int64
		playTicks int64
		savedAt   string
	)
	err := row.Scan(
		&snap.Slot, &snap.Map, &snap.X, &snap.Y, &snap.Layer,
		&snap.Money, &snap.Effect, &unlocked,
		&randValue, &steps, &playTicks, &savedAt,
	)
	if err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(unlocked), &snap.Unlocked); err != nil {
		return Snapshot{}, fmt.Errorf("slot %d unlocked: %w", snap.Slot, err)
	}
	snap.RandValue = float32(randValue)
	snap.Steps = uint64(steps)
	snap.PlayTicks = uint64(playTicks)
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		snap.SavedAt = t
	}
	return snap, nil
}
