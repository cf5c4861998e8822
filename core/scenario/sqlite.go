package scenario

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists scenarios to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS scenarios (
        name TEXT PRIMARY KEY,
        created INTEGER,
        record TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces the scenario.
func (s *SQLiteStore) Save(ctx context.Context, sc Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scenarios (name, created, record) VALUES (?, ?, ?)`,
		sc.Name, sc.CreatedAt.Unix(), string(b))
	return err
}

// Get loads one scenario.
func (s *SQLiteStore) Get(ctx context.Context, name string) (Scenario, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM scenarios WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Scenario{}, err
	}
	return decode(data)
}

// List returns all scenarios ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Scenario
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		sc, err := decode(data)
		if err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes the named scenarios in a single transaction.
func (s *SQLiteStore) Delete(ctx context.Context, names ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, n := range names {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, n); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func decode(data string) (Scenario, error) {
	var sc Scenario
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return sc, nil
}
