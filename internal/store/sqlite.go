package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS interactions (
	id         TEXT PRIMARY KEY,
	agent_name TEXT NOT NULL,
	operation  TEXT NOT NULL DEFAULT '',
	date       DATETIME NOT NULL,
	transcript TEXT NOT NULL,
	result     TEXT
);

CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_interactions_date ON interactions(date DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_agent ON interactions(agent_name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveInteraction(ctx context.Context, it *model.Interaction) error {
	resultJSON, err := marshalResult(it.Result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, agent_name, operation, date, transcript, result) VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.AgentName, it.Operation, it.Date.UTC(), it.Transcript, resultJSON,
	)
	return eris.Wrapf(err, "sqlite: insert interaction %s", it.ID)
}

func (s *SQLiteStore) ListInteractions(ctx context.Context) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent_name, operation, date, transcript, result FROM interactions ORDER BY date DESC, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list interactions")
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list interactions iterate")
}

func (s *SQLiteStore) GetSlot(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get slot %s", name)
	}
	return []byte(data), nil
}

func (s *SQLiteStore) SetSlot(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, string(data),
	)
	return eris.Wrapf(err, "sqlite: set slot %s", name)
}

// helpers

func marshalResult(r *model.AnalysisResult) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, eris.Wrap(err, "store: marshal result")
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanInteraction(row scannable) (*model.Interaction, error) {
	var it model.Interaction
	var resultJSON sql.NullString

	err := row.Scan(&it.ID, &it.AgentName, &it.Operation, &it.Date, &it.Transcript, &resultJSON)
	if err != nil {
		return nil, eris.Wrap(err, "store: scan interaction")
	}

	if resultJSON.Valid {
		it.Result = &model.AnalysisResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), it.Result); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal result")
		}
	}
	return &it, nil
}
