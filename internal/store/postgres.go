package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which is how the Postgres driver is unit-tested without a database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"insert_interaction": `INSERT INTO interactions (id, agent_name, operation, date, transcript, result) VALUES ($1, $2, $3, $4, $5, $6)`,
	"list_interactions":  `SELECT id, agent_name, operation, date, transcript, result FROM interactions ORDER BY date DESC, id`,
	"get_slot":           `SELECT data FROM slots WHERE name = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS interactions (
	id         TEXT PRIMARY KEY,
	agent_name TEXT NOT NULL,
	operation  TEXT NOT NULL DEFAULT '',
	date       TIMESTAMPTZ NOT NULL,
	transcript TEXT NOT NULL,
	result     JSONB
);

CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_interactions_date ON interactions(date DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_agent ON interactions(agent_name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveInteraction(ctx context.Context, it *model.Interaction) error {
	resultJSON, err := marshalResult(it.Result)
	if err != nil {
		return err
	}

	var result any
	if resultJSON.Valid {
		result = resultJSON.String
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO interactions (id, agent_name, operation, date, transcript, result) VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.AgentName, it.Operation, it.Date.UTC(), it.Transcript, result,
	)
	return eris.Wrapf(err, "postgres: insert interaction %s", it.ID)
}

func (s *PostgresStore) ListInteractions(ctx context.Context) ([]model.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, agent_name, operation, date, transcript, result FROM interactions ORDER BY date DESC, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list interactions")
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		var it model.Interaction
		var resultJSON *string
		if err := rows.Scan(&it.ID, &it.AgentName, &it.Operation, &it.Date, &it.Transcript, &resultJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan interaction")
		}
		if resultJSON != nil {
			it.Result = &model.AnalysisResult{}
			if err := json.Unmarshal([]byte(*resultJSON), it.Result); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal result")
			}
		}
		out = append(out, it)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list interactions iterate")
}

func (s *PostgresStore) GetSlot(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.pool.QueryRow(ctx, `SELECT data FROM slots WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get slot %s", name)
	}
	return []byte(data), nil
}

func (s *PostgresStore) SetSlot(ctx context.Context, name string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		name, string(data),
	)
	return eris.Wrapf(err, "postgres: set slot %s", name)
}
