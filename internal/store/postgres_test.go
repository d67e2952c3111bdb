package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_SaveInteraction(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	it := model.Interaction{
		ID:         "it-1",
		AgentName:  "Ana",
		Operation:  "Suporte N1",
		Date:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Transcript: "Cliente: bom dia",
		Result:     &model.AnalysisResult{TotalScore: 90},
	}

	mock.ExpectExec(`INSERT INTO interactions`).
		WithArgs("it-1", "Ana", "Suporte N1", it.Date, "Cliente: bom dia", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveInteraction(context.Background(), &it))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListInteractions(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	resultJSON := `{"evaluationStatus":"CONFORME","totalScore":75}`
	rows := pgxmock.NewRows([]string{"id", "agent_name", "operation", "date", "transcript", "result"}).
		AddRow("it-2", "Bruno", "", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "oi", (*string)(nil)).
		AddRow("it-1", "Ana", "Suporte N1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), "bom dia", &resultJSON)

	mock.ExpectQuery(`SELECT id, agent_name, operation, date, transcript, result FROM interactions`).
		WillReturnRows(rows)

	got, err := s.ListInteractions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Result)
	require.NotNil(t, got[1].Result)
	assert.Equal(t, 75, got[1].Result.TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSlot_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM slots`).
		WithArgs(SlotRubric).
		WillReturnError(pgx.ErrNoRows)

	data, err := s.GetSlot(context.Background(), SlotRubric)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetSlot(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO slots`).
		WithArgs(SlotTheme, `{"mode":"dark"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SetSlot(context.Background(), SlotTheme, []byte(`{"mode":"dark"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
