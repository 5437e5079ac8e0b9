package audit

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInsertsEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := NewRecorder(mock, nil)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(pgxmock.AnyArg(), "hospitals", "h-1", "status:suspended", "admin-1", "license review", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec.Record(context.Background(), Entry{
		Resource: "hospitals",
		EntityID: "h-1",
		Action:   "status:suspended",
		ActorID:  "admin-1",
		Detail:   "license review",
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailureDoesNotPanic(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := NewRecorder(mock, nil)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	rec.Record(context.Background(), Entry{Resource: "users", EntityID: "u-1", Action: "delete"})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), Entry{Resource: "doctors", EntityID: "d-1", Action: "verify"})

	entries, err := rec.Latest(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = rec.Recent(context.Background(), "doctors", "d-1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := NewRecorder(mock, nil)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "resource", "entity_id", "action", "actor_id", "detail", "created_at"}).
		AddRow("a-2", "appointments", "apt-1", "confirm", "admin-1", "", now).
		AddRow("a-1", "appointments", "apt-1", "create", "admin-1", "", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, resource, entity_id, action, actor_id, detail, created_at").
		WithArgs("appointments", "apt-1", 20).
		WillReturnRows(rows)

	entries, err := rec.Recent(context.Background(), "appointments", "apt-1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "confirm", entries[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}
