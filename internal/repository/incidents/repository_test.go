package incidents

import (
	"context"
	"errors"
	"testing"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func TestRepository_Insert(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	incident := dto.Incident{UploadID: uuid.New(), FileName: "staff.csv", Message: "Server error.", Detail: "runtime error: index out of range"}

	mock.ExpectQuery("INSERT INTO upload_incidents").
		WithArgs(incident.UploadID, incident.FileName, incident.Message, incident.Detail).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Insert(context.Background(), incident)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertError(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	mock.ExpectQuery("INSERT INTO upload_incidents").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Insert(context.Background(), dto.Incident{})
	require.ErrorContains(t, err, "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, upload_id, file_name, message, detail").
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "upload_id", "file_name", "message", "detail", "created_at"}).
			AddRow(int64(2), id, "b.csv", "Server error.", "boom", "2025-10-19T10:15:30+00").
			AddRow(int64(1), id, "a.csv", "Server error.", "bang", "2025-10-19T10:14:30+00"))

	got, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, id, got[0].UploadID)
	require.Equal(t, "bang", got[1].Detail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	mock.ExpectQuery("SELECT id, upload_id").
		WithArgs(10, 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "upload_id", "file_name", "message", "detail", "created_at"}))

	got, err := repo.List(context.Background(), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRepository_ResetAllAndSchema(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS upload_incidents").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("TRUNCATE upload_incidents").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.ResetAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
