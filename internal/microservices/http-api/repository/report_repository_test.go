package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"scenehub/internal/microservices/http-api/models"
)

const reporterID = "6f1c2d9e-8a43-4b6e-9c1a-2f3e4d5c6b7a"

func TestReportRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		driverErr error
		wantErr   error
	}{
		{name: "Success"},
		{name: "Duplicate", driverErr: &pgconn.PgError{Code: "23505"}, wantErr: ErrDuplicate},
		{name: "Missing scene", driverErr: &pgconn.PgError{Code: "23503"}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewReportRepository(db)

			mock.ExpectBegin()
			insert := mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reports"`))
			if tt.driverErr != nil {
				insert.WillReturnError(tt.driverErr)
				mock.ExpectRollback()
			} else {
				insert.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectCommit()
			}

			report := &models.Report{UserID: reporterID, SceneID: 4, Reason: "Spam"}
			err := repo.Create(context.Background(), report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), report.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReportRepository_CreatePassesOtherErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reports"`)).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Report{UserID: reporterID, SceneID: 4, Reason: "Spam"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reports" WHERE user_id = $1 AND scene_id = $2`)).
		WithArgs(reporterID, 4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), reporterID, 4)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
