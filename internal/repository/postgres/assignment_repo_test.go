package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"grouptee/internal/domain"
)

func TestAssignmentRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	userID := "u1"

	newAssignment := func(guests []string) *domain.Assignment {
		return &domain.Assignment{
			TeeTimeID:   "tt1",
			WeekendID:   "w1",
			UserID:      &userID,
			DisplayName: "Alice",
			GuestNames:  guests,
			CreatedAt:   createdAt,
		}
	}

	tests := []struct {
		name       string
		assignment *domain.Assignment
		mock       func(mock sqlmock.Sqlmock)
		wantID     string
		wantErr    error
	}{
		{
			name:       "success",
			assignment: newAssignment([]string{"Alice's Guest 1"}),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT max_players FROM tee_times WHERE id = \$1 FOR UPDATE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"max_players"}).AddRow(4))
				mock.ExpectQuery(`SELECT COALESCE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
				mock.ExpectQuery(`INSERT INTO assignments`).
					WithArgs("tt1", "w1", "u1", nil, "Alice", pq.Array([]string{"Alice's Guest 1"}), createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("assignment-uuid-1"))
				mock.ExpectCommit()
			},
			wantID: "assignment-uuid-1",
		},
		{
			name:       "party does not fit",
			assignment: newAssignment([]string{"Guest 1", "Guest 2"}),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT max_players FROM tee_times WHERE id = \$1 FOR UPDATE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"max_players"}).AddRow(4))
				mock.ExpectQuery(`SELECT COALESCE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrCapacityExceeded,
		},
		{
			name:       "tee time missing",
			assignment: newAssignment(nil),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT max_players FROM tee_times WHERE id = \$1 FOR UPDATE`).
					WithArgs("tt1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:       "duplicate player",
			assignment: newAssignment(nil),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT max_players FROM tee_times WHERE id = \$1 FOR UPDATE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"max_players"}).AddRow(4))
				mock.ExpectQuery(`SELECT COALESCE`).
					WithArgs("tt1").
					WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
				mock.ExpectQuery(`INSERT INTO assignments`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyAssigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAssignmentRepository(db)
			err = repo.Create(ctx, tt.assignment)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.assignment.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAssignmentRepository_ListByTeeTimeID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "tee_time_id", "weekend_id", "user_id", "invitation_id",
		"display_name", "guest_names", "created_at"}).
		AddRow("a1", "tt1", "w1", "u1", nil, "Alice", `{Alice's Guest 1}`, createdAt).
		AddRow("a2", "tt1", "w1", nil, "inv1", "Marge", `{}`, createdAt)
	mock.ExpectQuery(`SELECT a.id, a.tee_time_id, a.weekend_id`).
		WithArgs("tt1").
		WillReturnRows(rows)

	repo := NewAssignmentRepository(db)
	assignments, err := repo.ListByTeeTimeID(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	require.NotNil(t, assignments[0].UserID)
	require.Equal(t, "u1", *assignments[0].UserID)
	require.Equal(t, []string{"Alice's Guest 1"}, assignments[0].GuestNames)
	require.Equal(t, 2, assignments[0].Spots())

	require.Nil(t, assignments[1].UserID)
	require.NotNil(t, assignments[1].InvitationID)
	require.Equal(t, "inv1", *assignments[1].InvitationID)
	require.Empty(t, assignments[1].GuestNames)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_DeleteByUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM assignments WHERE tee_time_id = \$1 AND user_id = \$2`).
					WithArgs("tt1", "u1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not assigned",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM assignments WHERE tee_time_id = \$1 AND user_id = \$2`).
					WithArgs("tt1", "u1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAssignmentRepository(db)
			err = repo.DeleteByUser(ctx, "tt1", "u1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
