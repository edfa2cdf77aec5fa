package repository

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

func newTimetableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("INSERT INTO timetable").
		WithArgs(int64(2), int64(3), int64(4), "R-101", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"timetable_id"}).AddRow(int64(7)))

	entry := models.Timetable{SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"}
	require.NoError(t, repo.Create(context.Background(), &entry))
	assert.Equal(t, int64(7), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateConflictReasons(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		dimension  models.ConflictDimension
		message    string
	}{
		{"teacher busy", "teacher_slot_unique", models.ConflictTeacher, "Teacher already busy at this time"},
		{"room occupied", "room_slot_unique", models.ConflictRoom, "Room already occupied at this time"},
		{"section booked", "section_slot_unique", models.ConflictSection, "Section already has class at this time"},
		{"unknown constraint", "something_else", models.ConflictUnknown, "Scheduling conflict detected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newTimetableRepoMock(t)
			defer cleanup()
			repo := NewTimetableRepository(db)

			mock.ExpectQuery("INSERT INTO timetable").
				WillReturnError(&pq.Error{Code: "23505", Constraint: tc.constraint})

			entry := models.Timetable{SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"}
			err := repo.Create(context.Background(), &entry)
			require.Error(t, err)

			apiErr := appErrors.FromError(err)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, appErrors.ErrScheduleConflict.Code, apiErr.Code)
			assert.Equal(t, tc.message, apiErr.Message)

			var conflict *models.TimetableConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tc.dimension, conflict.Dimension)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTimetableRepositoryCreateDanglingReference(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("INSERT INTO timetable").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "timetable_section_id_fkey"})

	entry := models.Timetable{SectionID: 99, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"}
	err := repo.Create(context.Background(), &entry)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("UPDATE timetable SET").
		WithArgs(int64(2), int64(3), int64(5), "R-202", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := models.Timetable{ID: 7, SectionID: 2, SubjectTeacherID: 3, SlotID: 5, RoomNo: "R-202"}
	require.NoError(t, repo.Update(context.Background(), &entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateConflict(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("UPDATE timetable SET").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "room_slot_unique"})

	entry := models.Timetable{ID: 7, SectionID: 2, SubjectTeacherID: 3, SlotID: 5, RoomNo: "R-202"}
	err := repo.Update(context.Background(), &entry)
	require.Error(t, err)
	assert.Equal(t, "Room already occupied at this time", appErrors.FromError(err).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("UPDATE timetable SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	entry := models.Timetable{ID: 404, SectionID: 2, SubjectTeacherID: 3, SlotID: 5, RoomNo: "R-202"}
	err := repo.Update(context.Background(), &entry)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("DELETE FROM timetable WHERE timetable_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 7))

	mock.ExpectExec("DELETE FROM timetable WHERE timetable_id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 404), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	columns := []string{
		"timetable_id", "section_id", "section_name", "subject_teacher_id", "subject_name",
		"teacher_name", "slot_id", "day_of_week", "start_time", "end_time", "room_no",
	}
	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), int64(2), "CS-A", int64(3), "Algorithms", "Dr. Rao", int64(4), "MONDAY", "09:00", "10:00", "R-101")
	mock.ExpectQuery("SELECT .+ FROM timetable t").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	list, err := repo.ListBySection(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Algorithms", list[0].SubjectName)
	assert.Equal(t, "Dr. Rao", list[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
