package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/models"
)

func TestOrganisationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewOrganisationRepository(db)

	mock.ExpectQuery("INSERT INTO organisations").
		WithArgs("Northfield University", "NFU", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"organisation_id"}).AddRow(int64(1)))

	code := "NFU"
	org := models.Organisation{Name: "Northfield University", Code: &code}
	require.NoError(t, repo.Create(context.Background(), &org))
	assert.Equal(t, int64(1), org.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganisationRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewOrganisationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable WHERE section_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE subject_id IN`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE teacher_id IN`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE subject_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE teacher_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM sections WHERE course_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM subjects WHERE course_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM teachers WHERE department_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM courses WHERE department_id IN").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM departments WHERE organisation_id").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM organisations WHERE organisation_id").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganisationRepositoryDeleteCascadeMissing(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewOrganisationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable WHERE section_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE subject_id IN`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE teacher_id IN`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE subject_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE teacher_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM sections WHERE course_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM subjects WHERE course_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM teachers WHERE department_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM courses WHERE department_id IN").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM departments WHERE organisation_id").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM organisations WHERE organisation_id").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.DeleteCascade(context.Background(), 9), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
