package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ledger rows referencing the department's pairings, whether through its
// subjects or its teachers, are removed before the pairings themselves so
// cross-department schedules cannot block the cascade.
func TestDepartmentRepositoryDeleteCascadeOrder(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable WHERE section_id IN").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE subject_id IN`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)DELETE FROM timetable WHERE subject_teacher_id IN.+WHERE teacher_id IN`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE subject_id IN").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM subject_teachers WHERE teacher_id IN").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM sections WHERE course_id IN").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM subjects WHERE course_id IN").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM teachers WHERE department_id").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM courses WHERE department_id").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM departments WHERE department_id").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
