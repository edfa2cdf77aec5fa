package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type mockSubjectTeacherRepo struct {
	pairs   map[[2]int64]bool
	created *models.SubjectTeacher
}

func (m *mockSubjectTeacherRepo) List(ctx context.Context) ([]dto.SubjectTeacherDetail, error) {
	return nil, nil
}

func (m *mockSubjectTeacherRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func (m *mockSubjectTeacherRepo) ExistsByPair(ctx context.Context, subjectID, teacherID int64) (bool, error) {
	return m.pairs[[2]int64{subjectID, teacherID}], nil
}

func (m *mockSubjectTeacherRepo) Create(ctx context.Context, pair *models.SubjectTeacher) error {
	pair.ID = 1
	m.created = pair
	return nil
}

func TestSubjectTeacherServiceCreate(t *testing.T) {
	repo := &mockSubjectTeacherRepo{}
	svc := NewSubjectTeacherService(repo, allKnown(), allKnown(), validator.New(), zap.NewNop())

	pair, err := svc.Create(context.Background(), CreateSubjectTeacherRequest{SubjectID: 2, TeacherID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pair.ID)
	require.NotNil(t, repo.created)
}

func TestSubjectTeacherServiceCreateMissingSides(t *testing.T) {
	repo := &mockSubjectTeacherRepo{}
	svc := NewSubjectTeacherService(repo, allKnown(), allKnown(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSubjectTeacherRequest{SubjectID: 99, TeacherID: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), CreateSubjectTeacherRequest{SubjectID: 2, TeacherID: 99})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestSubjectTeacherServiceCreateDuplicatePair(t *testing.T) {
	repo := &mockSubjectTeacherRepo{pairs: map[[2]int64]bool{{2, 3}: true}}
	svc := NewSubjectTeacherService(repo, allKnown(), allKnown(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSubjectTeacherRequest{SubjectID: 2, TeacherID: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}
