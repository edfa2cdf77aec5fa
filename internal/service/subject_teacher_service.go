package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type subjectTeacherRepository interface {
	List(ctx context.Context) ([]dto.SubjectTeacherDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByPair(ctx context.Context, subjectID, teacherID int64) (bool, error)
	Create(ctx context.Context, pair *models.SubjectTeacher) error
}

type subjectResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type teacherResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateSubjectTeacherRequest describes payload for approving a pairing.
type CreateSubjectTeacherRequest struct {
	SubjectID int64 `json:"subject_id" validate:"required"`
	TeacherID int64 `json:"teacher_id" validate:"required"`
}

// SubjectTeacherService coordinates subject-teacher pairing logic.
type SubjectTeacherService struct {
	repo      subjectTeacherRepository
	subjects  subjectResolver
	teachers  teacherResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectTeacherService instantiates SubjectTeacherService.
func NewSubjectTeacherService(repo subjectTeacherRepository, subjects subjectResolver, teachers teacherResolver, validate *validator.Validate, logger *zap.Logger) *SubjectTeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectTeacherService{repo: repo, subjects: subjects, teachers: teachers, validator: validate, logger: logger}
}

// List returns all pairings denormalized with subject and teacher names.
// Both /subject-teachers and /subject-teachers-full serve this result.
func (s *SubjectTeacherService) List(ctx context.Context) ([]dto.SubjectTeacherDetail, error) {
	pairs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list subject teachers")
	}
	return pairs, nil
}

// Create validates both sides of the pairing before inserting.
func (s *SubjectTeacherService) Create(ctx context.Context, req CreateSubjectTeacherRequest) (*models.SubjectTeacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject-teacher payload")
	}

	exists, err := s.subjects.Exists(ctx, req.SubjectID)
	if err != nil {
		return nil, storeError(err, "failed to check subject")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	exists, err = s.teachers.Exists(ctx, req.TeacherID)
	if err != nil {
		return nil, storeError(err, "failed to check teacher")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	taken, err := s.repo.ExistsByPair(ctx, req.SubjectID, req.TeacherID)
	if err != nil {
		return nil, storeError(err, "failed to check subject-teacher pair")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject-teacher pairing already exists")
	}

	pair := models.SubjectTeacher{SubjectID: req.SubjectID, TeacherID: req.TeacherID}
	if err := s.repo.Create(ctx, &pair); err != nil {
		return nil, storeError(err, "failed to create subject-teacher pairing")
	}
	s.logger.Info("subject teacher created", zap.Int64("subject_teacher_id", pair.ID))
	return &pair, nil
}
