package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, courseID int64, name string, semester int) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// CreateSubjectRequest describes payload for creating a subject.
type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required"`
	Semester int    `json:"semester" validate:"required,gte=1,lte=12"`
	CourseID int64  `json:"course_id" validate:"required"`
}

// SubjectService coordinates subject catalog logic.
type SubjectService struct {
	repo      subjectRepository
	courses   courseResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService instantiates SubjectService.
func NewSubjectService(repo subjectRepository, courses courseResolver, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns all subjects.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list subjects")
	}
	return subjects, nil
}

// Create validates the parent course before inserting.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	exists, err := s.courses.Exists(ctx, req.CourseID)
	if err != nil {
		return nil, storeError(err, "failed to check course")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	taken, err := s.repo.ExistsByName(ctx, req.CourseID, req.Name, req.Semester)
	if err != nil {
		return nil, storeError(err, "failed to check subject name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists for this course and semester")
	}

	subject := models.Subject{CourseID: req.CourseID, Name: req.Name, Semester: req.Semester}
	if err := s.repo.Create(ctx, &subject); err != nil {
		return nil, storeError(err, "failed to create subject")
	}
	s.logger.Info("subject created", zap.Int64("subject_id", subject.ID), zap.Int64("course_id", subject.CourseID))
	return &subject, nil
}
