package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]dto.CourseDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	DeleteCascade(ctx context.Context, id int64) error
}

type departmentResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateCourseRequest describes payload for creating a course.
type CreateCourseRequest struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required"`
	DurationYears int    `json:"duration_years" validate:"gte=0,lte=10"`
	DepartmentID  int64  `json:"department_id" validate:"required"`
}

// CourseService coordinates course catalog logic.
type CourseService struct {
	repo        courseRepository
	departments departmentResolver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService instantiates CourseService.
func NewCourseService(repo courseRepository, departments departmentResolver, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns courses with department names.
func (s *CourseService) List(ctx context.Context) ([]dto.CourseDetail, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list courses")
	}
	return courses, nil
}

// Create validates the parent department and the globally unique code.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	exists, err := s.departments.Exists(ctx, req.DepartmentID)
	if err != nil {
		return nil, storeError(err, "failed to check department")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
	}

	taken, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, storeError(err, "failed to check course code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	course := models.Course{
		DepartmentID:  req.DepartmentID,
		Name:          req.Name,
		Code:          req.Code,
		DurationYears: req.DurationYears,
	}
	if err := s.repo.Create(ctx, &course); err != nil {
		return nil, storeError(err, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("course_id", course.ID), zap.String("code", course.Code))
	return &course, nil
}

// Delete removes a course and its owned sections and subjects.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return storeError(err, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}
