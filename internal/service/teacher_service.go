package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]dto.TeacherDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, departmentID int64, name string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

// CreateTeacherRequest describes payload for creating a teacher.
type CreateTeacherRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID int64  `json:"department_id" validate:"required"`
}

// TeacherService coordinates teacher catalog logic.
type TeacherService struct {
	repo        teacherRepository
	departments departmentResolver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService instantiates TeacherService.
func NewTeacherService(repo teacherRepository, departments departmentResolver, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns teachers with department names.
func (s *TeacherService) List(ctx context.Context) ([]dto.TeacherDetail, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list teachers")
	}
	return teachers, nil
}

// Create validates the parent department before inserting.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	exists, err := s.departments.Exists(ctx, req.DepartmentID)
	if err != nil {
		return nil, storeError(err, "failed to check department")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
	}

	taken, err := s.repo.ExistsByName(ctx, req.DepartmentID, req.Name)
	if err != nil {
		return nil, storeError(err, "failed to check teacher name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already exists in this department")
	}

	teacher := models.Teacher{DepartmentID: req.DepartmentID, Name: req.Name}
	if err := s.repo.Create(ctx, &teacher); err != nil {
		return nil, storeError(err, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.Int64("teacher_id", teacher.ID), zap.Int64("department_id", teacher.DepartmentID))
	return &teacher, nil
}
