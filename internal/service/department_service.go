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

type departmentRepository interface {
	List(ctx context.Context) ([]dto.DepartmentDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, organisationID int64, name string) (bool, error)
	Create(ctx context.Context, dept *models.Department) error
	DeleteCascade(ctx context.Context, id int64) error
}

type organisationResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateDepartmentRequest describes payload for creating a department.
type CreateDepartmentRequest struct {
	Name           string `json:"name" validate:"required"`
	OrganisationID int64  `json:"organisation_id" validate:"required"`
}

// DepartmentService coordinates department catalog logic.
type DepartmentService struct {
	repo          departmentRepository
	organisations organisationResolver
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewDepartmentService instantiates DepartmentService.
func NewDepartmentService(repo departmentRepository, organisations organisationResolver, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, organisations: organisations, validator: validate, logger: logger}
}

// List returns departments with organisation names.
func (s *DepartmentService) List(ctx context.Context) ([]dto.DepartmentDetail, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list departments")
	}
	return departments, nil
}

// Create validates the parent organisation before inserting.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	exists, err := s.organisations.Exists(ctx, req.OrganisationID)
	if err != nil {
		return nil, storeError(err, "failed to check organisation")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "organisation not found")
	}

	taken, err := s.repo.ExistsByName(ctx, req.OrganisationID, req.Name)
	if err != nil {
		return nil, storeError(err, "failed to check department name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department already exists in this organisation")
	}

	dept := models.Department{OrganisationID: req.OrganisationID, Name: req.Name}
	if err := s.repo.Create(ctx, &dept); err != nil {
		return nil, storeError(err, "failed to create department")
	}
	s.logger.Info("department created", zap.Int64("department_id", dept.ID), zap.Int64("organisation_id", dept.OrganisationID))
	return &dept, nil
}

// Delete removes a department and everything it owns.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return storeError(err, "failed to delete department")
	}
	s.logger.Info("department deleted", zap.Int64("department_id", id))
	return nil
}
