package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type organisationRepository interface {
	List(ctx context.Context) ([]models.Organisation, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, org *models.Organisation) error
	DeleteCascade(ctx context.Context, id int64) error
}

// CreateOrganisationRequest describes payload for creating an organisation.
type CreateOrganisationRequest struct {
	Name    string  `json:"name" validate:"required"`
	Code    *string `json:"code,omitempty"`
	Address string  `json:"address"`
}

// OrganisationService coordinates organisation catalog logic.
type OrganisationService struct {
	repo      organisationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOrganisationService instantiates OrganisationService.
func NewOrganisationService(repo organisationRepository, validate *validator.Validate, logger *zap.Logger) *OrganisationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganisationService{repo: repo, validator: validate, logger: logger}
}

// List returns all organisations.
func (s *OrganisationService) List(ctx context.Context) ([]models.Organisation, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list organisations")
	}
	return orgs, nil
}

// Create inserts a new organisation. The duplicate pre-check gives a
// friendlier message; the store constraint remains the authority.
func (s *OrganisationService) Create(ctx context.Context, req CreateOrganisationRequest) (*models.Organisation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid organisation payload")
	}

	taken, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, storeError(err, "failed to check organisation name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "organisation name already exists")
	}

	org := models.Organisation{Name: req.Name, Code: req.Code, Address: req.Address}
	if err := s.repo.Create(ctx, &org); err != nil {
		return nil, storeError(err, "failed to create organisation")
	}
	s.logger.Info("organisation created", zap.Int64("organisation_id", org.ID))
	return &org, nil
}

// Delete removes an organisation and every dependent row beneath it.
func (s *OrganisationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "organisation not found")
		}
		return storeError(err, "failed to delete organisation")
	}
	s.logger.Info("organisation deleted", zap.Int64("organisation_id", id))
	return nil
}
