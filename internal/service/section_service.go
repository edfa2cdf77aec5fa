package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context) ([]dto.SectionDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, courseID int64, name string, semester int) (bool, error)
	Create(ctx context.Context, section *models.Section) error
}

type courseResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateSectionRequest describes payload for creating a section.
type CreateSectionRequest struct {
	Name     string `json:"name" validate:"required"`
	Semester int    `json:"semester" validate:"required,gte=1,lte=12"`
	CourseID int64  `json:"course_id" validate:"required"`
}

// SectionService coordinates section catalog logic.
type SectionService struct {
	repo      sectionRepository
	courses   courseResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService instantiates SectionService.
func NewSectionService(repo sectionRepository, courses courseResolver, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns sections with course names.
func (s *SectionService) List(ctx context.Context) ([]dto.SectionDetail, error) {
	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list sections")
	}
	return sections, nil
}

// Create validates the parent course before inserting.
func (s *SectionService) Create(ctx context.Context, req CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
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
		return nil, storeError(err, "failed to check section name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "section already exists for this course and semester")
	}

	section := models.Section{CourseID: req.CourseID, Name: req.Name, Semester: req.Semester}
	if err := s.repo.Create(ctx, &section); err != nil {
		return nil, storeError(err, "failed to create section")
	}
	s.logger.Info("section created", zap.Int64("section_id", section.ID), zap.Int64("course_id", section.CourseID))
	return &section, nil
}
