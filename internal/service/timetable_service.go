package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

const fullTimetableCacheKey = "timetable:full"

type timetableRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Timetable, error)
	Create(ctx context.Context, entry *models.Timetable) error
	Update(ctx context.Context, entry *models.Timetable) error
	Delete(ctx context.Context, id int64) error
	ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error)
	ListFull(ctx context.Context) ([]dto.TimetableRow, error)
}

type sectionResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type subjectTeacherResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type slotResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

type scheduleObserver interface {
	ObserveScheduleConflict(dimension string)
	ObserveCacheHit()
	ObserveCacheMiss()
}

// CreateTimetableRequest describes payload for creating a ledger entry.
type CreateTimetableRequest struct {
	SectionID        int64  `json:"section_id" validate:"required"`
	SubjectTeacherID int64  `json:"subject_teacher_id" validate:"required"`
	SlotID           int64  `json:"slot_id" validate:"required"`
	RoomNo           string `json:"room_no" validate:"required"`
}

// UpdateTimetableRequest carries a partial update; only present fields
// overwrite the stored entry.
type UpdateTimetableRequest struct {
	SectionID        *int64  `json:"section_id,omitempty"`
	SubjectTeacherID *int64  `json:"subject_teacher_id,omitempty"`
	SlotID           *int64  `json:"slot_id,omitempty"`
	RoomNo           *string `json:"room_no,omitempty"`
}

// TimetableService owns the assignment ledger workflow: reference
// validation, the constrained write, and conflict reporting. The
// double-booking rules themselves live in the store; two racing requests for
// the same (teacher, slot) or (room, slot) are decided there, never by an
// application-level pre-check.
type TimetableService struct {
	repo            timetableRepository
	sections        sectionResolver
	subjectTeachers subjectTeacherResolver
	slots           slotResolver
	cache           timetableCache
	cacheTTL        time.Duration
	metrics         scheduleObserver
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewTimetableService instantiates TimetableService. cache and metrics may
// be nil.
func NewTimetableService(
	repo timetableRepository,
	sections sectionResolver,
	subjectTeachers subjectTeacherResolver,
	slots slotResolver,
	cache timetableCache,
	cacheTTL time.Duration,
	metrics scheduleObserver,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		repo:            repo,
		sections:        sections,
		subjectTeachers: subjectTeachers,
		slots:           slots,
		cache:           cache,
		cacheTTL:        cacheTTL,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
	}
}

// Create validates the three references then submits the constrained insert.
func (s *TimetableService) Create(ctx context.Context, req CreateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	if err := s.checkReferences(ctx, &req.SectionID, &req.SubjectTeacherID, &req.SlotID); err != nil {
		return nil, err
	}

	entry := models.Timetable{
		SectionID:        req.SectionID,
		SubjectTeacherID: req.SubjectTeacherID,
		SlotID:           req.SlotID,
		RoomNo:           req.RoomNo,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, s.reportWriteError(err, "timetable create rejected")
	}

	s.invalidate(ctx)
	s.logger.Info("timetable entry created",
		zap.Int64("timetable_id", entry.ID),
		zap.Int64("section_id", entry.SectionID),
		zap.Int64("slot_id", entry.SlotID),
	)
	return &entry, nil
}

// Update applies a partial field merge onto the stored entry and re-submits
// it under the same constraints. Rewriting a row with its own current values
// never conflicts: the prior identity belongs to the row being updated.
func (s *TimetableService) Update(ctx context.Context, id int64, req UpdateTimetableRequest) (*models.Timetable, error) {
	if req.SectionID == nil && req.SubjectTeacherID == nil && req.SlotID == nil && req.RoomNo == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields provided")
	}
	if req.RoomNo != nil && *req.RoomNo == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room_no must not be empty")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, storeError(err, "failed to load timetable entry")
	}

	if req.SectionID != nil {
		entry.SectionID = *req.SectionID
	}
	if req.SubjectTeacherID != nil {
		entry.SubjectTeacherID = *req.SubjectTeacherID
	}
	if req.SlotID != nil {
		entry.SlotID = *req.SlotID
	}
	if req.RoomNo != nil {
		entry.RoomNo = *req.RoomNo
	}

	if err := s.checkReferences(ctx, req.SectionID, req.SubjectTeacherID, req.SlotID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, s.reportWriteError(err, "timetable update rejected")
	}

	s.invalidate(ctx)
	s.logger.Info("timetable entry updated", zap.Int64("timetable_id", entry.ID))
	return entry, nil
}

// Delete removes a ledger entry. No conflict is possible on delete.
func (s *TimetableService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return storeError(err, "failed to delete timetable entry")
	}
	s.invalidate(ctx)
	s.logger.Info("timetable entry deleted", zap.Int64("timetable_id", id))
	return nil
}

// ListBySection returns the section schedule in calendar order.
func (s *TimetableService) ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error) {
	rows, err := s.repo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, storeError(err, "failed to list section timetable")
	}
	sortTimetableRows(rows)
	return rows, nil
}

// GetFull returns the denormalized join across all entries, cached when a
// cache is configured.
func (s *TimetableService) GetFull(ctx context.Context) ([]dto.TimetableRow, error) {
	if s.cache != nil {
		var cached []dto.TimetableRow
		err := s.cache.Get(ctx, fullTimetableCacheKey, &cached)
		switch {
		case err == nil:
			if s.metrics != nil {
				s.metrics.ObserveCacheHit()
			}
			return cached, nil
		case errors.Is(err, appErrors.ErrCacheMiss):
			// Only a real lookup that found nothing counts as a miss; a
			// disabled cache or transport failure does not.
			if s.metrics != nil {
				s.metrics.ObserveCacheMiss()
			}
		}
	}

	rows, err := s.repo.ListFull(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list full timetable")
	}
	sortTimetableRows(rows)

	if s.cache != nil {
		s.cache.Set(ctx, fullTimetableCacheKey, rows, s.cacheTTL)
	}
	return rows, nil
}

// checkReferences confirms each provided reference resolves. Nil ids are
// skipped so partial updates only pay for what they change.
func (s *TimetableService) checkReferences(ctx context.Context, sectionID, subjectTeacherID, slotID *int64) error {
	if sectionID != nil {
		ok, err := s.sections.Exists(ctx, *sectionID)
		if err != nil {
			return storeError(err, "failed to check section")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
	}
	if subjectTeacherID != nil {
		ok, err := s.subjectTeachers.Exists(ctx, *subjectTeacherID)
		if err != nil {
			return storeError(err, "failed to check subject-teacher")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "subject-teacher not found")
		}
	}
	if slotID != nil {
		ok, err := s.slots.Exists(ctx, *slotID)
		if err != nil {
			return storeError(err, "failed to check time slot")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
	}
	return nil
}

// reportWriteError records conflict metrics and logs before passing the
// classified error through.
func (s *TimetableService) reportWriteError(err error, message string) error {
	var conflict *models.TimetableConflictError
	if errors.As(err, &conflict) {
		if s.metrics != nil {
			s.metrics.ObserveScheduleConflict(string(conflict.Dimension))
		}
		s.logger.Info(message,
			zap.String("dimension", string(conflict.Dimension)),
			zap.String("reason", conflict.Message),
		)
		return err
	}
	return storeError(err, message)
}

func (s *TimetableService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, fullTimetableCacheKey)
	}
}

// sortTimetableRows orders entries by calendar weekday then start time.
// day_of_week is text, so the ordinal map decides weekday order.
func sortTimetableRows(rows []dto.TimetableRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := models.WeekdayOrdinal(rows[i].DayOfWeek), models.WeekdayOrdinal(rows[j].DayOfWeek)
		if oi != oj {
			return oi < oj
		}
		if rows[i].StartTime != rows[j].StartTime {
			return rows[i].StartTime < rows[j].StartTime
		}
		return rows[i].SectionName < rows[j].SectionName
	})
}
