package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type timeSlotRepository interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByPeriod(ctx context.Context, dayOfWeek, startTime, endTime string) (bool, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
}

// CreateTimeSlotRequest describes payload for creating a weekly slot.
type CreateTimeSlotRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// TimeSlotService coordinates time slot catalog logic.
type TimeSlotService struct {
	repo      timeSlotRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService instantiates TimeSlotService.
func NewTimeSlotService(repo timeSlotRepository, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, validator: validate, logger: logger}
}

// List returns slots in calendar week order, Monday first.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list time slots")
	}
	sort.SliceStable(slots, func(i, j int) bool {
		oi, oj := models.WeekdayOrdinal(slots[i].DayOfWeek), models.WeekdayOrdinal(slots[j].DayOfWeek)
		if oi != oj {
			return oi < oj
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

// Create normalizes and validates the period before inserting.
func (s *TimeSlotService) Create(ctx context.Context, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}

	day := strings.ToUpper(strings.TrimSpace(req.DayOfWeek))
	if !models.ValidWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be a weekday name such as MONDAY")
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM format")
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM format")
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	taken, err := s.repo.ExistsByPeriod(ctx, day, req.StartTime, req.EndTime)
	if err != nil {
		return nil, storeError(err, "failed to check time slot period")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "time slot already exists")
	}

	slot := models.TimeSlot{DayOfWeek: day, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := s.repo.Create(ctx, &slot); err != nil {
		return nil, storeError(err, "failed to create time slot")
	}
	s.logger.Info("time slot created", zap.Int64("slot_id", slot.ID), zap.String("day", slot.DayOfWeek))
	return &slot, nil
}
