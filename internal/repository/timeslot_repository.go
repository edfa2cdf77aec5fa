package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// TimeSlotRepository manages persistence for recurring weekly slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns all time slots. Weekday ordering is a display concern handled
// by the service.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT slot_id, day_of_week, start_time, end_time, created_at FROM time_slots ORDER BY start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// Exists checks whether a slot id resolves.
func (r *TimeSlotRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM time_slots WHERE slot_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check time slot: %w", err)
	}
	return true, nil
}

// ExistsByPeriod checks for a prior slot with the same (day, start, end).
func (r *TimeSlotRepository) ExistsByPeriod(ctx context.Context, dayOfWeek, startTime, endTime string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM time_slots WHERE day_of_week = $1 AND start_time = $2 AND end_time = $3 LIMIT 1`,
		dayOfWeek, startTime, endTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check time slot period: %w", err)
	}
	return true, nil
}

// Create inserts a new time slot.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO time_slots (day_of_week, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4) RETURNING slot_id`
	err := r.db.QueryRowxContext(ctx, query, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.CreatedAt).Scan(&slot.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "time slot already exists")
		}
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}
