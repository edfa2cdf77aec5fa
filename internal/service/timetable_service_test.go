package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type mockTimetableRepo struct {
	entries     map[int64]models.Timetable
	created     *models.Timetable
	updated     *models.Timetable
	deleted     []int64
	rows        []dto.TimetableRow
	listCalls   int
	conflictOn  models.ConflictDimension
	conflictMsg string
}

func (m *mockTimetableRepo) conflict() error {
	domainErr := &models.TimetableConflictError{Dimension: m.conflictOn, Message: m.conflictMsg}
	return appErrors.Wrap(domainErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, domainErr.Message)
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	if e, ok := m.entries[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) Create(ctx context.Context, entry *models.Timetable) error {
	if m.conflictOn != "" {
		return m.conflict()
	}
	entry.ID = 1
	m.created = entry
	return nil
}

func (m *mockTimetableRepo) Update(ctx context.Context, entry *models.Timetable) error {
	if m.conflictOn != "" {
		return m.conflict()
	}
	if _, ok := m.entries[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	m.updated = entry
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTimetableRepo) ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error) {
	m.listCalls++
	return append([]dto.TimetableRow(nil), m.rows...), nil
}

func (m *mockTimetableRepo) ListFull(ctx context.Context) ([]dto.TimetableRow, error) {
	m.listCalls++
	return append([]dto.TimetableRow(nil), m.rows...), nil
}

type mockResolver struct {
	known map[int64]bool
}

func (m *mockResolver) Exists(ctx context.Context, id int64) (bool, error) {
	return m.known[id], nil
}

func allKnown() *mockResolver {
	return &mockResolver{known: map[int64]bool{1: true, 2: true, 3: true, 4: true, 5: true}}
}

type mockTimetableCache struct {
	rows        []dto.TimetableRow
	populated   bool
	getErr      error
	sets        int
	invalidated []string
}

func (m *mockTimetableCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	if !m.populated {
		return appErrors.ErrCacheMiss
	}
	*dest.(*[]dto.TimetableRow) = m.rows
	return nil
}

func (m *mockTimetableCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	m.rows = value.([]dto.TimetableRow)
	m.populated = true
	m.sets++
}

func (m *mockTimetableCache) Invalidate(ctx context.Context, keys ...string) {
	m.invalidated = append(m.invalidated, keys...)
	m.populated = false
}

type mockScheduleObserver struct {
	conflicts []string
	hits      int
	misses    int
}

func (m *mockScheduleObserver) ObserveScheduleConflict(dimension string) {
	m.conflicts = append(m.conflicts, dimension)
}

func (m *mockScheduleObserver) ObserveCacheHit()  { m.hits++ }
func (m *mockScheduleObserver) ObserveCacheMiss() { m.misses++ }

func newTimetableServiceForTest(repo *mockTimetableRepo, cache *mockTimetableCache, metrics *mockScheduleObserver) *TimetableService {
	var c timetableCache
	if cache != nil {
		c = cache
	}
	var o scheduleObserver
	if metrics != nil {
		o = metrics
	}
	return NewTimetableService(repo, allKnown(), allKnown(), allKnown(), c, time.Minute, o, validator.New(), zap.NewNop())
}

func TestTimetableServiceCreate(t *testing.T) {
	repo := &mockTimetableRepo{}
	cache := &mockTimetableCache{populated: true}
	svc := newTimetableServiceForTest(repo, cache, nil)

	entry, err := svc.Create(context.Background(), CreateTimetableRequest{
		SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
	require.NotNil(t, repo.created)
	assert.Contains(t, cache.invalidated, "timetable:full")
}

func TestTimetableServiceCreateMissingReference(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableServiceForTest(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTimetableRequest{
		SectionID: 99, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestTimetableServiceCreateConflict(t *testing.T) {
	repo := &mockTimetableRepo{conflictOn: models.ConflictTeacher, conflictMsg: "Teacher already busy at this time"}
	metrics := &mockScheduleObserver{}
	svc := newTimetableServiceForTest(repo, nil, metrics)

	_, err := svc.Create(context.Background(), CreateTimetableRequest{
		SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101",
	})
	require.Error(t, err)
	apiErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Teacher already busy at this time", apiErr.Message)
	assert.Equal(t, []string{"TEACHER"}, metrics.conflicts)
}

func TestTimetableServiceUpdateMergesFields(t *testing.T) {
	repo := &mockTimetableRepo{entries: map[int64]models.Timetable{
		7: {ID: 7, SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"},
	}}
	svc := newTimetableServiceForTest(repo, nil, nil)

	slotID := int64(5)
	entry, err := svc.Update(context.Background(), 7, UpdateTimetableRequest{SlotID: &slotID})
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.SlotID)
	assert.Equal(t, int64(2), entry.SectionID)
	assert.Equal(t, "R-101", entry.RoomNo)
	require.NotNil(t, repo.updated)
}

func TestTimetableServiceUpdateChecksOnlyProvidedReferences(t *testing.T) {
	// Entry 7 references section 50 which no longer resolves; moving only its
	// slot must not re-validate the untouched section.
	repo := &mockTimetableRepo{entries: map[int64]models.Timetable{
		7: {ID: 7, SectionID: 50, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"},
	}}
	svc := newTimetableServiceForTest(repo, nil, nil)

	slotID := int64(5)
	_, err := svc.Update(context.Background(), 7, UpdateTimetableRequest{SlotID: &slotID})
	require.NoError(t, err)
}

func TestTimetableServiceUpdateNoFields(t *testing.T) {
	svc := newTimetableServiceForTest(&mockTimetableRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), 7, UpdateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestTimetableServiceUpdateNotFound(t *testing.T) {
	svc := newTimetableServiceForTest(&mockTimetableRepo{}, nil, nil)

	room := "R-202"
	_, err := svc.Update(context.Background(), 404, UpdateTimetableRequest{RoomNo: &room})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestTimetableServiceDelete(t *testing.T) {
	repo := &mockTimetableRepo{entries: map[int64]models.Timetable{7: {ID: 7}}}
	cache := &mockTimetableCache{populated: true}
	svc := newTimetableServiceForTest(repo, cache, nil)

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, []int64{7}, repo.deleted)
	assert.Contains(t, cache.invalidated, "timetable:full")

	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestTimetableServiceListBySectionOrdering(t *testing.T) {
	repo := &mockTimetableRepo{rows: []dto.TimetableRow{
		{TimetableID: 1, DayOfWeek: "WEDNESDAY", StartTime: "09:00", SectionName: "CS-A"},
		{TimetableID: 2, DayOfWeek: "MONDAY", StartTime: "11:00", SectionName: "CS-A"},
		{TimetableID: 3, DayOfWeek: "MONDAY", StartTime: "09:00", SectionName: "CS-A"},
		{TimetableID: 4, DayOfWeek: "SUNDAY", StartTime: "09:00", SectionName: "CS-A"},
	}}
	svc := newTimetableServiceForTest(repo, nil, nil)

	rows, err := svc.ListBySection(context.Background(), 2)
	require.NoError(t, err)
	got := make([]int64, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.TimetableID)
	}
	assert.Equal(t, []int64{3, 2, 1, 4}, got)
}

func TestTimetableServiceGetFullUsesCache(t *testing.T) {
	repo := &mockTimetableRepo{rows: []dto.TimetableRow{
		{TimetableID: 1, DayOfWeek: "MONDAY", StartTime: "09:00"},
	}}
	cache := &mockTimetableCache{}
	metrics := &mockScheduleObserver{}
	svc := newTimetableServiceForTest(repo, cache, metrics)

	first, err := svc.GetFull(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, metrics.misses)

	second, err := svc.GetFull(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, metrics.hits)
}

func TestTimetableServiceGetFullDisabledCacheRecordsNoMiss(t *testing.T) {
	repo := &mockTimetableRepo{rows: []dto.TimetableRow{
		{TimetableID: 1, DayOfWeek: "MONDAY", StartTime: "09:00"},
	}}
	cache := &mockTimetableCache{getErr: appErrors.ErrCacheDisabled}
	metrics := &mockScheduleObserver{}
	svc := newTimetableServiceForTest(repo, cache, metrics)

	rows, err := svc.GetFull(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 0, metrics.misses)
	assert.Equal(t, 0, metrics.hits)
}
