package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	createResp *models.Timetable
	createErr  error
	updateResp *models.Timetable
	updateErr  error
	deleteErr  error
	rows       []dto.TimetableRow
	lastCreate service.CreateTimetableRequest
	lastUpdate service.UpdateTimetableRequest
	lastID     int64
}

func (m *timetableServiceMock) Create(ctx context.Context, req service.CreateTimetableRequest) (*models.Timetable, error) {
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *timetableServiceMock) Update(ctx context.Context, id int64, req service.UpdateTimetableRequest) (*models.Timetable, error) {
	m.lastID = id
	m.lastUpdate = req
	return m.updateResp, m.updateErr
}

func (m *timetableServiceMock) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.deleteErr
}

func (m *timetableServiceMock) ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error) {
	m.lastID = sectionID
	return m.rows, nil
}

func (m *timetableServiceMock) GetFull(ctx context.Context) ([]dto.TimetableRow, error) {
	return m.rows, nil
}

func scheduleConflict(dimension models.ConflictDimension, message string) error {
	domainErr := &models.TimetableConflictError{Dimension: dimension, Message: message}
	return appErrors.Wrap(domainErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, message)
}

func TestTimetableHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{createResp: &models.Timetable{ID: 7, SectionID: 2, SubjectTeacherID: 3, SlotID: 4, RoomNo: "R-101"}}
	handler := NewTimetableHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"section_id":2,"subject_teacher_id":3,"slot_id":4,"room_no":"R-101"}`
	req, _ := http.NewRequest(http.MethodPost, "/timetable", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), mockSvc.lastCreate.SectionID)
}

func TestTimetableHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{
		createErr: scheduleConflict(models.ConflictTeacher, "Teacher already busy at this time"),
	}
	handler := NewTimetableHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"section_id":2,"subject_teacher_id":3,"slot_id":4,"room_no":"R-101"}`
	req, _ := http.NewRequest(http.MethodPost, "/timetable", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Teacher already busy at this time", envelope.Error.Message)
	assert.Equal(t, "SCHEDULE_CONFLICT", envelope.Error.Code)
}

func TestTimetableHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable", bytes.NewBufferString(`{"section_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{updateErr: appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")}
	handler := NewTimetableHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/timetable/404", bytes.NewBufferString(`{"room_no":"R-202"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	handler.Update(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(404), mockSvc.lastID)
}

func TestTimetableHandlerUpdateBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/timetable/abc", bytes.NewBufferString(`{"room_no":"R-202"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{}
	handler := NewTimetableHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/timetable/7", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), mockSvc.lastID)
}

func TestTimetableHandlerExportSectionCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{rows: []dto.TimetableRow{
		{DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:00", SubjectName: "Algorithms", TeacherName: "Dr. Rao", SectionName: "CS-A", RoomNo: "R-101"},
	}}
	handler := NewTimetableHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/section/2/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "sectionId", Value: "2"}}

	handler.ExportSection(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "section-2-schedule.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Day,Start,End,Subject,Teacher,Section,Room", lines[0])
	assert.Contains(t, lines[1], "Algorithms")
}

func TestTimetableHandlerExportSectionBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/section/2/export?format=xlsx", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "sectionId", Value: "2"}}

	handler.ExportSection(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
