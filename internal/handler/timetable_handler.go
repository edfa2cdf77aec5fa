package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/export"
	"github.com/campuskit/timetable-api/pkg/response"
)

var scheduleExportHeaders = []string{
	"Day", "Start", "End", "Subject", "Teacher", "Section", "Room",
}

type timetableScheduler interface {
	Create(ctx context.Context, req service.CreateTimetableRequest) (*models.Timetable, error)
	Update(ctx context.Context, id int64, req service.UpdateTimetableRequest) (*models.Timetable, error)
	Delete(ctx context.Context, id int64) error
	ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error)
	GetFull(ctx context.Context) ([]dto.TimetableRow, error)
}

// TimetableHandler manages the assignment ledger endpoints.
type TimetableHandler struct {
	service timetableScheduler
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc timetableScheduler) *TimetableHandler {
	return &TimetableHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Create godoc
// @Summary Schedule a class into a slot
// @Description Inserts a ledger entry; double-booking a teacher, room, or section in the same slot is rejected with 400.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Reschedule or move an existing entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path int true "Timetable ID"
// @Param payload body service.UpdateTimetableRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Delete godoc
// @Summary Remove a ledger entry
// @Tags Timetable
// @Produce json
// @Param id path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, map[string]string{"message": "Timetable entry deleted"})
}

// ListBySection godoc
// @Summary Section schedule in calendar order
// @Tags Timetable
// @Produce json
// @Param sectionId path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/section/{sectionId} [get]
func (h *TimetableHandler) ListBySection(c *gin.Context) {
	sectionID, ok := pathID(c, "sectionId")
	if !ok {
		return
	}
	rows, err := h.service.ListBySection(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Full godoc
// @Summary Entire timetable, denormalized
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/full [get]
func (h *TimetableHandler) Full(c *gin.Context) {
	rows, err := h.service.GetFull(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// ExportSection godoc
// @Summary Download a section schedule as CSV or PDF
// @Tags Timetable
// @Produce octet-stream
// @Param sectionId path int true "Section ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /timetable/section/{sectionId}/export [get]
func (h *TimetableHandler) ExportSection(c *gin.Context) {
	sectionID, ok := pathID(c, "sectionId")
	if !ok {
		return
	}
	rows, err := h.service.ListBySection(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	data := scheduleDataset(rows)
	format := c.DefaultQuery("format", "csv")
	filename := "section-" + strconv.FormatInt(sectionID, 10) + "-schedule"

	switch format {
	case "csv":
		body, err := h.csv.Render(data)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", body)
	case "pdf":
		title := "Section Schedule"
		if len(rows) > 0 {
			title = rows[0].SectionName + " Schedule"
		}
		body, err := h.pdf.Render(data, title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", body)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func scheduleDataset(rows []dto.TimetableRow) export.Dataset {
	data := export.Dataset{Headers: scheduleExportHeaders}
	for _, row := range rows {
		data.Rows = append(data.Rows, []string{
			row.DayOfWeek,
			row.StartTime,
			row.EndTime,
			row.SubjectName,
			row.TeacherName,
			row.SectionName,
			row.RoomNo,
		})
	}
	return data
}
