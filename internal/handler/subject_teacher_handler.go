package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

// SubjectTeacherHandler manages subject-teacher assignment endpoints.
type SubjectTeacherHandler struct {
	service *service.SubjectTeacherService
}

// NewSubjectTeacherHandler constructs handler.
func NewSubjectTeacherHandler(svc *service.SubjectTeacherService) *SubjectTeacherHandler {
	return &SubjectTeacherHandler{service: svc}
}

// List returns assignments joined with subject and teacher names. Both the
// plain and the -full route serve this denormalized view.
func (h *SubjectTeacherHandler) List(c *gin.Context) {
	assignments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}

// Create links a teacher to a subject.
func (h *SubjectTeacherHandler) Create(c *gin.Context) {
	var req service.CreateSubjectTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}
