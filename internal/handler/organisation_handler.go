package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/timetable-api/internal/service"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
	"github.com/campuskit/timetable-api/pkg/response"
)

// OrganisationHandler manages organisation endpoints.
type OrganisationHandler struct {
	service *service.OrganisationService
}

// NewOrganisationHandler constructs handler.
func NewOrganisationHandler(svc *service.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{service: svc}
}

// List godoc
// @Summary List organisations
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /organisations [get]
func (h *OrganisationHandler) List(c *gin.Context) {
	orgs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orgs)
}

// Create godoc
// @Summary Create organisation
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateOrganisationRequest true "Organisation payload"
// @Success 201 {object} response.Envelope
// @Router /organisations [post]
func (h *OrganisationHandler) Create(c *gin.Context) {
	var req service.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	org, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, org)
}

// Delete godoc
// @Summary Delete organisation and all owned records
// @Tags Catalog
// @Produce json
// @Param id path int true "Organisation ID"
// @Success 204
// @Router /organisations/{id} [delete]
func (h *OrganisationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
