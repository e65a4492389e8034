package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crmdash/student-crm-api/internal/middleware"
	"github.com/crmdash/student-crm-api/internal/service"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/response"
)

// TimelineHandler exposes per-student timeline endpoints.
type TimelineHandler struct {
	timeline *service.TimelineService
}

// NewTimelineHandler constructs TimelineHandler.
func NewTimelineHandler(timeline *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// List godoc
// @Summary List a student's timeline
// @Tags Timeline
// @Produce json
// @Param id path string true "Student ID"
// @Param type query string false "Restrict to 'note', 'communication' or 'interaction'"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/timeline [get]
func (h *TimelineHandler) List(c *gin.Context) {
	events, err := h.timeline.List(c.Request.Context(), c.Param("id"), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// AddNote godoc
// @Summary Add a note to a student's timeline
// @Tags Timeline
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.NoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/notes [post]
func (h *TimelineHandler) AddNote(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.timeline.AddNote(c.Request.Context(), c.Param("id"), req, middleware.Principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// AddCommunication godoc
// @Summary Log a communication on a student's timeline
// @Tags Timeline
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.CommunicationRequest true "Communication payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/communications [post]
func (h *TimelineHandler) AddCommunication(c *gin.Context) {
	var req service.CommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.timeline.AddCommunication(c.Request.Context(), c.Param("id"), req, middleware.Principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// AddInteraction godoc
// @Summary Log an interaction on a student's timeline
// @Tags Timeline
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.InteractionRequest true "Interaction payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/interactions [post]
func (h *TimelineHandler) AddInteraction(c *gin.Context) {
	var req service.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.timeline.AddInteraction(c.Request.Context(), c.Param("id"), req, middleware.Principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}
