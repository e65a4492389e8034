package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crmdash/student-crm-api/internal/middleware"
	"github.com/crmdash/student-crm-api/internal/service"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/response"
)

// ReminderHandler exposes reminder endpoints.
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler constructs ReminderHandler.
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// List godoc
// @Summary List reminders
// @Tags Reminders
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.reminders.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reminders, nil)
}

// Upcoming godoc
// @Summary List pending reminders due in the next seven days
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders/upcoming [get]
func (h *ReminderHandler) Upcoming(c *gin.Context) {
	reminders, err := h.reminders.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reminders, nil)
}

// Create godoc
// @Summary Create a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param payload body service.ReminderRequest true "Reminder payload"
// @Success 201 {object} response.Envelope
// @Router /reminders [post]
func (h *ReminderHandler) Create(c *gin.Context) {
	var req service.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reminder, err := h.reminders.Create(c.Request.Context(), req, middleware.Principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reminder)
}

// Complete godoc
// @Summary Mark a reminder done
// @Tags Reminders
// @Param id path string true "Reminder ID"
// @Success 204
// @Router /reminders/{id}/complete [post]
func (h *ReminderHandler) Complete(c *gin.Context) {
	if err := h.reminders.Complete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a reminder
// @Tags Reminders
// @Param id path string true "Reminder ID"
// @Success 204
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *gin.Context) {
	if err := h.reminders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
