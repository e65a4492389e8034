package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/service"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/response"
)

// AnalyticsHandler exposes the analytics snapshot and report endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func analyticsOptions(c *gin.Context) (dto.AnalyticsOptions, error) {
	opts := dto.AnalyticsOptions{GroupBy: c.Query("groupBy")}
	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return opts, appErrors.Clone(appErrors.ErrValidation, "from must be formatted YYYY-MM-DD")
		}
		opts.CreatedFrom = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return opts, appErrors.Clone(appErrors.ErrValidation, "to must be formatted YYYY-MM-DD")
		}
		// Push the bound to end of day so the range stays inclusive.
		ts = ts.Add(24*time.Hour - time.Nanosecond)
		opts.CreatedTo = &ts
	}
	return opts, nil
}

// Snapshot godoc
// @Summary Compute the analytics snapshot
// @Tags Analytics
// @Produce json
// @Param from query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param to query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param groupBy query string false "Trend grouping: day, week or month"
// @Success 200 {object} response.Envelope
// @Router /students/analytics [get]
func (h *AnalyticsHandler) Snapshot(c *gin.Context) {
	opts, err := analyticsOptions(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	snapshot, err := h.analytics.Analyze(c.Request.Context(), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Report godoc
// @Summary Download the analytics summary as PDF
// @Tags Analytics
// @Produce application/pdf
// @Success 200 {file} file
// @Router /students/analytics/report [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	opts, err := analyticsOptions(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.analytics.Report(c.Request.Context(), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, payload, "application/pdf", filename)
}
