package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/service"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/response"
)

// ImportExportHandler exposes the bulk import and export endpoints.
type ImportExportHandler struct {
	importer *service.ImportService
	exporter *service.ExportService
}

// NewImportExportHandler constructs ImportExportHandler.
func NewImportExportHandler(importer *service.ImportService, exporter *service.ExportService) *ImportExportHandler {
	return &ImportExportHandler{importer: importer, exporter: exporter}
}

// Import godoc
// @Summary Bulk import students
// @Tags Bulk
// @Accept json
// @Produce json
// @Param payload body dto.ImportRequest true "Candidates plus validate-only flag"
// @Success 200 {object} response.Envelope
// @Router /students/bulk/import [post]
func (h *ImportExportHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "request body must contain a 'students' list"))
		return
	}

	candidates := make([]service.Candidate, len(req.Students))
	for i, raw := range req.Students {
		candidates[i] = service.Candidate(raw)
	}

	result, err := h.importer.Import(c.Request.Context(), candidates, req.ValidateOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export students as a downloadable file
// @Tags Bulk
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Filters, projection and format"
// @Success 200 {file} file
// @Router /students/bulk/export [post]
func (h *ImportExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Data, file.ContentType, file.Filename)
}
