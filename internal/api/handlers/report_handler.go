package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medstock/backend-go/internal/report"
)

type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate builds the stock-health workbook and streams it back. When object
// storage is configured the report is archived as a side effect; the response
// headers carry the outcome.
func (h *ReportHandler) Generate(c *gin.Context) {
	result, data, err := h.reports.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Header("X-Report-Records", strconv.Itoa(result.RecordCount))
	if result.Archived {
		c.Header("X-Report-Object-Key", result.ObjectKey)
	}
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListArchived lists reports previously uploaded to object storage.
func (h *ReportHandler) ListArchived(c *gin.Context) {
	objects, err := h.reports.ListArchived(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": objects, "total": len(objects)})
}
