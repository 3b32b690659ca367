package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
)

// ReportHandler serves the staff reporting routes: dashboard stats, the
// per-code student log, result rosters and exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetDashboardStats returns this week's numbers with deltas.
// GET /api/admin/dashboard
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.reports.GetDashboardStats()
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentLog returns the per-code view/submission log.
// GET /api/admin/codes/:id/log
func (h *ReportHandler) GetStudentLog(c *gin.Context) {
	codeID := c.MustGet("codeID").(uint)

	rows, err := h.reports.GetStudentLog(codeID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": rows})
}

// GetCodeResults returns the submissions roster for a code.
// GET /api/admin/codes/:id/results
func (h *ReportHandler) GetCodeResults(c *gin.Context) {
	codeID := c.MustGet("codeID").(uint)

	results, err := h.reports.GetCodeResults(codeID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetSubmissionDetail returns one submission's per-question breakdown.
// GET /api/admin/submissions/:id
func (h *ReportHandler) GetSubmissionDetail(c *gin.Context) {
	submissionID := c.MustGet("submissionID").(uint)

	detail, err := h.reports.GetSubmissionDetail(submissionID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ExportCodeResults streams the roster as a CSV or XLSX download.
// GET /api/admin/codes/:id/results/export?format=csv|xlsx
func (h *ReportHandler) ExportCodeResults(c *gin.Context) {
	codeID := c.MustGet("codeID").(uint)
	format := c.DefaultQuery("format", "csv")

	results, err := h.reports.GetCodeResults(codeID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	filename := fmt.Sprintf("code_%s_results_%s", results.Code, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

var exportHeaders = []string{"Full Name", "Section", "Score", "Total Items", "Percentage", "Submitted At"}

// exportCSV writes the roster with proper escaping of commas/quotes.
func (h *ReportHandler) exportCSV(c *gin.Context, results *service.CodeResults, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM so Excel detects UTF-8.
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, row := range results.Rows {
		writer.Write([]string{
			sanitizeForExcel(row.FullName),
			sanitizeForExcel(row.Section),
			strconv.Itoa(row.Score),
			strconv.Itoa(row.TotalItems),
			fmt.Sprintf("%.2f", row.Percentage),
			row.SubmittedAt.Format(time.RFC3339),
		})
	}
}

// exportXLSX streams the roster through excelize's StreamWriter.
func (h *ReportHandler) exportXLSX(c *gin.Context, results *service.CodeResults, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ReportHandler] failed to create StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ReportHandler] failed to write headers: %v", err)
	}

	for i, row := range results.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			sanitizeForExcel(row.FullName),
			sanitizeForExcel(row.Section),
			row.Score,
			row.TotalItems,
			row.Percentage,
			row.SubmittedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, values); err != nil {
			log.Printf("[ReportHandler] failed to write row %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ReportHandler] StreamWriter flush failed: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ReportHandler] failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel guards exported cells against formula injection.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ReportHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
