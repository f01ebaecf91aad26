package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves transaction exports.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange parses the required start_date/end_date query window.
func exportRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if startStr == "" || endStr == "" {
		BadRequest(c, "start_date and end_date are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "bad start_date, want format: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}

	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "bad end_date, want format: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	end = end.Add(24*time.Hour - time.Second)

	return start, end, true
}

func (h *ExportHandler) loadTransactions(c *gin.Context) ([]models.Transaction, bool) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return nil, false
	}

	var transactions []models.Transaction
	if err := database.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC, id ASC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return nil, false
	}

	return transactions, true
}

// ExportCSV exports transactions as CSV
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "start date (2025-01-01)"
// @Param end_date query string true "end date (2025-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	transactions, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"id", "type", "amount", "category", "description", "date"})
	for _, txn := range transactions {
		writer.Write([]string{
			fmt.Sprintf("%d", txn.ID),
			txn.Type,
			fmt.Sprintf("%.2f", txn.Amount),
			txn.Category,
			txn.Description,
			txn.Date.Format("2006-01-02"),
		})
	}
	writer.Flush()

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportJSON exports transactions as JSON
// @Summary Export transactions as JSON
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "start date (2025-01-01)"
// @Param end_date query string true "end date (2025-12-31)"
// @Success 200 {object} Response{data=[]models.Transaction} "ok"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	transactions, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	Success(c, transactions)
}

// ExportExcel exports transactions as an Excel workbook
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "start date (2025-01-01)"
// @Param end_date query string true "end date (2025-12-31)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	transactions, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"ID", "Type", "Amount", "Category", "Description", "Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A1", "F1", headerStyle)
	f.SetColWidth(sheetName, "A", "F", 16)

	for row, txn := range transactions {
		values := []interface{}{
			txn.ID,
			txn.Type,
			txn.Amount,
			txn.Category,
			txn.Description,
			txn.Date.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		InternalError(c, SafeErrorMessage(err, "building workbook failed"))
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportPDF exports transactions as a PDF statement
// @Summary Export transactions as PDF
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param start_date query string true "start date (2025-01-01)"
// @Param end_date query string true "end date (2025-12-31)"
// @Success 200 {file} file "PDF file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	transactions, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Transaction Statement")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(79, 129, 189)
	pdf.SetTextColor(255, 255, 255)
	widths := []float64{15, 20, 25, 35, 60, 25}
	headers := []string{"ID", "Type", "Amount", "Category", "Description", "Date"}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(50, 50, 50)
	var totalIncome, totalExpense float64
	for _, txn := range transactions {
		cells := []string{
			fmt.Sprintf("%d", txn.ID),
			txn.Type,
			fmt.Sprintf("%.2f", txn.Amount),
			txn.Category,
			txn.Description,
			txn.Date.Format("2006-01-02"),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		switch txn.Type {
		case models.TypeIncome:
			totalIncome += txn.Amount
		case models.TypeExpense:
			totalExpense += txn.Amount
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Income: %.2f    Expense: %.2f    Balance: %.2f",
		totalIncome, totalExpense, totalIncome-totalExpense))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		InternalError(c, SafeErrorMessage(err, "building PDF failed"))
		return
	}

	filename := fmt.Sprintf("transactions_%s.pdf", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
