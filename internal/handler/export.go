package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"expense-ledger/internal/export"
	"expense-ledger/internal/service"
	"expense-ledger/internal/store"

	"github.com/gin-gonic/gin"
)

// ExportHandler streams the caller's expense history as a file.
type ExportHandler struct {
	ledger *service.LedgerService
}

func NewExportHandler(ledger *service.LedgerService) *ExportHandler {
	return &ExportHandler{ledger: ledger}
}

// ExportCSV exports expenses as CSV, optionally for ?account=.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.serve(c, "csv", export.ContentTypeCSV, func(buf *bytes.Buffer, _ string, records []store.ExpenseRecord) error {
		return export.WriteCSV(buf, records)
	})
}

// ExportXLSX exports expenses as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.serve(c, "xlsx", export.ContentTypeXLSX, func(buf *bytes.Buffer, _ string, records []store.ExpenseRecord) error {
		return export.WriteXLSX(buf, records)
	})
}

// ExportPDF exports expenses as a printable report.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.serve(c, "pdf", export.ContentTypePDF, func(buf *bytes.Buffer, title string, records []store.ExpenseRecord) error {
		return export.WritePDF(buf, title, records)
	})
}

// serve renders into a buffer first so a rendering failure can still become a JSON error.
func (h *ExportHandler) serve(c *gin.Context, ext, contentType string,
	render func(buf *bytes.Buffer, title string, records []store.ExpenseRecord) error) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account := strings.TrimSpace(c.Query("account"))
	records, err := h.ledger.ExpenseHistory(c.Request.Context(), user.ID, account)
	if err != nil {
		writeError(c, err)
		return
	}

	title := fmt.Sprintf("Payment history of %s", user.Username)
	if account != "" {
		title = fmt.Sprintf("%s payment history", account)
	}

	var buf bytes.Buffer
	if err := render(&buf, title, records); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(ext, time.Now())))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
