package handler

import (
	"encoding/csv"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/auth"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Nome", "CNPJ", "Email", "Telefone", "Status", "Cadastrado em"}

type ExportHandler struct {
	Auth *auth.Service
}

func NewExportHandler(svc *auth.Service) *ExportHandler {
	return &ExportHandler{Auth: svc}
}

// sheetCell turns a stored value into plain text for CSV/XLSX. Stored free
// text is entity-encoded for HTML, and a leading = + - @ (or tab/CR) would be
// read as a formula, so those get a quote prefix.
func sheetCell(v string) string {
	v = html.UnescapeString(v)
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func exportRow(s models.Sindicato) []string {
	return []string{
		sheetCell(s.Nome),
		util.FormatCNPJ(s.CNPJ),
		sheetCell(s.Email),
		sheetCell(s.Fone),
		s.Status,
		s.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// ExportCSV streams the registry as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	list := h.Auth.GetSindicatos()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sindicatos_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet tools pick the right encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeaders)
	for _, s := range list {
		_ = w.Write(exportRow(s))
	}
	w.Flush()
}

// ExportXLSX writes the registry as a workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	list := h.Auth.GetSindicatos()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sindicatos"
	index, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha ao criar planilha")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for r, s := range list {
		for i, v := range exportRow(s) {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "C", 30)
	_ = f.SetColWidth(sheet, "D", "F", 16)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sindicatos_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Falha na exportação")
	}
}
