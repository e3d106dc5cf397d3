package infra

// pdf.go — weekly cutover report rendered with go-pdf/fpdf.
// One A4 page (or more) with the archived week's sales: item table, totals
// per catalog type, grand total. Written to storagePath/corte_{inicio}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCorteSemanalPDF renders the archived sales of one week into a PDF
// summary and returns the absolute path of the generated file.
func GenerateCorteSemanalPDF(ventas []model.VentaArchivada, semanaInicio, semanaFin string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("corte_%s.pdf", semanaInicio)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "POSQuimo", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Corte semanal de ventas", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Semana del %s al %s", semanaInicio, semanaFin), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.14 // fecha
	col2 := contentW * 0.40 // item
	col3 := contentW * 0.14 // tipo
	col4 := contentW * 0.12 // cantidad
	col5 := contentW * 0.20 // total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Articulo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Tipo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "Cant", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Total", "B", 1, "R", false, 0, "")

	// ── Rows + per-type accumulation ─────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	totalGeneral := decimal.Zero
	porTipo := map[string]decimal.Decimal{}
	for _, v := range ventas {
		nombre := v.NombreItem
		if len(nombre) > 45 {
			nombre = nombre[:44] + "…"
		}
		pdf.CellFormat(col1, 5, v.Fecha.Format("02/01"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, v.TipoItem, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, v.Cantidad.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")
		totalGeneral = totalGeneral.Add(v.Total)
		porTipo[v.TipoItem] = porTipo[v.TipoItem].Add(v.Total)
	}

	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, tipo := range []string{model.TipoItemProducto, model.TipoItemReventa, model.TipoItemMateriaPrima} {
		monto, ok := porTipo[tipo]
		if !ok {
			continue
		}
		pdf.CellFormat(col1+col2+col3+col4, 6, "Subtotal "+tipo+":", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "$"+monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3+col4, 8, "TOTAL SEMANA:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, "$"+totalGeneral.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d lineas de venta archivadas", len(ventas)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
