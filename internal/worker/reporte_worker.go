package worker

// reporte_worker.go
// Processes weekly cutover report jobs from QueueReporte.
// Loads the archived sales of the week, renders the PDF summary and chains
// an email job addressed to the administrator.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/infra"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReporteCorteJobPayload is the job envelope sent to QueueReporte.
type ReporteCorteJobPayload struct {
	SemanaInicio string `json:"semana_inicio"` // YYYY-MM-DD
	SemanaFin    string `json:"semana_fin"`    // YYYY-MM-DD
}

// ReporteWorker generates the weekly cutover PDF from archived sales.
type ReporteWorker struct {
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	adminEmail     string
}

func NewReporteWorker(
	ventaRepo repository.VentaRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	adminEmail string,
) *ReporteWorker {
	return &ReporteWorker{
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		adminEmail:     adminEmail,
	}
}

// Process renders the cutover report for one archived week.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteCorteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return nil // malformed payloads never succeed on retry
	}

	inicio, err := time.Parse("2006-01-02", payload.SemanaInicio)
	if err != nil {
		log.Error().Str("semana_inicio", payload.SemanaInicio).Msg("reporte_worker: invalid date")
		return nil
	}

	ventas, err := w.ventaRepo.ListArchivadas(ctx, inicio)
	if err != nil {
		return fmt.Errorf("reporte_worker: load archived sales: %w", err)
	}
	if len(ventas) == 0 {
		log.Warn().Str("semana_inicio", payload.SemanaInicio).Msg("reporte_worker: no archived sales for week")
		return nil
	}

	pdfPath, err := infra.GenerateCorteSemanalPDF(ventas, payload.SemanaInicio, payload.SemanaFin, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("reporte_worker: generate PDF: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("semana_inicio", payload.SemanaInicio).Msg("reporte_worker: PDF generated")

	if w.adminEmail == "" {
		return nil
	}
	emailJob := EmailJobPayload{
		ToEmail: w.adminEmail,
		Subject: fmt.Sprintf("Corte semanal %s a %s", payload.SemanaInicio, payload.SemanaFin),
		Body:    fmt.Sprintf("Adjunto el reporte del corte semanal del %s al %s.\nLineas archivadas: %d", payload.SemanaInicio, payload.SemanaFin, len(ventas)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Msg("reporte_worker: failed to enqueue email")
	}
	return nil
}
