package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaVentaRequest is one ticket line. TipoItem selects the catalog the item
// comes from. PresentacionID applies only to manufactured products; when set,
// stock is debited cantidad * factor and the presentation price applies.
// PrecioUnitario overrides the resolved price when present (counter discounts).
type LineaVentaRequest struct {
	TipoItem       string           `json:"tipo_item"       validate:"required,oneof=producto reventa materia_prima"`
	ItemID         string           `json:"item_id"         validate:"required,uuid"`
	PresentacionID *string          `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       decimal.Decimal  `json:"cantidad"        validate:"required"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

type ProcesarVentaRequest struct {
	ClienteID *string             `json:"cliente_id" validate:"omitempty,uuid"`
	Fecha     string              `json:"fecha"      validate:"omitempty,datetime=2006-01-02"`
	Lineas    []LineaVentaRequest `json:"lineas"     validate:"required,min=1,dive"`
}

type CorteSemanalRequest struct {
	SemanaInicio string `json:"semana_inicio" validate:"required,datetime=2006-01-02"`
	SemanaFin    string `json:"semana_fin"    validate:"required,datetime=2006-01-02"`
	// EnviarReporte queues the PDF summary for generation and email.
	EnviarReporte bool `json:"enviar_reporte"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaVentaResponse struct {
	TipoItem       string          `json:"tipo_item"`
	ItemID         string          `json:"item_id"`
	NombreItem     string          `json:"nombre_item"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
}

type VentaResponse struct {
	Fecha             string               `json:"fecha"`
	ClienteID         *string              `json:"cliente_id"`
	Lineas            []LineaVentaResponse `json:"lineas"`
	Total             decimal.Decimal      `json:"total"`
	MovimientoFondoID int64                `json:"movimiento_fondo_id"`
}

type VentaListItem struct {
	ID             string          `json:"id"`
	Fecha          string          `json:"fecha"`
	Cliente        *string         `json:"cliente"`
	TipoItem       string          `json:"tipo_item"`
	NombreItem     string          `json:"nombre_item"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
}

type CorteSemanalResponse struct {
	SemanaInicio      string          `json:"semana_inicio"`
	SemanaFin         string          `json:"semana_fin"`
	VentasArchivadas  int64           `json:"ventas_archivadas"`
	TotalArchivado    decimal.Decimal `json:"total_archivado"`
	ReporteEncolado   bool            `json:"reporte_encolado"`
}
