package dto

import "github.com/shopspring/decimal"

type ActualizarTipoCambioRequest struct {
	Tasa decimal.Decimal `json:"tasa" validate:"required"`
}

type TipoCambioResponse struct {
	Tasa          decimal.Decimal `json:"tasa"`
	ActualizadoEn string          `json:"actualizado_en,omitempty"`
}

// TipoCambioSugeridoResponse carries a reference rate fetched from an
// external API; it is advisory, never written automatically.
type TipoCambioSugeridoResponse struct {
	Tasa   decimal.Decimal `json:"tasa"`
	Fuente string          `json:"fuente"`
}
