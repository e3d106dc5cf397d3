package dto

import "github.com/shopspring/decimal"

// RegistrarCompraRequest records a raw material purchase: stock in, new unit
// cost, and an EGRESO in the fund ledger. USD amounts convert to MXN through
// the stored exchange rate before anything is written.
type RegistrarCompraRequest struct {
	MateriaPrimaID string          `json:"materia_prima_id" validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"         validate:"required"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"   validate:"required"`
	Moneda         string          `json:"moneda"           validate:"omitempty,oneof=MXN USD"`
	Concepto       string          `json:"concepto"         validate:"omitempty,max=200"`
}

type CompraResponse struct {
	MateriaPrimaID   string          `json:"materia_prima_id"`
	MateriaPrima     string          `json:"materia_prima"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CostoUnitarioMXN decimal.Decimal `json:"costo_unitario_mxn"`
	TotalMXN         decimal.Decimal `json:"total_mxn"`
	StockNuevo       decimal.Decimal `json:"stock_nuevo"`
	MovimientoFondo  int64           `json:"movimiento_fondo_id"`
}
