package dto

import "github.com/shopspring/decimal"

type CrearMovimientoFondoRequest struct {
	Tipo     string          `json:"tipo"     validate:"required,oneof=INGRESO EGRESO"`
	Concepto string          `json:"concepto" validate:"required,min=3,max=200"`
	Monto    decimal.Decimal `json:"monto"    validate:"required"`
	Fecha    string          `json:"fecha"    validate:"omitempty,datetime=2006-01-02"`
}

type MovimientoFondoResponse struct {
	ID       int64           `json:"id"`
	Fecha    string          `json:"fecha"`
	Tipo     string          `json:"tipo"`
	Concepto string          `json:"concepto"`
	Monto    decimal.Decimal `json:"monto"`
	Saldo    decimal.Decimal `json:"saldo"`
}

type SaldoFondoResponse struct {
	Saldo decimal.Decimal `json:"saldo"`
}
