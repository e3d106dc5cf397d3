package dto

import "github.com/shopspring/decimal"

type RegistrarProduccionRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
	// Fecha defaults to today when empty.
	Fecha string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type DeshacerProduccionRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required"`
}

// ConsumoMateria reports how much of one material a production consumed
// (or an undo returned).
type ConsumoMateria struct {
	MateriaPrimaID string          `json:"materia_prima_id"`
	MateriaPrima   string          `json:"materia_prima"`
	Cantidad       decimal.Decimal `json:"cantidad"`
}

type ProduccionResponse struct {
	ID         string           `json:"id"`
	ProductoID string           `json:"producto_id"`
	Producto   string           `json:"producto"`
	Fecha      string           `json:"fecha"`
	Cantidad   decimal.Decimal  `json:"cantidad"`
	Costo      decimal.Decimal  `json:"costo"`
	Consumos   []ConsumoMateria `json:"consumos"`
}

type DeshacerProduccionResponse struct {
	ID string `json:"id"`
	// Eliminado reports a full reversal: the production row no longer exists.
	Eliminado         bool             `json:"eliminado"`
	CantidadRestante  decimal.Decimal  `json:"cantidad_restante"`
	CostoRestante     decimal.Decimal  `json:"costo_restante"`
	MateriasDevueltas []ConsumoMateria `json:"materias_devueltas"`
}
