package dto

import "github.com/shopspring/decimal"

// DesgloseCosto is one ingredient's contribution to a product's unit cost.
type DesgloseCosto struct {
	MateriaPrima  string          `json:"materia_prima"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Contribucion  decimal.Decimal `json:"contribucion"`
}

type CostoUnitarioResponse struct {
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Desglose      []DesgloseCosto `json:"desglose"`
}

// PrecioPresentacionResponse tags where the price came from: "manual" when an
// override is set on the presentation, "automatico" when derived from the
// base price, factor and container cost.
type PrecioPresentacionResponse struct {
	ProductoID     string          `json:"producto_id"`
	PresentacionID string          `json:"presentacion_id"`
	Presentacion   string          `json:"presentacion"`
	Precio         decimal.Decimal `json:"precio"`
	Origen         string          `json:"origen"` // manual | automatico
	PrecioBase     decimal.Decimal `json:"precio_base"`
	Factor         decimal.Decimal `json:"factor"`
	CostoEnvase    decimal.Decimal `json:"costo_envase"`
}
