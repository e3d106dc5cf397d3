package dto

import "github.com/shopspring/decimal"

// ─── Productos manufacturados ───────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre       string `json:"nombre"        validate:"required,min=2,max=150"`
	UnidadMedida string `json:"unidad_medida" validate:"omitempty,max=10"`
	Area         string `json:"area"          validate:"omitempty,max=50"`
}

type ActualizarProductoRequest struct {
	Nombre       string `json:"nombre"        validate:"omitempty,min=2,max=150"`
	UnidadMedida string `json:"unidad_medida" validate:"omitempty,max=10"`
	Area         string `json:"area"          validate:"omitempty,max=50"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	UnidadMedida string          `json:"unidad_medida"`
	Area         string          `json:"area"`
	Stock        decimal.Decimal `json:"stock"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Materias primas ────────────────────────────────────────────────────────

type CrearMateriaPrimaRequest struct {
	Nombre        string           `json:"nombre"         validate:"required,min=2,max=150"`
	UnidadMedida  string           `json:"unidad_medida"  validate:"omitempty,max=10"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
	Moneda        string           `json:"moneda"         validate:"omitempty,oneof=MXN USD"`
	Proveedor     *string          `json:"proveedor"      validate:"omitempty,max=150"`
}

type ActualizarMateriaPrimaRequest struct {
	Nombre        string           `json:"nombre"         validate:"omitempty,min=2,max=150"`
	UnidadMedida  string           `json:"unidad_medida"  validate:"omitempty,max=10"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
	Moneda        string           `json:"moneda"         validate:"omitempty,oneof=MXN USD"`
	Proveedor     *string          `json:"proveedor"      validate:"omitempty,max=150"`
}

type MateriaPrimaResponse struct {
	ID            string           `json:"id"`
	Nombre        string           `json:"nombre"`
	UnidadMedida  string           `json:"unidad_medida"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
	Moneda        string           `json:"moneda"`
	Stock         decimal.Decimal  `json:"stock"`
	Proveedor     *string          `json:"proveedor"`
	Activo        bool             `json:"activo"`
}

type MateriaPrimaListResponse struct {
	Data  []MateriaPrimaResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// ─── Productos de reventa ───────────────────────────────────────────────────

type CrearProductoReventaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=150"`
	UnidadMedida string          `json:"unidad_medida" validate:"omitempty,max=10"`
	Proveedor    *string         `json:"proveedor"     validate:"omitempty,max=150"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"required"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required"`
}

type ActualizarProductoReventaRequest struct {
	Nombre       string           `json:"nombre"        validate:"omitempty,min=2,max=150"`
	UnidadMedida string           `json:"unidad_medida" validate:"omitempty,max=10"`
	Proveedor    *string          `json:"proveedor"     validate:"omitempty,max=150"`
	PrecioCompra *decimal.Decimal `json:"precio_compra"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
}

type ProductoReventaResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	UnidadMedida string          `json:"unidad_medida"`
	Proveedor    *string         `json:"proveedor"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Stock        decimal.Decimal `json:"stock"`
	Activo       bool            `json:"activo"`
}

type ProductoReventaListResponse struct {
	Data  []ProductoReventaResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

// ─── Formulas ───────────────────────────────────────────────────────────────

type FormulaFilaRequest struct {
	MateriaPrimaID string          `json:"materia_prima_id" validate:"required,uuid"`
	Porcentaje     decimal.Decimal `json:"porcentaje"       validate:"required"`
}

// ReemplazarFormulaRequest swaps the full recipe of a product in one call,
// the way the original recipe editor saves.
type ReemplazarFormulaRequest struct {
	Filas []FormulaFilaRequest `json:"filas" validate:"required,dive"`
}

type FormulaFilaResponse struct {
	MateriaPrimaID string          `json:"materia_prima_id"`
	MateriaPrima   string          `json:"materia_prima"`
	Porcentaje     decimal.Decimal `json:"porcentaje"`
}

type FormulaResponse struct {
	ProductoID string                `json:"producto_id"`
	Filas      []FormulaFilaResponse `json:"filas"`
}

// ─── Presentaciones ─────────────────────────────────────────────────────────

type CrearPresentacionRequest struct {
	Nombre       string           `json:"nombre"       validate:"required,min=1,max=100"`
	Factor       decimal.Decimal  `json:"factor"       validate:"required"`
	CostoEnvase  decimal.Decimal  `json:"costo_envase"`
	PrecioManual *decimal.Decimal `json:"precio_manual"`
}

type ActualizarPresentacionRequest struct {
	Nombre      string           `json:"nombre" validate:"omitempty,min=1,max=100"`
	Factor      *decimal.Decimal `json:"factor"`
	CostoEnvase *decimal.Decimal `json:"costo_envase"`
	// PrecioManual sets the override; QuitarPrecioManual clears it back to
	// derived pricing. Setting both is rejected.
	PrecioManual       *decimal.Decimal `json:"precio_manual"`
	QuitarPrecioManual bool             `json:"quitar_precio_manual"`
}

type PresentacionResponse struct {
	ID           string           `json:"id"`
	ProductoID   string           `json:"producto_id"`
	Nombre       string           `json:"nombre"`
	Factor       decimal.Decimal  `json:"factor"`
	CostoEnvase  decimal.Decimal  `json:"costo_envase"`
	PrecioManual *decimal.Decimal `json:"precio_manual"`
	Activo       bool             `json:"activo"`
}

// ─── Clientes ───────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=150"`
	Telefono *string `json:"telefono" validate:"omitempty,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"`
	Activo   bool    `json:"activo"`
}
