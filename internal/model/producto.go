package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a manufactured product. Its unit cost is derived from the
// formula rows that reference it; PrecioVenta caches cost plus margin and is
// refreshed whenever the formula or a raw material cost changes.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"uniqueIndex;not null"`
	UnidadMedida string          `gorm:"not null;default:'L'"`
	Area         string          `gorm:"not null;default:'QUIMO'"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Formulas       []Formula      `gorm:"foreignKey:ProductoID"`
	Presentaciones []Presentacion `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }
