package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoReventa is bought-and-resold merchandise. No formula, no derived
// cost: purchase and sale prices are both set directly.
type ProductoReventa struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	UnidadMedida string    `gorm:"not null;default:'pz'"`
	Proveedor    *string
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductoReventa) TableName() string { return "productosreventa" }
