package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Presentacion is a sellable size of a product (e.g. "1 L", "Garrafa 20 L").
// PrecioManual, when set, overrides the derived price entirely; nil means the
// price follows base price * factor + container cost.
type Presentacion struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_presentacion_producto_nombre"`
	Nombre       string           `gorm:"not null;uniqueIndex:idx_presentacion_producto_nombre"`
	Factor       decimal.Decimal  `gorm:"type:decimal(10,3);not null;default:1"`
	CostoEnvase  decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	PrecioManual *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Activo       bool             `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Presentacion) TableName() string { return "presentaciones" }
