package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produccion accumulates one row per product per calendar day. Registering a
// second batch the same day merges into the existing row (quantity and cost
// are added), so Cantidad and Costo reflect the whole day's output.
type Produccion struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_produccion_fecha_producto"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_produccion_fecha_producto"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Costo      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Produccion) TableName() string { return "produccion" }
