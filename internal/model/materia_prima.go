package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MateriaPrima is a purchased raw material. CostoUnitario is nullable: a
// material can be cataloged before its first purchase, and cost calculations
// fail explicitly while it stays unset.
type MateriaPrima struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string           `gorm:"uniqueIndex;not null"`
	UnidadMedida  string           `gorm:"not null;default:'KG'"`
	CostoUnitario *decimal.Decimal `gorm:"type:decimal(12,4)"`
	// Moneda is the currency the cost is stored in. Always MXN after the
	// purchase path converts; kept as a column so legacy USD rows surface.
	Moneda    string          `gorm:"type:varchar(3);not null;default:'MXN'"`
	Stock     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Proveedor *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MateriaPrima) TableName() string { return "materiasprimas" }
