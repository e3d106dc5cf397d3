package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item type discriminator for sale lines. Sales can draw from the
// manufactured catalog, the resale catalog, or raw materials sold directly.
const (
	TipoItemProducto     = "producto"
	TipoItemReventa      = "reventa"
	TipoItemMateriaPrima = "materia_prima"
)

// Venta is one line of a ticket in the active (current week) sales table.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha          time.Time       `gorm:"type:date;not null;index"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid;index"`
	TipoItem       string          `gorm:"type:varchar(20);not null"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null"`
	NombreItem     string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaArchivada is a sale line moved out of the active table by the weekly
// cutover, tagged with the week window it belonged to.
type VentaArchivada struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha          time.Time       `gorm:"type:date;not null;index"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid"`
	TipoItem       string          `gorm:"type:varchar(20);not null"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null"`
	NombreItem     string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SemanaInicio   time.Time       `gorm:"type:date;not null;index"`
	SemanaFin      time.Time       `gorm:"type:date;not null"`
	ArchivadaEn    time.Time       `gorm:"autoCreateTime"`
}

func (VentaArchivada) TableName() string { return "ventas_archivadas" }
