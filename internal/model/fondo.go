package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MovimientoIngreso = "INGRESO"
	MovimientoEgreso  = "EGRESO"
)

// MovimientoFondo is one row of the cash fund ledger. Saldo stores the
// running balance after applying this movement; the bigserial ID gives the
// replay order, so deleting a row means rewriting the saldo of every later
// row.
type MovimientoFondo struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Fecha     time.Time       `gorm:"type:date;not null;index"`
	Tipo      string          `gorm:"type:varchar(10);not null"`
	Concepto  string          `gorm:"not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (MovimientoFondo) TableName() string { return "fondo" }
