package model

import "time"

// Well-known configuration keys.
const (
	ClaveTasaCambioUSD = "tasa_cambio_usd"
)

// Configuracion is a key/value row for runtime-adjustable settings, such as
// the USD to MXN exchange rate used when pricing imported raw materials.
type Configuracion struct {
	Clave     string `gorm:"primaryKey"`
	Valor     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (Configuracion) TableName() string { return "configuracion" }
