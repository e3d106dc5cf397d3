package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formula is one ingredient line of a product recipe. Porcentaje is a
// consumption rate: producing Q units consumes Porcentaje/100 * Q of the
// material. Rates are not required to sum to 100 across a product.
type Formula struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_formula_producto_mp"`
	MateriaPrimaID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_formula_producto_mp"`
	Porcentaje     decimal.Decimal `gorm:"type:decimal(8,3);not null"`

	MateriaPrima *MateriaPrima `gorm:"foreignKey:MateriaPrimaID"`
}

func (Formula) TableName() string { return "formulas" }
