package repository

import (
	"context"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfiguracionRepository interface {
	Get(ctx context.Context, clave string) (string, error)
	Set(ctx context.Context, clave, valor string) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Get(ctx context.Context, clave string) (string, error) {
	var c model.Configuracion
	err := r.db.WithContext(ctx).First(&c, "clave = ?", clave).Error
	return c.Valor, err
}

func (r *configuracionRepo) Set(ctx context.Context, clave, valor string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_at"}),
	}).Create(&model.Configuracion{Clave: clave, Valor: valor}).Error
}
