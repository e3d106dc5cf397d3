package repository

import (
	"context"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProduccionRepository interface {
	// UpsertMergeTx inserts a production row or, when a row for the same
	// (fecha, producto) already exists, adds cantidad and costo onto it in a
	// single atomic statement. Two same-day registrations never leave two rows.
	UpsertMergeTx(tx *gorm.DB, p *model.Produccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produccion, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Produccion, error)
	UpdateCantidadCostoTx(tx *gorm.DB, id uuid.UUID, cantidad, costo decimal.Decimal) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	ListByRango(ctx context.Context, desde, hasta time.Time) ([]model.Produccion, error)

	DB() *gorm.DB
}

type produccionRepo struct{ db *gorm.DB }

func NewProduccionRepository(db *gorm.DB) ProduccionRepository {
	return &produccionRepo{db: db}
}

func (r *produccionRepo) UpsertMergeTx(tx *gorm.DB, p *model.Produccion) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fecha"}, {Name: "producto_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cantidad":   gorm.Expr("produccion.cantidad + excluded.cantidad"),
			"costo":      gorm.Expr("produccion.costo + excluded.costo"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(p).Error
}

func (r *produccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produccion, error) {
	var p model.Produccion
	err := r.db.WithContext(ctx).Preload("Producto").First(&p, id).Error
	return &p, err
}

func (r *produccionRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Produccion, error) {
	var p model.Produccion
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *produccionRepo) UpdateCantidadCostoTx(tx *gorm.DB, id uuid.UUID, cantidad, costo decimal.Decimal) error {
	return tx.Model(&model.Produccion{}).Where("id = ?", id).
		Updates(map[string]interface{}{"cantidad": cantidad, "costo": costo}).Error
}

func (r *produccionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Produccion{}, id).Error
}

func (r *produccionRepo) ListByRango(ctx context.Context, desde, hasta time.Time) ([]model.Produccion, error) {
	var registros []model.Produccion
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("fecha BETWEEN ? AND ?", desde, hasta).
		Order("fecha DESC").
		Find(&registros).Error
	return registros, err
}

func (r *produccionRepo) DB() *gorm.DB { return r.db }
