package repository

import (
	"context"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PresentacionRepository interface {
	Create(ctx context.Context, p *model.Presentacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error)
	Update(ctx context.Context, p *model.Presentacion) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// SetPrecioManual with nil clears the override back to derived pricing.
	SetPrecioManual(ctx context.Context, id uuid.UUID, precio *decimal.Decimal) error
}

type presentacionRepo struct{ db *gorm.DB }

func NewPresentacionRepository(db *gorm.DB) PresentacionRepository {
	return &presentacionRepo{db: db}
}

func (r *presentacionRepo) Create(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *presentacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error) {
	var p model.Presentacion
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *presentacionRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var pres []model.Presentacion
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND activo = true", productoID).
		Order("factor ASC").
		Find(&pres).Error
	return pres, err
}

func (r *presentacionRepo) Update(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *presentacionRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Presentacion{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *presentacionRepo) SetPrecioManual(ctx context.Context, id uuid.UUID, precio *decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Presentacion{}).Where("id = ?", id).
		Update("precio_manual", precio).Error
}
