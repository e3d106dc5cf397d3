package repository

import (
	"context"

	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductoReventaRepository interface {
	Create(ctx context.Context, p *model.ProductoReventa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoReventa, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoReventa, int64, error)
	Update(ctx context.Context, p *model.ProductoReventa) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoReventa, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
}

type productoReventaRepo struct{ db *gorm.DB }

func NewProductoReventaRepository(db *gorm.DB) ProductoReventaRepository {
	return &productoReventaRepo{db: db}
}

func (r *productoReventaRepo) Create(ctx context.Context, p *model.ProductoReventa) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoReventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoReventa, error) {
	var p model.ProductoReventa
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoReventaRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoReventa, int64, error) {
	var productos []model.ProductoReventa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductoReventa{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoReventaRepo) Update(ctx context.Context, p *model.ProductoReventa) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoReventaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductoReventa{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoReventaRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductoReventa{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoReventaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoReventa, error) {
	var p model.ProductoReventa
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productoReventaRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.ProductoReventa{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}
