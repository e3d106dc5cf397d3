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

type MateriaPrimaRepository interface {
	Create(ctx context.Context, mp *model.MateriaPrima) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MateriaPrima, error)
	FindByNombre(ctx context.Context, nombre string) (*model.MateriaPrima, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.MateriaPrima, int64, error)
	Update(ctx context.Context, mp *model.MateriaPrima) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.MateriaPrima, error)
	// FindAllForUpdateTx locks the given rows in a stable order so concurrent
	// operations that touch overlapping materials cannot deadlock each other.
	FindAllForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.MateriaPrima, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	DB() *gorm.DB
}

type materiaPrimaRepo struct{ db *gorm.DB }

func NewMateriaPrimaRepository(db *gorm.DB) MateriaPrimaRepository {
	return &materiaPrimaRepo{db: db}
}

func (r *materiaPrimaRepo) Create(ctx context.Context, mp *model.MateriaPrima) error {
	return r.db.WithContext(ctx).Create(mp).Error
}

func (r *materiaPrimaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MateriaPrima, error) {
	var mp model.MateriaPrima
	err := r.db.WithContext(ctx).First(&mp, id).Error
	return &mp, err
}

func (r *materiaPrimaRepo) FindByNombre(ctx context.Context, nombre string) (*model.MateriaPrima, error) {
	var mp model.MateriaPrima
	err := r.db.WithContext(ctx).Where("nombre = ? AND activo = true", nombre).First(&mp).Error
	return &mp, err
}

func (r *materiaPrimaRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.MateriaPrima, int64, error) {
	var materias []model.MateriaPrima
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MateriaPrima{})

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
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&materias).Error
	return materias, total, err
}

func (r *materiaPrimaRepo) Update(ctx context.Context, mp *model.MateriaPrima) error {
	return r.db.WithContext(ctx).Save(mp).Error
}

func (r *materiaPrimaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MateriaPrima{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *materiaPrimaRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MateriaPrima{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *materiaPrimaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.MateriaPrima, error) {
	var mp model.MateriaPrima
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&mp, id).Error
	return &mp, err
}

func (r *materiaPrimaRepo) FindAllForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.MateriaPrima, error) {
	var materias []model.MateriaPrima
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&materias).Error
	return materias, err
}

func (r *materiaPrimaRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.MateriaPrima{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *materiaPrimaRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.MateriaPrima{}).Where("id = ?", id).
		Updates(map[string]interface{}{"costo_unitario": costo, "moneda": "MXN"}).Error
}

func (r *materiaPrimaRepo) DB() *gorm.DB { return r.db }
