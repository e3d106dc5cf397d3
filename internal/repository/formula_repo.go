package repository

import (
	"context"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormulaRepository interface {
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Formula, error)
	// ListByProductoTx re-reads the recipe inside a transaction so production
	// costing works against the same snapshot it will debit.
	ListByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Formula, error)
	// Replace swaps the whole recipe atomically: the original edits recipes as
	// a unit, never row by row.
	Replace(ctx context.Context, productoID uuid.UUID, filas []model.Formula) error
	// ListProductoIDsPorMateria returns every product whose recipe uses the
	// material, so price recalculation can fan out after a cost change.
	ListProductoIDsPorMateria(ctx context.Context, materiaPrimaID uuid.UUID) ([]uuid.UUID, error)
}

type formulaRepo struct{ db *gorm.DB }

func NewFormulaRepository(db *gorm.DB) FormulaRepository { return &formulaRepo{db: db} }

func (r *formulaRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Formula, error) {
	var filas []model.Formula
	err := r.db.WithContext(ctx).
		Preload("MateriaPrima").
		Where("producto_id = ?", productoID).
		Find(&filas).Error
	return filas, err
}

func (r *formulaRepo) ListByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Formula, error) {
	var filas []model.Formula
	err := tx.Preload("MateriaPrima").
		Where("producto_id = ?", productoID).
		Find(&filas).Error
	return filas, err
}

func (r *formulaRepo) ListProductoIDsPorMateria(ctx context.Context, materiaPrimaID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Formula{}).
		Distinct("producto_id").
		Where("materia_prima_id = ?", materiaPrimaID).
		Pluck("producto_id", &ids).Error
	return ids, err
}

func (r *formulaRepo) Replace(ctx context.Context, productoID uuid.UUID, filas []model.Formula) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productoID).Delete(&model.Formula{}).Error; err != nil {
			return err
		}
		if len(filas) == 0 {
			return nil
		}
		return tx.Create(&filas).Error
	})
}
