package repository

import (
	"context"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	ListByRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	// ArchivarSemanaTx moves every active sale row into ventas_archivadas
	// tagged with the week window and deletes the originals. Both statements
	// run on the caller's transaction so a failure leaves the active table
	// untouched. Returns the number of rows archived.
	ArchivarSemanaTx(tx *gorm.DB, semanaInicio, semanaFin time.Time) (int64, error)
	// SumTotalTx totals the active table inside the caller's transaction,
	// used to report what a cutover is about to archive.
	SumTotalTx(tx *gorm.DB) (decimal.Decimal, error)
	ListArchivadas(ctx context.Context, semanaInicio time.Time) ([]model.VentaArchivada, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) ListByRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("fecha BETWEEN ? AND ?", desde, hasta).
		Order("created_at DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ArchivarSemanaTx(tx *gorm.DB, semanaInicio, semanaFin time.Time) (int64, error) {
	res := tx.Exec(`
		INSERT INTO ventas_archivadas
			(id, venta_id, fecha, cliente_id, tipo_item, item_id, nombre_item,
			 cantidad, precio_unitario, total, semana_inicio, semana_fin, archivada_en)
		SELECT gen_random_uuid(), id, fecha, cliente_id, tipo_item, item_id, nombre_item,
			 cantidad, precio_unitario, total, ?, ?, now()
		FROM ventas`, semanaInicio, semanaFin)
	if res.Error != nil {
		return 0, res.Error
	}
	archivadas := res.RowsAffected
	if err := tx.Exec(`DELETE FROM ventas`).Error; err != nil {
		return 0, err
	}
	return archivadas, nil
}

func (r *ventaRepo) SumTotalTx(tx *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.Venta{}).Select("SUM(total)").Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *ventaRepo) ListArchivadas(ctx context.Context, semanaInicio time.Time) ([]model.VentaArchivada, error) {
	var ventas []model.VentaArchivada
	err := r.db.WithContext(ctx).
		Where("semana_inicio = ?", semanaInicio).
		Order("fecha ASC").
		Find(&ventas).Error
	return ventas, err
}
