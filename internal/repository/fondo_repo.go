package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FondoRepository interface {
	// LastForUpdateTx locks the newest ledger row so concurrent appends
	// serialize on it and each row's saldo chains off a committed balance.
	// Returns nil when the ledger is empty.
	LastForUpdateTx(tx *gorm.DB) (*model.MovimientoFondo, error)
	CreateTx(tx *gorm.DB, m *model.MovimientoFondo) error
	FindByID(ctx context.Context, id int64) (*model.MovimientoFondo, error)
	FindForUpdateTx(tx *gorm.DB, id int64) (*model.MovimientoFondo, error)
	DeleteTx(tx *gorm.DB, id int64) error
	// AjustarSaldosPosterioresTx rewrites the running balance of every row
	// after the deleted one. Equivalent to replaying the ledger forward from
	// the deletion point; O(rows after id) but a single UPDATE.
	AjustarSaldosPosterioresTx(tx *gorm.DB, id int64, ajuste decimal.Decimal) error
	List(ctx context.Context, desde, hasta *time.Time) ([]model.MovimientoFondo, error)
	Saldo(ctx context.Context) (decimal.Decimal, error)

	DB() *gorm.DB
}

type fondoRepo struct{ db *gorm.DB }

func NewFondoRepository(db *gorm.DB) FondoRepository { return &fondoRepo{db: db} }

func (r *fondoRepo) LastForUpdateTx(tx *gorm.DB) (*model.MovimientoFondo, error) {
	var m model.MovimientoFondo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id DESC").Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *fondoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoFondo) error {
	return tx.Create(m).Error
}

func (r *fondoRepo) FindByID(ctx context.Context, id int64) (*model.MovimientoFondo, error) {
	var m model.MovimientoFondo
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *fondoRepo) FindForUpdateTx(tx *gorm.DB, id int64) (*model.MovimientoFondo, error) {
	var m model.MovimientoFondo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	return &m, err
}

func (r *fondoRepo) DeleteTx(tx *gorm.DB, id int64) error {
	return tx.Delete(&model.MovimientoFondo{}, id).Error
}

func (r *fondoRepo) AjustarSaldosPosterioresTx(tx *gorm.DB, id int64, ajuste decimal.Decimal) error {
	return tx.Model(&model.MovimientoFondo{}).Where("id > ?", id).
		Update("saldo", gorm.Expr("saldo + ?", ajuste)).Error
}

func (r *fondoRepo) List(ctx context.Context, desde, hasta *time.Time) ([]model.MovimientoFondo, error) {
	var movs []model.MovimientoFondo
	q := r.db.WithContext(ctx).Model(&model.MovimientoFondo{})
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha <= ?", *hasta)
	}
	err := q.Order("id DESC").Find(&movs).Error
	return movs, err
}

func (r *fondoRepo) Saldo(ctx context.Context) (decimal.Decimal, error) {
	var m model.MovimientoFondo
	err := r.db.WithContext(ctx).Order("id DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return m.Saldo, nil
}

func (r *fondoRepo) DB() *gorm.DB { return r.db }
