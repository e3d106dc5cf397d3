package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService registers raw material purchases: stock goes up, the unit
// cost is replaced with the latest one, and an EGRESO lands in the fund
// ledger. USD purchases convert to MXN through the stored exchange rate
// before any write happens; the catalog always stores MXN.
type CompraService interface {
	RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
}

type compraService struct {
	materiaPrimaRepo repository.MateriaPrimaRepository
	fondoRepo        repository.FondoRepository
	configRepo       repository.ConfiguracionRepository
	costeo           CosteoService
	lockTimeoutMs    int
}

func NewCompraService(
	materiaPrimaRepo repository.MateriaPrimaRepository,
	fondoRepo repository.FondoRepository,
	configRepo repository.ConfiguracionRepository,
	costeo CosteoService,
	lockTimeoutMs int,
) CompraService {
	return &compraService{
		materiaPrimaRepo: materiaPrimaRepo,
		fondoRepo:        fondoRepo,
		configRepo:       configRepo,
		costeo:           costeo,
		lockTimeoutMs:    lockTimeoutMs,
	}
}

func (s *compraService) RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, apperr.CantidadInvalida("la cantidad comprada debe ser mayor que cero")
	}
	if !req.CostoUnitario.IsPositive() {
		return nil, apperr.CantidadInvalida("el costo unitario debe ser mayor que cero")
	}

	mpID, err := uuid.Parse(req.MateriaPrimaID)
	if err != nil {
		return nil, apperr.CantidadInvalida("materia_prima_id invalido")
	}

	costoMXN := req.CostoUnitario
	switch req.Moneda {
	case "", "MXN":
	case "USD":
		tasa, err := s.tasaCambio(ctx)
		if err != nil {
			return nil, err
		}
		costoMXN = req.CostoUnitario.Mul(tasa).Round(4)
	default:
		return nil, apperr.MonedaInvalida(req.Moneda)
	}
	totalMXN := costoMXN.Mul(req.Cantidad).Round(2)

	var resp *dto.CompraResponse
	txErr := runTx(ctx, s.materiaPrimaRepo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		mp, err := s.materiaPrimaRepo.FindForUpdateTx(tx, mpID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("materia prima")
			}
			return err
		}

		if err := s.materiaPrimaRepo.UpdateStockTx(tx, mpID, req.Cantidad); err != nil {
			return err
		}
		if err := s.materiaPrimaRepo.UpdateCostoTx(tx, mpID, costoMXN); err != nil {
			return err
		}

		concepto := req.Concepto
		if concepto == "" {
			concepto = fmt.Sprintf("Compra %s", mp.Nombre)
		}
		ultimo, err := s.fondoRepo.LastForUpdateTx(tx)
		if err != nil {
			return err
		}
		saldo := totalMXN.Neg()
		if ultimo != nil {
			saldo = ultimo.Saldo.Sub(totalMXN)
		}
		mov := &model.MovimientoFondo{
			Fecha:    time.Now().Truncate(24 * time.Hour),
			Tipo:     model.MovimientoEgreso,
			Concepto: concepto,
			Monto:    totalMXN,
			Saldo:    saldo,
		}
		if err := s.fondoRepo.CreateTx(tx, mov); err != nil {
			return err
		}

		resp = &dto.CompraResponse{
			MateriaPrimaID:   mpID.String(),
			MateriaPrima:     mp.Nombre,
			Cantidad:         req.Cantidad,
			CostoUnitarioMXN: costoMXN,
			TotalMXN:         totalMXN,
			StockNuevo:       mp.Stock.Add(req.Cantidad),
			MovimientoFondo:  mov.ID,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Cached sell prices of products using this material refresh after the
	// commit; a failure here never undoes the purchase.
	if s.costeo != nil {
		if err := s.costeo.RecalcularPorMateriaPrima(ctx, mpID); err != nil {
			log.Warn().Err(err).Str("materia_prima_id", mpID.String()).
				Msg("compra registrada pero el recalculo de precios fallo")
		}
	}
	return resp, nil
}

func (s *compraService) tasaCambio(ctx context.Context) (decimal.Decimal, error) {
	valor, err := s.configRepo.Get(ctx, model.ClaveTasaCambioUSD)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperr.Conflicto("tipo de cambio USD no configurado")
		}
		return decimal.Zero, err
	}
	tasa, err := decimal.NewFromString(valor)
	if err != nil || !tasa.IsPositive() {
		return decimal.Zero, apperr.Conflicto("tipo de cambio USD almacenado es invalido")
	}
	return tasa, nil
}
