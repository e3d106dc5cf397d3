package service

import (
	"context"
	"errors"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"gorm.io/gorm"
)

// FondoService maintains the cash fund ledger. Every row stores the running
// balance after itself; deleting a row rewrites every later balance so the
// chain stays consistent.
type FondoService interface {
	RegistrarMovimiento(ctx context.Context, req dto.CrearMovimientoFondoRequest) (*dto.MovimientoFondoResponse, error)
	EliminarMovimiento(ctx context.Context, id int64) error
	Saldo(ctx context.Context) (*dto.SaldoFondoResponse, error)
	Listar(ctx context.Context, desde, hasta *time.Time) ([]dto.MovimientoFondoResponse, error)
}

type fondoService struct {
	repo          repository.FondoRepository
	lockTimeoutMs int
}

func NewFondoService(repo repository.FondoRepository, lockTimeoutMs int) FondoService {
	return &fondoService{repo: repo, lockTimeoutMs: lockTimeoutMs}
}

func (s *fondoService) RegistrarMovimiento(ctx context.Context, req dto.CrearMovimientoFondoRequest) (*dto.MovimientoFondoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apperr.CantidadInvalida("el monto debe ser mayor que cero")
	}

	fecha := time.Now().Truncate(24 * time.Hour)
	if req.Fecha != "" {
		var err error
		fecha, err = time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, apperr.CantidadInvalida("fecha invalida, formato esperado YYYY-MM-DD")
		}
	}

	var mov *model.MovimientoFondo
	txErr := runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		ultimo, err := s.repo.LastForUpdateTx(tx)
		if err != nil {
			return err
		}
		saldo := req.Monto
		if req.Tipo == model.MovimientoEgreso {
			saldo = req.Monto.Neg()
		}
		if ultimo != nil {
			saldo = ultimo.Saldo.Add(saldo)
		}
		mov = &model.MovimientoFondo{
			Fecha:    fecha,
			Tipo:     req.Tipo,
			Concepto: req.Concepto,
			Monto:    req.Monto,
			Saldo:    saldo,
		}
		return s.repo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	return movimientoToResponse(mov), nil
}

// EliminarMovimiento removes one ledger row and repairs the chain: every
// later row's saldo shifts by the inverse of the deleted movement. The final
// state equals replaying the remaining movements in order.
func (s *fondoService) EliminarMovimiento(ctx context.Context, id int64) error {
	return runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		mov, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("movimiento de fondo")
			}
			return err
		}

		ajuste := mov.Monto.Neg()
		if mov.Tipo == model.MovimientoEgreso {
			ajuste = mov.Monto
		}

		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		return s.repo.AjustarSaldosPosterioresTx(tx, id, ajuste)
	})
}

func (s *fondoService) Saldo(ctx context.Context) (*dto.SaldoFondoResponse, error) {
	saldo, err := s.repo.Saldo(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SaldoFondoResponse{Saldo: saldo}, nil
}

func (s *fondoService) Listar(ctx context.Context, desde, hasta *time.Time) ([]dto.MovimientoFondoResponse, error) {
	movs, err := s.repo.List(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoFondoResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *movimientoToResponse(&movs[i]))
	}
	return out, nil
}

func movimientoToResponse(m *model.MovimientoFondo) *dto.MovimientoFondoResponse {
	return &dto.MovimientoFondoResponse{
		ID:       m.ID,
		Fecha:    m.Fecha.Format("2006-01-02"),
		Tipo:     m.Tipo,
		Concepto: m.Concepto,
		Monto:    m.Monto,
		Saldo:    m.Saldo,
	}
}
