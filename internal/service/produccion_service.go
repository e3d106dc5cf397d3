package service

import (
	"context"
	"errors"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProduccionService interface {
	RegistrarProduccion(ctx context.Context, req dto.RegistrarProduccionRequest) (*dto.ProduccionResponse, error)
	DeshacerProduccion(ctx context.Context, id uuid.UUID, req dto.DeshacerProduccionRequest) (*dto.DeshacerProduccionResponse, error)
	ListarPorRango(ctx context.Context, desde, hasta time.Time) ([]dto.ProduccionResponse, error)
}

type produccionService struct {
	repo             repository.ProduccionRepository
	productoRepo     repository.ProductoRepository
	materiaPrimaRepo repository.MateriaPrimaRepository
	formulaRepo      repository.FormulaRepository
	lockTimeoutMs    int
}

func NewProduccionService(
	repo repository.ProduccionRepository,
	productoRepo repository.ProductoRepository,
	materiaPrimaRepo repository.MateriaPrimaRepository,
	formulaRepo repository.FormulaRepository,
	lockTimeoutMs int,
) ProduccionService {
	return &produccionService{
		repo:             repo,
		productoRepo:     productoRepo,
		materiaPrimaRepo: materiaPrimaRepo,
		formulaRepo:      formulaRepo,
		lockTimeoutMs:    lockTimeoutMs,
	}
}

// ── RegistrarProduccion ──────────────────────────────────────────────────────
// One transaction covers the whole batch:
//   1. lock the product row, then every recipe material in stable order
//   2. verify all materials have a cost and enough stock (all shortfalls
//      collected before failing)
//   3. debit material stocks, credit product stock
//   4. upsert-merge the (fecha, producto) production row
// Either everything commits or nothing moved.

func (s *produccionService) RegistrarProduccion(ctx context.Context, req dto.RegistrarProduccionRequest) (*dto.ProduccionResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, apperr.CantidadInvalida("la cantidad a producir debe ser mayor que cero")
	}

	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apperr.CantidadInvalida("producto_id invalido")
	}

	fecha := time.Now().Truncate(24 * time.Hour)
	if req.Fecha != "" {
		fecha, err = time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, apperr.CantidadInvalida("fecha invalida, formato esperado YYYY-MM-DD")
		}
	}

	var resp *dto.ProduccionResponse
	txErr := runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		producto, err := s.productoRepo.FindForUpdateTx(tx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("producto")
			}
			return err
		}

		filas, err := s.formulaRepo.ListByProductoTx(tx, pid)
		if err != nil {
			return err
		}
		if len(filas) == 0 {
			return apperr.SinFormula(producto.Nombre)
		}

		mpIDs := make([]uuid.UUID, 0, len(filas))
		for _, f := range filas {
			mpIDs = append(mpIDs, f.MateriaPrimaID)
		}
		materias, err := s.materiaPrimaRepo.FindAllForUpdateTx(tx, mpIDs)
		if err != nil {
			return err
		}
		porID := make(map[uuid.UUID]*model.MateriaPrima, len(materias))
		for i := range materias {
			porID[materias[i].ID] = &materias[i]
		}

		// Requirements, cost and shortfalls in one pass over the recipe.
		type consumo struct {
			mp       *model.MateriaPrima
			cantidad decimal.Decimal
		}
		var (
			consumos  []consumo
			costo     = decimal.Zero
			sinCosto  []string
			faltantes []apperr.Faltante
		)
		for _, f := range filas {
			mp, ok := porID[f.MateriaPrimaID]
			if !ok {
				return apperr.NotFound("materia prima")
			}
			requerido := f.Porcentaje.Div(cien).Mul(req.Cantidad)
			if mp.CostoUnitario == nil {
				sinCosto = append(sinCosto, mp.Nombre)
			} else {
				costo = costo.Add(requerido.Mul(*mp.CostoUnitario))
			}
			if mp.Stock.LessThan(requerido) {
				faltantes = append(faltantes, apperr.Faltante{
					Item:       mp.Nombre,
					Requerido:  requerido,
					Disponible: mp.Stock,
				})
			}
			consumos = append(consumos, consumo{mp: mp, cantidad: requerido})
		}
		if len(sinCosto) > 0 {
			return apperr.CostoIncompleto(sinCosto)
		}
		if len(faltantes) > 0 {
			return apperr.StockInsuficiente(faltantes)
		}

		for _, c := range consumos {
			if err := s.materiaPrimaRepo.UpdateStockTx(tx, c.mp.ID, c.cantidad.Neg()); err != nil {
				return err
			}
		}
		if err := s.productoRepo.UpdateStockTx(tx, pid, req.Cantidad); err != nil {
			return err
		}

		registro := &model.Produccion{
			Fecha:      fecha,
			ProductoID: pid,
			Cantidad:   req.Cantidad,
			Costo:      costo.Round(2),
		}
		if err := s.repo.UpsertMergeTx(tx, registro); err != nil {
			return err
		}

		detalle := make([]dto.ConsumoMateria, 0, len(consumos))
		for _, c := range consumos {
			detalle = append(detalle, dto.ConsumoMateria{
				MateriaPrimaID: c.mp.ID.String(),
				MateriaPrima:   c.mp.Nombre,
				Cantidad:       c.cantidad,
			})
		}
		resp = &dto.ProduccionResponse{
			ID:         registro.ID.String(),
			ProductoID: pid.String(),
			Producto:   producto.Nombre,
			Fecha:      fecha.Format("2006-01-02"),
			Cantidad:   req.Cantidad,
			Costo:      costo.Round(2),
			Consumos:   detalle,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── DeshacerProduccion ───────────────────────────────────────────────────────
// Exact inverse, limited to the quantity being undone: the product stock goes
// down, material stocks come back per the recipe rates, and the production
// row shrinks proportionally (or disappears on a full reversal).

func (s *produccionService) DeshacerProduccion(ctx context.Context, id uuid.UUID, req dto.DeshacerProduccionRequest) (*dto.DeshacerProduccionResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, apperr.CantidadInvalida("la cantidad a deshacer debe ser mayor que cero")
	}

	var resp *dto.DeshacerProduccionResponse
	txErr := runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		registro, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("registro de produccion")
			}
			return err
		}
		if req.Cantidad.GreaterThan(registro.Cantidad) {
			return apperr.CantidadInvalida("la cantidad a deshacer excede la cantidad producida")
		}

		producto, err := s.productoRepo.FindForUpdateTx(tx, registro.ProductoID)
		if err != nil {
			return err
		}
		if producto.Stock.LessThan(req.Cantidad) {
			// Part of the batch was already sold; it cannot be unmade.
			return apperr.StockInsuficiente([]apperr.Faltante{{
				Item:       producto.Nombre,
				Requerido:  req.Cantidad,
				Disponible: producto.Stock,
			}})
		}

		filas, err := s.formulaRepo.ListByProductoTx(tx, registro.ProductoID)
		if err != nil {
			return err
		}
		if len(filas) == 0 {
			return apperr.SinFormula(producto.Nombre)
		}

		devueltas := make([]dto.ConsumoMateria, 0, len(filas))
		for _, f := range filas {
			devuelto := f.Porcentaje.Div(cien).Mul(req.Cantidad)
			if err := s.materiaPrimaRepo.UpdateStockTx(tx, f.MateriaPrimaID, devuelto); err != nil {
				return err
			}
			nombre := ""
			if f.MateriaPrima != nil {
				nombre = f.MateriaPrima.Nombre
			}
			devueltas = append(devueltas, dto.ConsumoMateria{
				MateriaPrimaID: f.MateriaPrimaID.String(),
				MateriaPrima:   nombre,
				Cantidad:       devuelto,
			})
		}

		if err := s.productoRepo.UpdateStockTx(tx, registro.ProductoID, req.Cantidad.Neg()); err != nil {
			return err
		}

		if req.Cantidad.Equal(registro.Cantidad) {
			if err := s.repo.DeleteTx(tx, id); err != nil {
				return err
			}
			resp = &dto.DeshacerProduccionResponse{
				ID:                id.String(),
				Eliminado:         true,
				CantidadRestante:  decimal.Zero,
				CostoRestante:     decimal.Zero,
				MateriasDevueltas: devueltas,
			}
			return nil
		}

		// Proportional cost split: the undone share of the recorded cost.
		costoARestar := registro.Costo.Mul(req.Cantidad).Div(registro.Cantidad).Round(2)
		nuevaCantidad := registro.Cantidad.Sub(req.Cantidad)
		nuevoCosto := registro.Costo.Sub(costoARestar)
		if err := s.repo.UpdateCantidadCostoTx(tx, id, nuevaCantidad, nuevoCosto); err != nil {
			return err
		}
		resp = &dto.DeshacerProduccionResponse{
			ID:                id.String(),
			Eliminado:         false,
			CantidadRestante:  nuevaCantidad,
			CostoRestante:     nuevoCosto,
			MateriasDevueltas: devueltas,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

func (s *produccionService) ListarPorRango(ctx context.Context, desde, hasta time.Time) ([]dto.ProduccionResponse, error) {
	registros, err := s.repo.ListByRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProduccionResponse, 0, len(registros))
	for _, r := range registros {
		nombre := ""
		if r.Producto != nil {
			nombre = r.Producto.Nombre
		}
		out = append(out, dto.ProduccionResponse{
			ID:         r.ID.String(),
			ProductoID: r.ProductoID.String(),
			Producto:   nombre,
			Fecha:      r.Fecha.Format("2006-01-02"),
			Cantidad:   r.Cantidad,
			Costo:      r.Costo,
		})
	}
	return out, nil
}
