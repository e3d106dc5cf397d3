package service

import (
	"context"
	"errors"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"
	"github.com/MrCorrectoMX/POSQuimo/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const conceptoVentaPOS = "Venta POS"

type VentaService interface {
	ProcesarVenta(ctx context.Context, req dto.ProcesarVentaRequest) (*dto.VentaResponse, error)
	CorteSemanal(ctx context.Context, req dto.CorteSemanalRequest) (*dto.CorteSemanalResponse, error)
	ListarPorRango(ctx context.Context, desde, hasta time.Time) ([]dto.VentaListItem, error)
}

type ventaService struct {
	repo             repository.VentaRepository
	productoRepo     repository.ProductoRepository
	reventaRepo      repository.ProductoReventaRepository
	materiaPrimaRepo repository.MateriaPrimaRepository
	presentacionRepo repository.PresentacionRepository
	fondoRepo        repository.FondoRepository
	precios          PrecioService
	dispatcher       *worker.Dispatcher
	lockTimeoutMs    int
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	reventaRepo repository.ProductoReventaRepository,
	materiaPrimaRepo repository.MateriaPrimaRepository,
	presentacionRepo repository.PresentacionRepository,
	fondoRepo repository.FondoRepository,
	precios PrecioService,
	dispatcher *worker.Dispatcher,
	lockTimeoutMs int,
) VentaService {
	return &ventaService{
		repo:             repo,
		productoRepo:     productoRepo,
		reventaRepo:      reventaRepo,
		materiaPrimaRepo: materiaPrimaRepo,
		presentacionRepo: presentacionRepo,
		fondoRepo:        fondoRepo,
		precios:          precios,
		dispatcher:       dispatcher,
		lockTimeoutMs:    lockTimeoutMs,
	}
}

// lineaResuelta is a ticket line after price resolution, before the stock
// transaction. consumoStock differs from cantidad for presentation sales
// (cantidad bottles of factor 0.5 consume cantidad*0.5 of bulk stock).
type lineaResuelta struct {
	tipo         string
	itemID       uuid.UUID
	nombre       string
	cantidad     decimal.Decimal
	consumoStock decimal.Decimal
	precio       decimal.Decimal
	total        decimal.Decimal
}

// ── ProcesarVenta ────────────────────────────────────────────────────────────
// Two phases, mirroring how the counter flow behaves:
//   1. Resolve every line (names, prices) outside the transaction.
//   2. One transaction: lock the touched stock rows, re-check availability on
//      fresh reads collecting EVERY shortfall, then debit stocks, write the
//      ticket lines and append a single INGRESO to the fund ledger.
// Any failure rolls everything back; no partial tickets exist.

func (s *ventaService) ProcesarVenta(ctx context.Context, req dto.ProcesarVentaRequest) (*dto.VentaResponse, error) {
	fecha := time.Now().Truncate(24 * time.Hour)
	if req.Fecha != "" {
		var err error
		fecha, err = time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, apperr.CantidadInvalida("fecha invalida, formato esperado YYYY-MM-DD")
		}
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, apperr.CantidadInvalida("cliente_id invalido")
		}
		clienteID = &cid
	}

	lineas := make([]lineaResuelta, 0, len(req.Lineas))
	for _, l := range req.Lineas {
		resuelta, err := s.resolverLinea(ctx, l)
		if err != nil {
			return nil, err
		}
		lineas = append(lineas, *resuelta)
	}

	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.total)
	}

	// A ticket may repeat an item (same product at two price overrides, or a
	// bulk line plus a presentation line), so requirements aggregate per item
	// before comparing against stock. Checking lines one by one would let two
	// lines that fit individually overdraw the row together.
	claves := make([]consumoClave, 0, len(lineas))
	requerido := make(map[consumoClave]decimal.Decimal, len(lineas))
	nombres := make(map[consumoClave]string, len(lineas))
	for _, l := range lineas {
		k := consumoClave{tipo: l.tipo, itemID: l.itemID}
		if _, visto := requerido[k]; !visto {
			claves = append(claves, k)
			nombres[k] = l.nombre
		}
		requerido[k] = requerido[k].Add(l.consumoStock)
	}

	var movimientoID int64
	txErr := runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		// Fresh reads under lock; every shortfall is collected before failing
		// so the caller can fix the whole ticket at once.
		var faltantes []apperr.Faltante
		for _, k := range claves {
			disponible, err := s.stockDisponibleTx(tx, k)
			if err != nil {
				return err
			}
			if disponible.LessThan(requerido[k]) {
				faltantes = append(faltantes, apperr.Faltante{
					Item:       nombres[k],
					Requerido:  requerido[k],
					Disponible: disponible,
				})
			}
		}
		if len(faltantes) > 0 {
			return apperr.StockInsuficiente(faltantes)
		}

		for _, l := range lineas {
			if err := s.debitarStockTx(tx, l); err != nil {
				return err
			}
			venta := &model.Venta{
				Fecha:          fecha,
				ClienteID:      clienteID,
				TipoItem:       l.tipo,
				ItemID:         l.itemID,
				NombreItem:     l.nombre,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Total:          l.total,
			}
			if err := s.repo.CreateTx(tx, venta); err != nil {
				return err
			}
		}

		// One ledger entry for the whole ticket.
		ultimo, err := s.fondoRepo.LastForUpdateTx(tx)
		if err != nil {
			return err
		}
		saldo := total
		if ultimo != nil {
			saldo = ultimo.Saldo.Add(total)
		}
		mov := &model.MovimientoFondo{
			Fecha:    fecha,
			Tipo:     model.MovimientoIngreso,
			Concepto: conceptoVentaPOS,
			Monto:    total,
			Saldo:    saldo,
		}
		if err := s.fondoRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		movimientoID = mov.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	respLineas := make([]dto.LineaVentaResponse, 0, len(lineas))
	for _, l := range lineas {
		respLineas = append(respLineas, dto.LineaVentaResponse{
			TipoItem:       l.tipo,
			ItemID:         l.itemID.String(),
			NombreItem:     l.nombre,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.precio,
			Total:          l.total,
		})
	}
	return &dto.VentaResponse{
		Fecha:             fecha.Format("2006-01-02"),
		ClienteID:         req.ClienteID,
		Lineas:            respLineas,
		Total:             total,
		MovimientoFondoID: movimientoID,
	}, nil
}

func (s *ventaService) resolverLinea(ctx context.Context, l dto.LineaVentaRequest) (*lineaResuelta, error) {
	if !l.Cantidad.IsPositive() {
		return nil, apperr.CantidadInvalida("la cantidad vendida debe ser mayor que cero")
	}
	itemID, err := uuid.Parse(l.ItemID)
	if err != nil {
		return nil, apperr.CantidadInvalida("item_id invalido")
	}

	r := lineaResuelta{tipo: l.TipoItem, itemID: itemID, cantidad: l.Cantidad, consumoStock: l.Cantidad}

	switch l.TipoItem {
	case model.TipoItemProducto:
		p, err := s.productoRepo.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("producto")
			}
			return nil, err
		}
		r.nombre = p.Nombre
		r.precio = p.PrecioVenta
		if l.PresentacionID != nil {
			presID, err := uuid.Parse(*l.PresentacionID)
			if err != nil {
				return nil, apperr.CantidadInvalida("presentacion_id invalido")
			}
			precio, err := s.precios.ResolverPrecioPresentacion(ctx, itemID, presID)
			if err != nil {
				return nil, err
			}
			r.nombre = p.Nombre + " " + precio.Presentacion
			r.precio = precio.Precio
			r.consumoStock = l.Cantidad.Mul(precio.Factor)
		}
	case model.TipoItemReventa:
		p, err := s.reventaRepo.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("producto de reventa")
			}
			return nil, err
		}
		r.nombre = p.Nombre
		r.precio = p.PrecioVenta
	case model.TipoItemMateriaPrima:
		mp, err := s.materiaPrimaRepo.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("materia prima")
			}
			return nil, err
		}
		r.nombre = mp.Nombre
		if mp.CostoUnitario == nil {
			return nil, apperr.CostoIncompleto([]string{mp.Nombre})
		}
		r.precio = *mp.CostoUnitario
	default:
		return nil, apperr.CantidadInvalida("tipo_item desconocido: " + l.TipoItem)
	}

	if l.PrecioUnitario != nil {
		r.precio = *l.PrecioUnitario
	}
	r.total = r.precio.Mul(l.Cantidad).Round(2)
	return &r, nil
}

// consumoClave identifies a stock row touched by a ticket; all lines sharing
// it draw from the same row.
type consumoClave struct {
	tipo   string
	itemID uuid.UUID
}

func (s *ventaService) stockDisponibleTx(tx *gorm.DB, k consumoClave) (decimal.Decimal, error) {
	switch k.tipo {
	case model.TipoItemProducto:
		p, err := s.productoRepo.FindForUpdateTx(tx, k.itemID)
		if err != nil {
			return decimal.Zero, err
		}
		return p.Stock, nil
	case model.TipoItemReventa:
		p, err := s.reventaRepo.FindForUpdateTx(tx, k.itemID)
		if err != nil {
			return decimal.Zero, err
		}
		return p.Stock, nil
	default:
		mp, err := s.materiaPrimaRepo.FindForUpdateTx(tx, k.itemID)
		if err != nil {
			return decimal.Zero, err
		}
		return mp.Stock, nil
	}
}

func (s *ventaService) debitarStockTx(tx *gorm.DB, l lineaResuelta) error {
	delta := l.consumoStock.Neg()
	switch l.tipo {
	case model.TipoItemProducto:
		return s.productoRepo.UpdateStockTx(tx, l.itemID, delta)
	case model.TipoItemReventa:
		return s.reventaRepo.UpdateStockTx(tx, l.itemID, delta)
	default:
		return s.materiaPrimaRepo.UpdateStockTx(tx, l.itemID, delta)
	}
}

// ── CorteSemanal ─────────────────────────────────────────────────────────────
// Archives the active sales table into ventas_archivadas tagged with the week
// window and clears it, in one transaction. The summary report renders
// asynchronously afterwards.

func (s *ventaService) CorteSemanal(ctx context.Context, req dto.CorteSemanalRequest) (*dto.CorteSemanalResponse, error) {
	inicio, err := time.Parse("2006-01-02", req.SemanaInicio)
	if err != nil {
		return nil, apperr.CantidadInvalida("semana_inicio invalida, formato esperado YYYY-MM-DD")
	}
	fin, err := time.Parse("2006-01-02", req.SemanaFin)
	if err != nil {
		return nil, apperr.CantidadInvalida("semana_fin invalida, formato esperado YYYY-MM-DD")
	}
	if fin.Before(inicio) {
		return nil, apperr.CantidadInvalida("semana_fin no puede ser anterior a semana_inicio")
	}

	var (
		archivadas int64
		total      decimal.Decimal
	)
	txErr := runTx(ctx, s.repo.DB(), s.lockTimeoutMs, func(tx *gorm.DB) error {
		var err error
		total, err = s.repo.SumTotalTx(tx)
		if err != nil {
			return err
		}
		archivadas, err = s.repo.ArchivarSemanaTx(tx, inicio, fin)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	encolado := false
	if req.EnviarReporte && s.dispatcher != nil {
		payload := map[string]interface{}{
			"semana_inicio": req.SemanaInicio,
			"semana_fin":    req.SemanaFin,
		}
		if err := s.dispatcher.EnqueueReporteCorte(ctx, payload); err != nil {
			log.Warn().Err(err).Str("semana_inicio", req.SemanaInicio).
				Msg("corte archivado pero el reporte no pudo encolarse")
		} else {
			encolado = true
		}
	}

	return &dto.CorteSemanalResponse{
		SemanaInicio:     req.SemanaInicio,
		SemanaFin:        req.SemanaFin,
		VentasArchivadas: archivadas,
		TotalArchivado:   total,
		ReporteEncolado:  encolado,
	}, nil
}

func (s *ventaService) ListarPorRango(ctx context.Context, desde, hasta time.Time) ([]dto.VentaListItem, error) {
	ventas, err := s.repo.ListByRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaListItem, 0, len(ventas))
	for _, v := range ventas {
		var cliente *string
		if v.Cliente != nil {
			cliente = &v.Cliente.Nombre
		}
		out = append(out, dto.VentaListItem{
			ID:             v.ID.String(),
			Fecha:          v.Fecha.Format("2006-01-02"),
			Cliente:        cliente,
			TipoItem:       v.TipoItem,
			NombreItem:     v.NombreItem,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			Total:          v.Total,
		})
	}
	return out, nil
}
