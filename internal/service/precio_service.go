package service

import (
	"context"
	"errors"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PrecioOrigenManual     = "manual"
	PrecioOrigenAutomatico = "automatico"
)

// PrecioService resolves the selling price of a product presentation. A
// manual override on the presentation wins outright; otherwise the price is
// derived: cached base price (cost with margin already applied) times the
// presentation factor, plus the container cost.
type PrecioService interface {
	ResolverPrecioPresentacion(ctx context.Context, productoID, presentacionID uuid.UUID) (*dto.PrecioPresentacionResponse, error)
}

type precioService struct {
	productoRepo     repository.ProductoRepository
	presentacionRepo repository.PresentacionRepository
	formulaRepo      repository.FormulaRepository
	margen           decimal.Decimal
}

func NewPrecioService(
	productoRepo repository.ProductoRepository,
	presentacionRepo repository.PresentacionRepository,
	formulaRepo repository.FormulaRepository,
	margen decimal.Decimal,
) PrecioService {
	return &precioService{
		productoRepo:     productoRepo,
		presentacionRepo: presentacionRepo,
		formulaRepo:      formulaRepo,
		margen:           margen,
	}
}

func (s *precioService) ResolverPrecioPresentacion(ctx context.Context, productoID, presentacionID uuid.UUID) (*dto.PrecioPresentacionResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("producto")
		}
		return nil, err
	}

	pres, err := s.presentacionRepo.FindByID(ctx, presentacionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("presentacion")
		}
		return nil, err
	}
	if pres.ProductoID != productoID {
		return nil, apperr.NotFound("presentacion")
	}

	resp := &dto.PrecioPresentacionResponse{
		ProductoID:     p.ID.String(),
		PresentacionID: pres.ID.String(),
		Presentacion:   pres.Nombre,
		Factor:         pres.Factor,
		CostoEnvase:    pres.CostoEnvase,
	}

	if pres.PrecioManual != nil {
		resp.Precio = *pres.PrecioManual
		resp.Origen = PrecioOrigenManual
		resp.PrecioBase = p.PrecioVenta
		return resp, nil
	}

	base := p.PrecioVenta
	if base.IsZero() {
		// Cached price never computed yet; derive from the recipe now.
		filas, err := s.formulaRepo.ListByProducto(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if len(filas) == 0 {
			return nil, apperr.SinFormula(p.Nombre)
		}
		costo, _, err := costoDeFilas(filas)
		if err != nil {
			return nil, err
		}
		base = costo.Mul(s.margen).Round(2)
	}

	resp.PrecioBase = base
	resp.Precio = base.Mul(pres.Factor).Add(pres.CostoEnvase).Round(2)
	resp.Origen = PrecioOrigenAutomatico
	return resp, nil
}
