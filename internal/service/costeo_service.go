package service

import (
	"context"
	"errors"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

// CosteoService derives unit costs from recipes and keeps the cached sell
// price on each product in sync with its ingredient costs.
type CosteoService interface {
	CalcularCostoUnitario(ctx context.Context, productoID uuid.UUID) (*dto.CostoUnitarioResponse, error)
	// RecalcularPrecioVenta refreshes the cached sell price of one product
	// (unit cost times margin).
	RecalcularPrecioVenta(ctx context.Context, productoID uuid.UUID) error
	// RecalcularPorMateriaPrima fans the refresh out to every product whose
	// recipe uses the material. Called after a purchase changes its cost.
	RecalcularPorMateriaPrima(ctx context.Context, materiaPrimaID uuid.UUID) error
}

type costeoService struct {
	productoRepo repository.ProductoRepository
	formulaRepo  repository.FormulaRepository
	margen       decimal.Decimal
}

func NewCosteoService(
	productoRepo repository.ProductoRepository,
	formulaRepo repository.FormulaRepository,
	margen decimal.Decimal,
) CosteoService {
	return &costeoService{productoRepo: productoRepo, formulaRepo: formulaRepo, margen: margen}
}

// costoDeFilas computes sum(porcentaje/100 * costo_unitario) over recipe rows.
// Rows must come preloaded with their MateriaPrima. Materials without a unit
// cost are collected and reported together, not one at a time.
func costoDeFilas(filas []model.Formula) (decimal.Decimal, []dto.DesgloseCosto, error) {
	costo := decimal.Zero
	desglose := make([]dto.DesgloseCosto, 0, len(filas))
	var sinCosto []string

	for _, f := range filas {
		if f.MateriaPrima == nil {
			return decimal.Zero, nil, errors.New("fila de formula sin materia prima cargada")
		}
		if f.MateriaPrima.CostoUnitario == nil {
			sinCosto = append(sinCosto, f.MateriaPrima.Nombre)
			continue
		}
		contribucion := f.Porcentaje.Div(cien).Mul(*f.MateriaPrima.CostoUnitario)
		costo = costo.Add(contribucion)
		desglose = append(desglose, dto.DesgloseCosto{
			MateriaPrima:  f.MateriaPrima.Nombre,
			Porcentaje:    f.Porcentaje,
			CostoUnitario: *f.MateriaPrima.CostoUnitario,
			Contribucion:  contribucion,
		})
	}
	if len(sinCosto) > 0 {
		return decimal.Zero, nil, apperr.CostoIncompleto(sinCosto)
	}
	return costo, desglose, nil
}

func (s *costeoService) CalcularCostoUnitario(ctx context.Context, productoID uuid.UUID) (*dto.CostoUnitarioResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("producto")
		}
		return nil, err
	}

	filas, err := s.formulaRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if len(filas) == 0 {
		return nil, apperr.SinFormula(p.Nombre)
	}

	costo, desglose, err := costoDeFilas(filas)
	if err != nil {
		return nil, err
	}

	return &dto.CostoUnitarioResponse{
		ProductoID:    p.ID.String(),
		Producto:      p.Nombre,
		CostoUnitario: costo,
		Desglose:      desglose,
	}, nil
}

func (s *costeoService) RecalcularPrecioVenta(ctx context.Context, productoID uuid.UUID) error {
	filas, err := s.formulaRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return err
	}
	if len(filas) == 0 {
		// Nothing to derive from; the cached price keeps its last value.
		return nil
	}
	costo, _, err := costoDeFilas(filas)
	if err != nil {
		return err
	}
	// Margin applies exactly once, here. Presentations later multiply by
	// factor and add container cost but never re-apply margin.
	precio := costo.Mul(s.margen).Round(2)
	return s.productoRepo.UpdatePrecioVenta(ctx, productoID, precio)
}

func (s *costeoService) RecalcularPorMateriaPrima(ctx context.Context, materiaPrimaID uuid.UUID) error {
	ids, err := s.formulaRepo.ListProductoIDsPorMateria(ctx, materiaPrimaID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.RecalcularPrecioVenta(ctx, id); err != nil {
			// A product with an incomplete recipe must not block the rest.
			log.Warn().Err(err).Str("producto_id", id.String()).Msg("no se pudo recalcular precio de venta")
		}
	}
	return nil
}
