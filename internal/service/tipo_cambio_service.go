package service

import (
	"context"
	"errors"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FXClient fetches an external USD/MXN reference rate. The suggestion is
// advisory: the stored rate only changes through Actualizar.
type FXClient interface {
	TasaUSDMXN(ctx context.Context) (decimal.Decimal, string, error)
}

type TipoCambioService interface {
	Obtener(ctx context.Context) (*dto.TipoCambioResponse, error)
	Actualizar(ctx context.Context, req dto.ActualizarTipoCambioRequest) error
	Sugerido(ctx context.Context) (*dto.TipoCambioSugeridoResponse, error)
}

type tipoCambioService struct {
	configRepo repository.ConfiguracionRepository
	fx         FXClient
}

func NewTipoCambioService(configRepo repository.ConfiguracionRepository, fx FXClient) TipoCambioService {
	return &tipoCambioService{configRepo: configRepo, fx: fx}
}

func (s *tipoCambioService) Obtener(ctx context.Context) (*dto.TipoCambioResponse, error) {
	valor, err := s.configRepo.Get(ctx, model.ClaveTasaCambioUSD)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tipo de cambio")
		}
		return nil, err
	}
	tasa, err := decimal.NewFromString(valor)
	if err != nil {
		return nil, apperr.Conflicto("tipo de cambio almacenado es invalido")
	}
	return &dto.TipoCambioResponse{Tasa: tasa}, nil
}

func (s *tipoCambioService) Actualizar(ctx context.Context, req dto.ActualizarTipoCambioRequest) error {
	if !req.Tasa.IsPositive() {
		return apperr.CantidadInvalida("la tasa debe ser mayor que cero")
	}
	return s.configRepo.Set(ctx, model.ClaveTasaCambioUSD, req.Tasa.String())
}

func (s *tipoCambioService) Sugerido(ctx context.Context) (*dto.TipoCambioSugeridoResponse, error) {
	if s.fx == nil {
		return nil, apperr.Conflicto("no hay fuente externa de tipo de cambio configurada")
	}
	tasa, fuente, err := s.fx.TasaUSDMXN(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TipoCambioSugeridoResponse{Tasa: tasa, Fuente: fuente}, nil
}
