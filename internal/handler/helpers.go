package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a domain error to its HTTP status. Unknown errors are
// logged and reported as a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	var (
		status  int
		detalle any
	)
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindSinFormula,
		apperr.KindCostoIncompleto,
		apperr.KindCantidadInvalida,
		apperr.KindMonedaInvalida:
		status = http.StatusUnprocessableEntity
	case apperr.KindStockInsuficiente:
		status = http.StatusConflict
		detalle = apperr.Faltantes(err)
	case apperr.KindConflicto:
		status = http.StatusConflict
	case apperr.KindRecursoOcupado:
		status = http.StatusLocked
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
		return
	}

	if detalle == nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			detalle = ae.Detalle
		}
	}
	c.JSON(status, apierror.NewWithDetail(err.Error(), detalle))
}
