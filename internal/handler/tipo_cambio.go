package handler

import (
	"net/http"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
)

type TipoCambioHandler struct{ svc service.TipoCambioService }

func NewTipoCambioHandler(svc service.TipoCambioService) *TipoCambioHandler {
	return &TipoCambioHandler{svc: svc}
}

// Obtener godoc
// @Summary      Tipo de cambio USD/MXN vigente
// @Tags         tipo-cambio
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TipoCambioResponse
// @Failure      404 {object} apierror.APIError "Aun no configurado"
// @Router       /v1/tipo-cambio [get]
func (h *TipoCambioHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Fijar el tipo de cambio USD/MXN
// @Description  Guarda la tasa usada para convertir compras en USD. Solo admin.
// @Tags         tipo-cambio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ActualizarTipoCambioRequest true "Nueva tasa"
// @Success      204
// @Router       /v1/tipo-cambio [put]
func (h *TipoCambioHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarTipoCambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Actualizar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sugerido godoc
// @Summary      Tasa de referencia sugerida
// @Description  Consulta una API externa y devuelve la tasa de mercado. Nunca se guarda automaticamente.
// @Tags         tipo-cambio
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TipoCambioSugeridoResponse
// @Failure      502 {object} apierror.APIError "Proveedor externo no disponible"
// @Router       /v1/tipo-cambio/sugerido [get]
func (h *TipoCambioHandler) Sugerido(c *gin.Context) {
	resp, err := h.svc.Sugerido(c.Request.Context())
	if err != nil {
		if apperr.KindOf(err) != 0 {
			respondError(c, err)
			return
		}
		// Provider failures (timeouts, open circuit) are a bad gateway,
		// not an internal error.
		c.JSON(http.StatusBadGateway, apierror.New("fuente externa de tipo de cambio no disponible"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
