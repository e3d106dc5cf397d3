package handler

import (
	"net/http"

	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar compra de materia prima
// @Description  Suma stock, actualiza el costo unitario (convirtiendo USD a MXN con la tasa almacenada), registra el egreso en el fondo y repropaga costos a los productos afectados.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Detalle de la compra"
// @Success      201  {object} dto.CompraResponse
// @Failure      409  {object} apierror.APIError "Tipo de cambio USD no configurado"
// @Router       /v1/compras [post]
func (h *ComprasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCompra(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
