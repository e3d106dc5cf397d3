package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
)

type FondoHandler struct{ svc service.FondoService }

func NewFondoHandler(svc service.FondoService) *FondoHandler { return &FondoHandler{svc: svc} }

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento de fondo
// @Description  Agrega un INGRESO o EGRESO manual al libro del fondo con saldo corrido.
// @Tags         fondo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearMovimientoFondoRequest true "Movimiento"
// @Success      201  {object} dto.MovimientoFondoResponse
// @Router       /v1/fondo/movimientos [post]
func (h *FondoHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.CrearMovimientoFondoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarMovimiento godoc
// @Summary      Eliminar movimiento de fondo
// @Description  Borra un movimiento y recalcula el saldo corrido de todos los movimientos posteriores.
// @Tags         fondo
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del movimiento"
// @Success      204
// @Router       /v1/fondo/movimientos/{id} [delete]
func (h *FondoHandler) EliminarMovimiento(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary      Listar movimientos de fondo
// @Tags         fondo
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD"
// @Param        hasta query string false "Fecha YYYY-MM-DD"
// @Success      200   {array}  dto.MovimientoFondoResponse
// @Router       /v1/fondo/movimientos [get]
func (h *FondoHandler) Listar(c *gin.Context) {
	var filter dto.RangoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	var desde, hasta *time.Time
	if filter.Desde != "" {
		t, err := time.Parse("2006-01-02", filter.Desde)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde: fecha invalida, use YYYY-MM-DD"))
			return
		}
		desde = &t
	}
	if filter.Hasta != "" {
		t, err := time.Parse("2006-01-02", filter.Hasta)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("hasta: fecha invalida, use YYYY-MM-DD"))
			return
		}
		fin := t.AddDate(0, 0, 1).Add(-time.Second)
		hasta = &fin
	}

	resp, err := h.svc.Listar(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo godoc
// @Summary      Saldo actual del fondo
// @Tags         fondo
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SaldoFondoResponse
// @Router       /v1/fondo/saldo [get]
func (h *FondoHandler) Saldo(c *gin.Context) {
	resp, err := h.svc.Saldo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
