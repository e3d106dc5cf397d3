package handler

import (
	"net/http"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// ProcesarVenta godoc
// @Summary      Procesar una venta
// @Description  Registra un ticket multi-linea: descuenta stock, crea las lineas de venta y un ingreso en el fondo. Todo o nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcesarVentaRequest true "Lineas del ticket"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError "Stock insuficiente (detalle: faltantes)"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) ProcesarVenta(c *gin.Context) {
	var req dto.ProcesarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcesarVenta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ventas activas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hace 7 dias)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200   {array}  dto.VentaListItem
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	desde, hasta, ok := bindRango(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorRango(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CorteSemanal godoc
// @Summary      Corte semanal
// @Description  Archiva las ventas activas de la semana y deja la tabla de trabajo vacia. Opcionalmente encola el reporte PDF por correo.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CorteSemanalRequest true "Rango de la semana"
// @Success      200  {object} dto.CorteSemanalResponse
// @Router       /v1/ventas/corte [post]
func (h *VentasHandler) CorteSemanal(c *gin.Context) {
	var req dto.CorteSemanalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CorteSemanal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindRango parses the desde/hasta query params, defaulting to the last week.
func bindRango(c *gin.Context) (time.Time, time.Time, bool) {
	var filter dto.RangoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return time.Time{}, time.Time{}, false
	}

	hasta := time.Now()
	if filter.Hasta != "" {
		t, err := time.Parse("2006-01-02", filter.Hasta)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("hasta: fecha invalida, use YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		// Inclusive upper bound: take the whole day.
		hasta = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	desde := hasta.AddDate(0, 0, -7)
	if filter.Desde != "" {
		t, err := time.Parse("2006-01-02", filter.Desde)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde: fecha invalida, use YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		desde = t
	}
	return desde, hasta, true
}
