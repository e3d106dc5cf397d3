package handler

import (
	"net/http"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProduccionHandler struct{ svc service.ProduccionService }

func NewProduccionHandler(svc service.ProduccionService) *ProduccionHandler {
	return &ProduccionHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar produccion
// @Description  Consume materias primas segun la formula y acredita el stock del producto. Producciones del mismo dia se fusionan.
// @Tags         produccion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarProduccionRequest true "Producto y cantidad"
// @Success      201  {object} dto.ProduccionResponse
// @Failure      409  {object} apierror.APIError "Stock insuficiente de materias primas"
// @Failure      422  {object} apierror.APIError "Sin formula o costos incompletos"
// @Router       /v1/produccion [post]
func (h *ProduccionHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarProduccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarProduccion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Deshacer godoc
// @Summary      Deshacer produccion
// @Description  Revierte total o parcialmente un registro de produccion, devolviendo materias primas en proporcion a la formula.
// @Tags         produccion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del registro de produccion"
// @Param        body body dto.DeshacerProduccionRequest true "Cantidad a revertir"
// @Success      200  {object} dto.DeshacerProduccionResponse
// @Failure      409  {object} apierror.APIError "El producto ya fue vendido en parte"
// @Router       /v1/produccion/{id}/deshacer [post]
func (h *ProduccionHandler) Deshacer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.DeshacerProduccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DeshacerProduccion(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar producciones por rango de fechas
// @Tags         produccion
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD"
// @Param        hasta query string false "Fecha YYYY-MM-DD"
// @Success      200   {array}  dto.ProduccionResponse
// @Router       /v1/produccion [get]
func (h *ProduccionHandler) Listar(c *gin.Context) {
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
