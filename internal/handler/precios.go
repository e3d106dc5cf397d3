package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/apierror"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Short TTL: a manual override or a cost recalculation must be visible at the
// counter within a minute without explicit invalidation.
const precioCacheTTL = time.Minute

// PreciosHandler serves price resolution for the sale screen, with a Redis
// read-through cache in front of the derivation.
type PreciosHandler struct {
	costeo  service.CosteoService
	precios service.PrecioService
	rdb     *redis.Client
}

func NewPreciosHandler(costeo service.CosteoService, precios service.PrecioService, rdb *redis.Client) *PreciosHandler {
	return &PreciosHandler{costeo: costeo, precios: precios, rdb: rdb}
}

// CostoUnitario godoc
// @Summary      Costo unitario de un producto
// @Description  Deriva el costo por unidad desde la formula, con desglose por materia prima.
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.CostoUnitarioResponse
// @Failure      422 {object} apierror.APIError "Sin formula o costos incompletos"
// @Router       /v1/productos/{id}/costo [get]
func (h *PreciosHandler) CostoUnitario(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.costeo.CalcularCostoUnitario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecalcularPrecio godoc
// @Summary      Recalcular precio de venta
// @Description  Refresca el precio de venta cacheado del producto (costo unitario por margen).
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      204
// @Router       /v1/productos/{id}/recalcular-precio [post]
func (h *PreciosHandler) RecalcularPrecio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.costeo.RecalcularPrecioVenta(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PrecioPresentacion godoc
// @Summary      Precio de una presentacion
// @Description  Resuelve el precio de venta de una presentacion: manual si hay override, derivado (base x factor + envase) si no. Cacheado en Redis.
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        id             path string true "UUID del producto"
// @Param        presentacionId path string true "UUID de la presentacion"
// @Success      200 {object} dto.PrecioPresentacionResponse
// @Router       /v1/productos/{id}/presentaciones/{presentacionId}/precio [get]
func (h *PreciosHandler) PrecioPresentacion(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	presentacionID, err := uuid.Parse(c.Param("presentacionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de presentacion invalido"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := "precio:" + presentacionID.String()

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PrecioPresentacionResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil && resp.ProductoID == productoID.String() {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.precios.ResolverPrecioPresentacion(ctx, productoID, presentacionID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
