package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ldtri/mealgo-api/internal/usecase"
)

// CatalogHandler serves the cart price-sync snapshot. Dashboards poll it;
// the snapshot is refreshed in the background and each response replaces the
// client's previous copy wholesale.
type CatalogHandler struct {
	cache   usecase.OrderCache
	gateway usecase.CatalogGateway
}

func NewCatalogHandler(cache usecase.OrderCache, gateway usecase.CatalogGateway) *CatalogHandler {
	return &CatalogHandler{cache: cache, gateway: gateway}
}

func (h *CatalogHandler) Prices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	prices, ok, err := h.cache.GetCatalogPrices(ctx)
	if err == nil && ok {
		c.JSON(http.StatusOK, prices)
		return
	}

	// Cache cold (or Redis down); go straight to the catalog service.
	prices, err = h.gateway.Prices(ctx)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}
