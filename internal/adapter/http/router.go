package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ldtri/mealgo-api/internal/adapter/http/middleware"
	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/logging"
)

func NewRouter(h *OrderHandler, ch *CatalogHandler, lh *LoginHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/login", lh.Login)

	v1 := r.Group("/v1", authz.Authenticate())
	{
		v1.POST("/orders", authz.RequireRole(domain.RoleCustomer), h.CreateOrder)
		v1.GET("/orders", h.ListOrders)
		v1.GET("/orders/:id", h.GetOrder)
		v1.PATCH("/orders/:id/status", authz.RequireRole(domain.RoleAdmin, domain.RoleChef, domain.RoleRider), h.TransitionOrder)
		v1.DELETE("/orders/:id", authz.RequireRole(domain.RoleCustomer), h.DeleteOrder)
		v1.POST("/orders/:id/payment/confirm", authz.RequireRole(domain.RoleCustomer), h.ConfirmPayment)
		v1.GET("/catalog/prices", ch.Prices)
	}

	return r
}
