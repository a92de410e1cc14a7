package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cart-pricing/internal/obs"
)

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(obs.GinLogger(logger), gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(corsMiddleware(deps.CORSAllowedOrigins))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Checks))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.GET("/products", listProductsHandler(deps.Catalog))
	api.GET("/products/:id", getProductHandler(deps.Catalog))
	api.GET("/customers", listCustomersHandler(deps.Catalog))
	api.GET("/customers/:id", getCustomerHandler(deps.Catalog))

	carts := api.Group("/cart")
	carts.POST("/add", addItemHandler(deps.Carts))
	carts.POST("/remove", removeItemHandler(deps.Carts))
	carts.POST("/update", updateQuantityHandler(deps.Carts))
	carts.POST("/clear", clearCartHandler(deps.Carts))
	carts.GET("/load", loadCartHandler(deps.Carts))
	carts.POST("/load", loadCartHandler(deps.Carts))
	carts.POST("/calculate", calculateHandler(deps.Pricing))

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Accept", "Content-Type", "Origin"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        5 * time.Minute,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
