package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cart-pricing/internal/service/catalog"
)

func listProductsHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.Products(c.Request.Context(), c.Query("category"))
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		out := make([]productJSON, 0, len(products))
		for _, p := range products {
			out = append(out, toProductJSON(p))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": out})
	}
}

func getProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": toProductJSON(p)})
	}
}

func listCustomersHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := svc.Customers(c.Request.Context())
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		out := make([]customerJSON, 0, len(customers))
		for _, cu := range customers {
			out = append(out, toCustomerJSON(cu))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customers": out})
	}
}

func getCustomerHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cu, err := svc.Customer(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customer": toCustomerJSON(cu)})
	}
}
