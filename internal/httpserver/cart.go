package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cart-pricing/internal/domain"
	cartsvc "cart-pricing/internal/service/cart"
	pricingsvc "cart-pricing/internal/service/pricing"
)

type addItemRequest struct {
	CartID     string    `json:"cartId" binding:"required"`
	ProductID  string    `json:"productId" binding:"required"`
	Quantity   *quantity `json:"quantity" binding:"required"`
	CustomerID string    `json:"customerId" binding:"required"`
}

type removeItemRequest struct {
	CartID    string `json:"cartId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	CartID    string    `json:"cartId" binding:"required"`
	ProductID string    `json:"productId" binding:"required"`
	Quantity  *quantity `json:"quantity" binding:"required"`
}

var errQuantityNotInteger = errors.New("quantity is not an integer")

// quantity accepts a JSON integer or a numeric string such as "2", as form
// posts send it.
type quantity int

func (q *quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errQuantityNotInteger
	}
	*q = quantity(n)
	return nil
}

// bindFailure answers a request body that could not be bound.
func bindFailure(c *gin.Context, err error, missing string) {
	if errors.Is(err, errQuantityNotInteger) {
		writeError(c, http.StatusBadRequest, domain.ErrInvalidQuantity)
		return
	}
	c.JSON(http.StatusBadRequest, errorBody(missing))
}

type cartRequest struct {
	CartID string `json:"cartId" form:"cartId"`
	// CustomerID is only honoured by load, as an alternative to CartID.
	CustomerID string `json:"customerId" form:"customerId"`
}

type calculateRequest struct {
	CartID     string `json:"cartId" binding:"required"`
	CustomerID string `json:"customerId" binding:"required"`
}

func addItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailure(c, err, "Missing required fields: cartId, productId, quantity, customerId")
			return
		}
		res, err := svc.AddItem(c.Request.Context(), cartsvc.AddItemInput{
			CartID:     req.CartID,
			CustomerID: req.CustomerID,
			ProductID:  req.ProductID,
			Quantity:   int(*req.Quantity),
		})
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "cart": toCartJSON(res.Cart)})
	}
}

func removeItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("cartId and productId are required"))
			return
		}
		cart, err := svc.RemoveItem(c.Request.Context(), req.CartID, req.ProductID)
		if err != nil {
			writeError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": toCartJSON(cart)})
	}
}

func updateQuantityHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailure(c, err, "Missing required fields: cartId, productId, quantity")
			return
		}
		cart, err := svc.UpdateQuantity(c.Request.Context(), req.CartID, req.ProductID, int(*req.Quantity))
		if err != nil {
			writeError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": toCartJSON(cart)})
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CartID == "" {
			c.JSON(http.StatusBadRequest, errorBody("Missing required field: cartId"))
			return
		}
		cart, err := svc.Clear(c.Request.Context(), req.CartID)
		if err != nil {
			writeError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": toCartJSON(cart)})
	}
}

// loadCartHandler answers a missing cart with success and a null cart so
// clients can start fresh.
func loadCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartRequest
		var err error
		if c.Request.Method == http.MethodGet {
			err = c.ShouldBindQuery(&req)
		} else {
			err = c.ShouldBindJSON(&req)
		}
		if err != nil || (req.CartID == "" && req.CustomerID == "") {
			c.JSON(http.StatusBadRequest, errorBody("Missing required field: cartId"))
			return
		}

		var cart domain.Cart
		if req.CartID != "" {
			cart, err = svc.Load(c.Request.Context(), req.CartID)
		} else {
			cart, err = svc.LoadForCustomer(c.Request.Context(), req.CustomerID)
		}
		switch {
		case errors.Is(err, domain.ErrCartNotFound):
			c.JSON(http.StatusOK, gin.H{"success": true, "cart": nil, "message": "Cart not found"})
		case err != nil:
			writeError(c, http.StatusBadRequest, err)
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "cart": toCartJSON(cart), "message": "Cart loaded successfully"})
		}
	}
}

func calculateHandler(svc *pricingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req calculateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("Missing required fields: cartId, customerId"))
			return
		}
		opts, err := svc.Calculate(c.Request.Context(), req.CartID, req.CustomerID)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Price calculated successfully",
			"pricing": toPricingJSON(opts),
		})
	}
}
