package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cart-pricing/internal/domain"
)

const msgInternal = "Internal server error"

// businessMessages maps use-case errors to the messages clients display.
// Order matters: the specific not-found errors all wrap domain.ErrNotFound.
var businessMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidQuantity, "Quantity must be greater than 0"},
	{domain.ErrProductNotInCart, "Product not found in cart"},
	{domain.ErrProductNotFound, "Product not found"},
	{domain.ErrCartNotFound, "Cart not found"},
	{domain.ErrCustomerNotFound, "Customer not found"},
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

// writeError answers business failures with status and their message, and
// anything else with a 500.
func writeError(c *gin.Context, status int, err error) {
	for _, m := range businessMessages {
		if errors.Is(err, m.err) {
			c.JSON(status, errorBody(m.msg))
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorBody(msgInternal))
}
