package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petkovbg/shipgate/internal/adapter/shopify"
	"github.com/petkovbg/shipgate/internal/server/http/dto"
)

// OrderHandler proxies order reads from the source platform.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Fetch handles GET /api/orders/:orderID.
func (h *OrderHandler) Fetch(c *gin.Context) {
	orderID := c.Param("orderID")

	body, err := h.facade.PlatformOrder(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, shopify.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: dto.ErrorBody{
				Context: "order_fetch_error",
				Message: "platform order lookup is not configured",
			}})
		case errors.Is(err, shopify.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: dto.ErrorBody{
				Context: "order_fetch_error",
				Message: err.Error(),
			}})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: dto.ErrorBody{
				Context: "order_fetch_error",
				Message: err.Error(),
			}})
		}
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
