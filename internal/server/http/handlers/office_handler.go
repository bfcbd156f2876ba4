package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petkovbg/shipgate/internal/server/http/dto"
)

// OfficeHandler serves the read-only courier office listing.
type OfficeHandler struct {
	facade OfficeFacade
}

// NewOfficeHandler constructs OfficeHandler.
func NewOfficeHandler(facade OfficeFacade) *OfficeHandler {
	return &OfficeHandler{facade: facade}
}

// List handles GET /api/offices.
func (h *OfficeHandler) List(c *gin.Context) {
	offices, err := h.facade.Offices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: "office_fetch_error",
			Message: err.Error(),
		}})
		return
	}
	c.Data(http.StatusOK, "application/json", offices)
}
