package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/server/http/dto"
)

const (
	contextValidation       = "validation.error"
	contextSite             = "siteId.error"
	contextStreet           = "streetId.error"
	contextShipmentCreation = "shipment_creation_error"
)

// ShipmentHandler manages the webhook-driven shipment endpoint.
type ShipmentHandler struct {
	facade ShipmentFacade
}

// NewShipmentHandler constructs ShipmentHandler.
func NewShipmentHandler(facade ShipmentFacade) *ShipmentHandler {
	return &ShipmentHandler{facade: facade}
}

// Create handles POST /api/shipments.
func (h *ShipmentHandler) Create(c *gin.Context) {
	var payload dto.OrderWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: contextValidation,
			Message: "invalid webhook payload",
		}})
		return
	}

	if payload.ShippingAddress == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: contextValidation,
			Message: "missing shipping_address in webhook payload",
		}})
		return
	}

	if payload.ID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: contextValidation,
			Message: "missing required field: id",
		}})
		return
	}

	result, err := h.facade.SubmitShipment(c.Request.Context(), payload.ToModel())
	if err != nil {
		writeSubmissionError(c, err)
		return
	}

	message := "Shipment created successfully"
	if result.Replayed {
		message = "Shipment already created"
	}

	c.JSON(http.StatusOK, dto.ShipmentResponse{
		Message:      message,
		ShipmentData: result.ShipmentData,
	})
}

// writeSubmissionError translates the submission error taxonomy into the HTTP
// contract. Not-found resolution failures are caller-data problems (400);
// remote unavailability and persistence failures are dependency problems (500).
func writeSubmissionError(c *gin.Context, err error) {
	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: contextValidation,
			Message: validationErr.Error(),
		}})
		return
	}

	var resolutionErr *domainErrors.ResolutionError
	if errors.As(err, &resolutionErr) {
		status := http.StatusBadRequest
		if resolutionErr.Kind == domainErrors.RemoteUnavailable {
			status = http.StatusInternalServerError
		}
		c.JSON(status, dto.ErrorResponse{Error: dto.ErrorBody{
			Context: resolutionContext(resolutionErr),
			Message: resolutionErr.Error(),
		}})
		return
	}

	var creationErr *domainErrors.ShipmentCreationError
	if errors.As(err, &creationErr) {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: dto.ErrorBody{
			Context:    contextShipmentCreation,
			Message:    creationErr.Error(),
			Suggestion: creationErr.Suggestion,
		}})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: dto.ErrorBody{
		Context: contextShipmentCreation,
		Message: err.Error(),
	}})
}

func resolutionContext(err *domainErrors.ResolutionError) string {
	switch err.Kind {
	case domainErrors.SiteNotFound:
		return contextSite
	case domainErrors.StreetNotFound:
		return contextStreet
	default:
		// Transport failures keep the stage tag of the lookup that hit them.
		if err.Street == "" {
			return contextSite
		}
		return contextStreet
	}
}
