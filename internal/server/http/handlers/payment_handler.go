package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/server/http/dto"
)

// PaymentHandler manages payment start and the gateway callback.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Start handles POST /api/orders/:id/payment.
func (h *PaymentHandler) Start(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	init, err := h.facade.StartPayment(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrPaymentInit):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.PaymentStartResponse{
		PaymentID:   init.PaymentID,
		RedirectURL: init.RedirectURL,
	})
}

// Callback handles POST /api/payment/callback from the gateway. The body
// is decoded with numbers kept verbatim so the signature check stays
// bit-exact. Once signature and shape are valid the gateway always gets
// 200 OK, whatever happens downstream.
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	fields, err := decodeCallback(body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err = h.facade.ApplyPaymentCallback(c.Request.Context(), fields)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSignature):
			c.Status(http.StatusUnauthorized)
		case errors.Is(err, domainErrors.ErrBadPayload):
			c.Status(http.StatusBadRequest)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.String(http.StatusOK, "OK")
}

func decodeCallback(body []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
