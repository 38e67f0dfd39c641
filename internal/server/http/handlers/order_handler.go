package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/server/http/dto"
)

// dueDateLayout is the ISO calendar date accepted for order due dates.
const dueDateLayout = "2006-01-02"

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	in := repository.CreateOrderInput{
		City:        req.City,
		Description: req.Description,
		Budget:      req.Budget,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		in.DueDate = &due
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrRateLimited):
			c.Status(http.StatusTooManyRequests)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreateOrderResponse{ID: order.ID})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Events handles GET /api/orders/:id/events.
func (h *OrderHandler) Events(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	events, err := h.facade.OrderEvents(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(events) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, dto.EventResponse{
			Type:      string(e.Type),
			Message:   e.Message,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles POST /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentUserID(c), orderID, model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:          order.ID,
		City:        order.City,
		Description: order.Description,
		Budget:      order.Budget,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
	if order.DueDate != nil {
		due := order.DueDate.Format(dueDateLayout)
		resp.DueDate = &due
	}
	return resp
}
