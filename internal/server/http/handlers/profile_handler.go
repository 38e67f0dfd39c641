package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/server/http/dto"
)

// ProfileHandler manages account profile endpoints.
type ProfileHandler struct {
	facade ProfileFacade
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(facade ProfileFacade) *ProfileHandler {
	return &ProfileHandler{facade: facade}
}

// Get handles GET /api/user/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Email:              user.Email,
		Name:               user.Name,
		Phone:              user.Phone,
		City:               user.City,
		Organization:       user.Organization,
		Role:               string(user.Role),
		NotifyOrderUpdates: user.NotifyOrderUpdates,
		NotifyMarketing:    user.NotifyMarketing,
	})
}

// Update handles PATCH /api/user/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.UpdateProfile(c.Request.Context(), CurrentUserID(c), repository.UserUpdate{
		Name:               req.Name,
		Phone:              req.Phone,
		City:               req.City,
		Organization:       req.Organization,
		NotifyOrderUpdates: req.NotifyOrderUpdates,
		NotifyMarketing:    req.NotifyMarketing,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

// RequestEmailChange handles POST /api/user/email.
func (h *ProfileHandler) RequestEmailChange(c *gin.Context) {
	var req dto.EmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.RequestEmailChange(c.Request.Context(), CurrentUserID(c), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusAccepted)
}

// ConfirmEmailChange handles GET /api/user/email/confirm.
func (h *ProfileHandler) ConfirmEmailChange(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.ConfirmEmailChange(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrTokenExpired):
			c.Status(http.StatusGone)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
