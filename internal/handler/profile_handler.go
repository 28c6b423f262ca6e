package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
	"github.com/skillcircle/skillcircle-api/pkg/response"
)

type profileService interface {
	Setup(ctx context.Context, userID string, req dto.ProfileSetupRequest) (*dto.ProfileSetupResult, error)
}

// ProfileHandler exposes the onboarding endpoint.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Setup godoc
// @Summary Complete profile onboarding in one transaction
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ProfileSetupRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /profile/setup [post]
func (h *ProfileHandler) Setup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ProfileSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	result, err := h.service.Setup(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "Profile setup completed successfully!")
}
