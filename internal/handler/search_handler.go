package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
	"github.com/skillcircle/skillcircle-api/pkg/response"
)

type searchService interface {
	Search(ctx context.Context, filter models.SkillSearchFilter) (*dto.SkillSearchResult, error)
}

// SearchHandler exposes skill discovery endpoints.
type SearchHandler struct {
	service searchService
}

// NewSearchHandler builds a new handler.
func NewSearchHandler(service searchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search godoc
// @Summary Search discoverable skills
// @Tags Skills
// @Produce json
// @Security BearerAuth
// @Param query query string false "Text matched against title and description"
// @Param category query string false "Skill category or ALL"
// @Param experienceLevel query string false "Experience level or ALL"
// @Param location query string false "Location substring"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 12, max 50)"
// @Success 200 {object} response.Envelope
// @Router /skills/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.SkillSearchFilter{
		ViewerID:        claims.UserID,
		Query:           c.Query("query"),
		Category:        c.Query("category"),
		ExperienceLevel: c.Query("experienceLevel"),
		Location:        c.Query("location"),
		Page:            queryInt(c, "page", 1),
		Limit:           queryInt(c, "limit", 12),
	}

	result, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Skills, result.Pagination)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
