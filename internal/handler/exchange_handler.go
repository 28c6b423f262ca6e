package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
	"github.com/skillcircle/skillcircle-api/pkg/response"
)

type exchangeService interface {
	Create(ctx context.Context, learnerID string, req dto.CreateExchangeRequest) (*dto.ExchangeDetail, error)
	Respond(ctx context.Context, userID, exchangeID string, req dto.RespondExchangeRequest) (*dto.ExchangeDetail, error)
	Start(ctx context.Context, userID, exchangeID string) (*dto.ExchangeDetail, error)
	Complete(ctx context.Context, userID, exchangeID string) (*dto.ExchangeDetail, error)
	List(ctx context.Context, filter models.ExchangeListFilter) (*dto.ExchangeListResult, error)
	ExportHistory(ctx context.Context, userID, format string) ([]byte, string, error)
}

// ExchangeHandler exposes the skill exchange request endpoints.
type ExchangeHandler struct {
	service exchangeService
}

// NewExchangeHandler builds a new handler.
func NewExchangeHandler(service exchangeService) *ExchangeHandler {
	return &ExchangeHandler{service: service}
}

// Create godoc
// @Summary Open a skill exchange request
// @Tags Exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateExchangeRequest true "Exchange payload"
// @Success 200 {object} response.Envelope
// @Router /skill-exchange/create [post]
func (h *ExchangeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exchange payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail, "Skill exchange request created successfully!")
}

// Respond godoc
// @Summary Accept or reject a pending exchange request
// @Tags Exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exchange ID"
// @Param payload body dto.RespondExchangeRequest true "Response payload"
// @Success 200 {object} response.Envelope
// @Router /skill-exchange/{id}/respond [patch]
func (h *ExchangeHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	exchangeID := c.Param("id")
	if exchangeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Request ID is required"))
		return
	}

	var req dto.RespondExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	detail, err := h.service.Respond(c.Request.Context(), claims.UserID, exchangeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Request accepted successfully!"
	if req.Action == "reject" {
		message = "Request rejected successfully!"
	}
	response.Success(c, detail, message)
}

// Start godoc
// @Summary Start an accepted exchange
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exchange ID"
// @Success 200 {object} response.Envelope
// @Router /skill-exchange/{id}/start [patch]
func (h *ExchangeHandler) Start(c *gin.Context) {
	h.transition(c, h.service.Start, "Exchange started successfully!")
}

// Complete godoc
// @Summary Complete an in-progress exchange
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exchange ID"
// @Success 200 {object} response.Envelope
// @Router /skill-exchange/{id}/complete [patch]
func (h *ExchangeHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete, "Exchange completed successfully!")
}

func (h *ExchangeHandler) transition(c *gin.Context, op func(ctx context.Context, userID, exchangeID string) (*dto.ExchangeDetail, error), message string) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	exchangeID := c.Param("id")
	if exchangeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Request ID is required"))
		return
	}

	detail, err := op(c.Request.Context(), claims.UserID, exchangeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail, message)
}

// List godoc
// @Summary List the user's exchange requests
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param type query string false "all, incoming or outgoing (default all)"
// @Param status query string false "Exchange status or all"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} response.Envelope
// @Router /skill-exchange/requests [get]
func (h *ExchangeHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.ExchangeListFilter{
		UserID: claims.UserID,
		Type:   c.DefaultQuery("type", "all"),
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Exchanges, result.Pagination)
}

// Export godoc
// @Summary Export the user's exchange history
// @Tags Exchanges
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /skill-exchange/requests/export [get]
func (h *ExchangeHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportHistory(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if format == "pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("exchange-history-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
	response.File(c, contentType, filename, payload)
}
