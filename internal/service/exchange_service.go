package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	"github.com/skillcircle/skillcircle-api/internal/repository"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
	"github.com/skillcircle/skillcircle-api/pkg/export"
)

type exchangeRepository interface {
	FindDetail(ctx context.Context, id string) (*dto.ExchangeRow, error)
	Create(ctx context.Context, exchange *models.SkillExchange) error
	Transition(ctx context.Context, params repository.TransitionParams) error
	List(ctx context.Context, filter models.ExchangeListFilter) ([]dto.ExchangeRow, int, error)
	ListAllForUser(ctx context.Context, userID string) ([]dto.ExchangeRow, error)
}

type exchangeSkillFinder interface {
	FindListing(ctx context.Context, id string) (*repository.OfferedSkillListing, error)
}

// Default response notes stored when the teacher omits a message.
const (
	acceptedNote = "Request accepted by teacher"
	rejectedNote = "Request rejected by teacher"
)

// ExchangeService drives the skill exchange request lifecycle: creation,
// teacher responses, status transitions, listing and history export.
type ExchangeService struct {
	repo      exchangeRepository
	skills    exchangeSkillFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExchangeService constructs an ExchangeService.
func NewExchangeService(repo exchangeRepository, skills exchangeSkillFinder, validate *validator.Validate, logger *zap.Logger) *ExchangeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExchangeService{repo: repo, skills: skills, validator: validate, logger: logger}
}

// Create opens a PENDING exchange request from the learner toward the skill
// owner. Every business check runs before the insert; the first failing
// check aborts the operation.
func (s *ExchangeService) Create(ctx context.Context, learnerID string, req dto.CreateExchangeRequest) (*dto.ExchangeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exchange payload")
	}
	format := models.ExchangeFormat(req.Format)
	if !format.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exchange format")
	}

	listing, err := s.skills.FindListing(ctx, req.OfferedSkillID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Skill not found or not available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skill")
	}

	if listing.UserID == learnerID {
		return nil, appErrors.Clone(appErrors.ErrInvalidOperation, "You cannot request your own skill")
	}
	if !listing.OwnerActive || listing.OwnerPrivate {
		return nil, appErrors.Clone(appErrors.ErrInvalidOperation, "This skill is not available for exchange")
	}

	exchange := &models.SkillExchange{
		TeacherID:      listing.UserID,
		LearnerID:      learnerID,
		OfferedSkillID: listing.ID,
		ExchangeTitle:  strings.TrimSpace(req.ExchangeTitle),
		AgreementTerms: strings.TrimSpace(req.AgreementTerms),
		Format:         format,
		EstimatedHours: req.EstimatedHours,
		Status:         models.StatusPending,
	}
	if err := s.repo.Create(ctx, exchange); err != nil {
		if errors.Is(err, repository.ErrDuplicateActive) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateRequest, "You already have an active request for this skill")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exchange request")
	}

	s.logger.Info("exchange request created",
		zap.String("exchange_id", exchange.ID),
		zap.String("learner_id", learnerID),
		zap.String("teacher_id", exchange.TeacherID),
		zap.String("skill_id", exchange.OfferedSkillID),
	)

	return s.loadDetail(ctx, exchange.ID, learnerID)
}

// Respond lets the teacher accept or reject a PENDING request. Accepting
// schedules the start; rejecting cancels the exchange. Any other current
// status is terminal for this operation.
func (s *ExchangeService) Respond(ctx context.Context, userID, exchangeID string, req dto.RespondExchangeRequest) (*dto.ExchangeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}

	row, err := s.repo.FindDetail(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Skill exchange request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exchange request")
	}

	if row.TeacherID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "You are not authorized to respond to this request")
	}
	if row.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidOperation, fmt.Sprintf("Cannot respond to request with status: %s", row.Status))
	}

	params := repository.TransitionParams{
		ID:     exchangeID,
		Expect: models.StatusPending,
	}
	if req.Action == "accept" {
		params.To = models.StatusAccepted
		params.SetScheduledStart = true
		params.ProgressNotes = noteOrDefault(req.ResponseMessage, acceptedNote)
	} else {
		params.To = models.StatusCancelled
		params.ProgressNotes = noteOrDefault(req.ResponseMessage, rejectedNote)
	}

	if err := s.transition(ctx, params, "Cannot respond to request: it is no longer pending"); err != nil {
		return nil, err
	}

	s.logger.Info("exchange request responded",
		zap.String("exchange_id", exchangeID),
		zap.String("teacher_id", userID),
		zap.String("action", req.Action),
	)

	return s.loadDetail(ctx, exchangeID, userID)
}

// Start moves an ACCEPTED exchange into IN_PROGRESS and stamps the actual
// start time. Either participant may start.
func (s *ExchangeService) Start(ctx context.Context, userID, exchangeID string) (*dto.ExchangeDetail, error) {
	return s.participantTransition(ctx, userID, exchangeID, repository.TransitionParams{
		ID:             exchangeID,
		Expect:         models.StatusAccepted,
		To:             models.StatusInProgress,
		SetActualStart: true,
	}, "Only an accepted exchange can be started")
}

// Complete moves an IN_PROGRESS exchange to COMPLETED and stamps the
// completion time. Either participant may complete.
func (s *ExchangeService) Complete(ctx context.Context, userID, exchangeID string) (*dto.ExchangeDetail, error) {
	return s.participantTransition(ctx, userID, exchangeID, repository.TransitionParams{
		ID:             exchangeID,
		Expect:         models.StatusInProgress,
		To:             models.StatusCompleted,
		SetCompletedAt: true,
	}, "Only an exchange in progress can be completed")
}

func (s *ExchangeService) participantTransition(ctx context.Context, userID, exchangeID string, params repository.TransitionParams, wrongStatusMsg string) (*dto.ExchangeDetail, error) {
	row, err := s.repo.FindDetail(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Skill exchange request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exchange request")
	}
	if row.TeacherID != userID && row.LearnerID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "You are not a participant of this exchange")
	}
	if row.Status != params.Expect {
		return nil, appErrors.Clone(appErrors.ErrInvalidOperation, wrongStatusMsg)
	}
	if err := s.transition(ctx, params, wrongStatusMsg); err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, exchangeID, userID)
}

func (s *ExchangeService) transition(ctx context.Context, params repository.TransitionParams, conflictMsg string) error {
	if err := s.repo.Transition(ctx, params); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusChanged):
			return appErrors.Clone(appErrors.ErrInvalidOperation, conflictMsg)
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "Skill exchange request not found")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exchange request")
		}
	}
	return nil
}

// List returns the user's exchanges filtered by direction and status,
// newest first, with each record annotated by the viewer's role.
func (s *ExchangeService) List(ctx context.Context, filter models.ExchangeListFilter) (*dto.ExchangeListResult, error) {
	switch filter.Type {
	case "", "all":
		filter.Type = "all"
	case "incoming", "outgoing":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown request type")
	}
	if filter.Status != "" && filter.Status != "all" && !models.ExchangeStatus(filter.Status).IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exchange status")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exchange requests")
	}

	details := make([]*dto.ExchangeDetail, 0, len(rows))
	for i := range rows {
		details = append(details, rows[i].Detail(filter.UserID))
	}

	return &dto.ExchangeListResult{
		Exchanges:  details,
		Pagination: models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// ExportHistory renders the user's full exchange history as CSV or PDF.
func (s *ExchangeService) ExportHistory(ctx context.Context, userID, format string) ([]byte, string, error) {
	rows, err := s.repo.ListAllForUser(ctx, userID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exchange history")
	}

	table := export.Table{
		Title:   "Skill Exchange History",
		Columns: []string{"Title", "Skill", "Role", "Status", "Format", "Created"},
	}
	for i := range rows {
		row := &rows[i]
		table.Rows = append(table.Rows, []string{
			row.ExchangeTitle,
			row.SkillTitle,
			models.RoleOf(&row.SkillExchange, userID),
			string(row.Status),
			string(row.Format),
			row.CreatedAt.UTC().Format("2006-01-02"),
		})
	}

	switch format {
	case "", "csv":
		payload, err := export.RenderCSV(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.RenderPDF(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown export format")
	}
}

func (s *ExchangeService) loadDetail(ctx context.Context, exchangeID, viewerID string) (*dto.ExchangeDetail, error) {
	row, err := s.repo.FindDetail(ctx, exchangeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exchange request")
	}
	return row.Detail(viewerID), nil
}

func noteOrDefault(message *string, fallback string) *string {
	if message != nil && strings.TrimSpace(*message) != "" {
		trimmed := strings.TrimSpace(*message)
		return &trimmed
	}
	note := fallback
	return &note
}
