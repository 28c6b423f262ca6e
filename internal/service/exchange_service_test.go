package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	"github.com/skillcircle/skillcircle-api/internal/repository"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
)

type exchangeRepoStub struct {
	rows          map[string]*dto.ExchangeRow
	created       []*models.SkillExchange
	createErr     error
	transitions   []repository.TransitionParams
	transitionErr error
	listRows      []dto.ExchangeRow
	listTotal     int
	listErr       error
	listFilter    models.ExchangeListFilter
}

func (s *exchangeRepoStub) FindDetail(ctx context.Context, id string) (*dto.ExchangeRow, error) {
	if row, ok := s.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *exchangeRepoStub) Create(ctx context.Context, exchange *models.SkillExchange) error {
	if s.createErr != nil {
		return s.createErr
	}
	if exchange.ID == "" {
		exchange.ID = "exchange-1"
	}
	s.created = append(s.created, exchange)
	if s.rows == nil {
		s.rows = make(map[string]*dto.ExchangeRow)
	}
	s.rows[exchange.ID] = &dto.ExchangeRow{
		SkillExchange: *exchange,
		TeacherName:   "Teacher",
		LearnerName:   "Learner",
		SkillTitle:    "Guitar Lessons",
	}
	return nil
}

func (s *exchangeRepoStub) Transition(ctx context.Context, params repository.TransitionParams) error {
	if s.transitionErr != nil {
		return s.transitionErr
	}
	s.transitions = append(s.transitions, params)
	row, ok := s.rows[params.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if row.Status != params.Expect {
		return repository.ErrStatusChanged
	}
	row.Status = params.To
	if params.ProgressNotes != nil {
		row.ProgressNotes = params.ProgressNotes
	}
	now := time.Now().UTC()
	if params.SetScheduledStart {
		row.ScheduledStart = &now
	}
	if params.SetActualStart {
		row.ActualStart = &now
	}
	if params.SetCompletedAt {
		row.CompletedAt = &now
	}
	return nil
}

func (s *exchangeRepoStub) List(ctx context.Context, filter models.ExchangeListFilter) ([]dto.ExchangeRow, int, error) {
	s.listFilter = filter
	return s.listRows, s.listTotal, s.listErr
}

func (s *exchangeRepoStub) ListAllForUser(ctx context.Context, userID string) ([]dto.ExchangeRow, error) {
	return s.listRows, s.listErr
}

type skillFinderStub struct {
	listings map[string]*repository.OfferedSkillListing
	err      error
}

func (s skillFinderStub) FindListing(ctx context.Context, id string) (*repository.OfferedSkillListing, error) {
	if s.err != nil {
		return nil, s.err
	}
	if listing, ok := s.listings[id]; ok {
		return listing, nil
	}
	return nil, sql.ErrNoRows
}

func guitarListing() *repository.OfferedSkillListing {
	return &repository.OfferedSkillListing{
		SkillOffered: models.SkillOffered{
			ID:       "skill-guitar",
			UserID:   "maria",
			Title:    "Guitar Lessons",
			IsActive: true,
			IsPublic: true,
		},
		OwnerActive: true,
	}
}

func createReq() dto.CreateExchangeRequest {
	return dto.CreateExchangeRequest{
		OfferedSkillID: "skill-guitar",
		ExchangeTitle:  "Guitar for Spanish",
		AgreementTerms: "Weekly one hour sessions, alternating subjects",
		Format:         "ONLINE_ONLY",
	}
}

func pendingRow(id, teacherID, learnerID string) *dto.ExchangeRow {
	return &dto.ExchangeRow{
		SkillExchange: models.SkillExchange{
			ID:             id,
			TeacherID:      teacherID,
			LearnerID:      learnerID,
			OfferedSkillID: "skill-guitar",
			ExchangeTitle:  "Guitar for Spanish",
			Status:         models.StatusPending,
		},
		TeacherName: "Maria",
		LearnerName: "Alex",
		SkillTitle:  "Guitar Lessons",
	}
}

func TestExchangeServiceCreate(t *testing.T) {
	repo := &exchangeRepoStub{}
	skills := skillFinderStub{listings: map[string]*repository.OfferedSkillListing{"skill-guitar": guitarListing()}}
	svc := NewExchangeService(repo, skills, nil, zap.NewNop())

	detail, err := svc.Create(context.Background(), "alex", createReq())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.StatusPending, repo.created[0].Status)
	assert.Equal(t, "maria", repo.created[0].TeacherID)
	assert.Equal(t, "alex", repo.created[0].LearnerID)
	assert.Equal(t, "learner", detail.UserRole)
}

func TestExchangeServiceCreateSkillNotFound(t *testing.T) {
	svc := NewExchangeService(&exchangeRepoStub{}, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "alex", createReq())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Skill not found or not available", appErr.Message)
}

func TestExchangeServiceCreateOwnSkill(t *testing.T) {
	skills := skillFinderStub{listings: map[string]*repository.OfferedSkillListing{"skill-guitar": guitarListing()}}
	svc := NewExchangeService(&exchangeRepoStub{}, skills, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "maria", createReq())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "You cannot request your own skill", appErr.Message)
}

func TestExchangeServiceCreateOwnerUnavailable(t *testing.T) {
	listing := guitarListing()
	listing.OwnerActive = false
	skills := skillFinderStub{listings: map[string]*repository.OfferedSkillListing{"skill-guitar": listing}}
	svc := NewExchangeService(&exchangeRepoStub{}, skills, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "alex", createReq())
	require.Error(t, err)
	assert.Equal(t, "This skill is not available for exchange", appErrors.FromError(err).Message)
}

func TestExchangeServiceCreateDuplicateActive(t *testing.T) {
	repo := &exchangeRepoStub{createErr: repository.ErrDuplicateActive}
	skills := skillFinderStub{listings: map[string]*repository.OfferedSkillListing{"skill-guitar": guitarListing()}}
	svc := NewExchangeService(repo, skills, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "alex", createReq())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "You already have an active request for this skill", appErr.Message)
}

func TestExchangeServiceRespondAccept(t *testing.T) {
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	detail, err := svc.Respond(context.Background(), "maria", "exchange-1", dto.RespondExchangeRequest{Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, detail.Status)
	assert.Equal(t, "teacher", detail.UserRole)
	require.NotNil(t, detail.ScheduledStart)
	require.NotNil(t, detail.ProgressNotes)
	assert.Equal(t, "Request accepted by teacher", *detail.ProgressNotes)

	require.Len(t, repo.transitions, 1)
	assert.Equal(t, models.StatusPending, repo.transitions[0].Expect)
	assert.True(t, repo.transitions[0].SetScheduledStart)
}

func TestExchangeServiceRespondReject(t *testing.T) {
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	message := "Schedule is full this month"
	detail, err := svc.Respond(context.Background(), "maria", "exchange-1", dto.RespondExchangeRequest{Action: "reject", ResponseMessage: &message})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, detail.Status)
	require.NotNil(t, detail.ProgressNotes)
	assert.Equal(t, message, *detail.ProgressNotes)
	assert.Nil(t, detail.ScheduledStart)
}

func TestExchangeServiceRespondNotTeacher(t *testing.T) {
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Respond(context.Background(), "alex", "exchange-1", dto.RespondExchangeRequest{Action: "accept"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "You are not authorized to respond to this request", appErr.Message)
	assert.Empty(t, repo.transitions)
}

func TestExchangeServiceRespondNotFound(t *testing.T) {
	svc := NewExchangeService(&exchangeRepoStub{}, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Respond(context.Background(), "maria", "missing", dto.RespondExchangeRequest{Action: "accept"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Skill exchange request not found", appErr.Message)
}

func TestExchangeServiceRespondTwice(t *testing.T) {
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Respond(context.Background(), "maria", "exchange-1", dto.RespondExchangeRequest{Action: "accept"})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), "maria", "exchange-1", dto.RespondExchangeRequest{Action: "reject"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.True(t, strings.HasPrefix(appErr.Message, "Cannot respond to request with status:"), appErr.Message)
	require.Len(t, repo.transitions, 1)
}

func TestExchangeServiceRespondLostRace(t *testing.T) {
	repo := &exchangeRepoStub{
		rows:          map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")},
		transitionErr: repository.ErrStatusChanged,
	}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Respond(context.Background(), "maria", "exchange-1", dto.RespondExchangeRequest{Action: "accept"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestExchangeServiceStartAndComplete(t *testing.T) {
	row := pendingRow("exchange-1", "maria", "alex")
	row.Status = models.StatusAccepted
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": row}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	detail, err := svc.Start(context.Background(), "alex", "exchange-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, detail.Status)
	require.NotNil(t, detail.ActualStart)

	detail, err = svc.Complete(context.Background(), "maria", "exchange-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, detail.Status)
	require.NotNil(t, detail.CompletedAt)
}

func TestExchangeServiceStartRequiresAccepted(t *testing.T) {
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": pendingRow("exchange-1", "maria", "alex")}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Start(context.Background(), "alex", "exchange-1")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestExchangeServiceStartNonParticipant(t *testing.T) {
	row := pendingRow("exchange-1", "maria", "alex")
	row.Status = models.StatusAccepted
	repo := &exchangeRepoStub{rows: map[string]*dto.ExchangeRow{"exchange-1": row}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.Start(context.Background(), "intruder", "exchange-1")
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestExchangeServiceList(t *testing.T) {
	rows := []dto.ExchangeRow{
		*pendingRow("exchange-1", "maria", "alex"),
		*pendingRow("exchange-2", "alex", "bob"),
	}
	repo := &exchangeRepoStub{listRows: rows, listTotal: 12}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	result, err := svc.List(context.Background(), models.ExchangeListFilter{UserID: "alex", Type: "all", Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, result.Exchanges, 2)
	assert.Equal(t, "learner", result.Exchanges[0].UserRole)
	assert.Equal(t, "teacher", result.Exchanges[1].UserRole)
	assert.Equal(t, 2, result.Pagination.CurrentPage)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Equal(t, 12, result.Pagination.TotalCount)
	assert.True(t, result.Pagination.HasNextPage)
	assert.True(t, result.Pagination.HasPrevPage)
}

func TestExchangeServiceListDefaultsAndValidation(t *testing.T) {
	repo := &exchangeRepoStub{}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	_, err := svc.List(context.Background(), models.ExchangeListFilter{UserID: "alex"})
	require.NoError(t, err)
	assert.Equal(t, "all", repo.listFilter.Type)
	assert.Equal(t, 1, repo.listFilter.Page)
	assert.Equal(t, 10, repo.listFilter.Limit)

	_, err = svc.List(context.Background(), models.ExchangeListFilter{UserID: "alex", Type: "sideways"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.List(context.Background(), models.ExchangeListFilter{UserID: "alex", Status: "SHOUTING"})
	require.Error(t, err)
}

func TestExchangeServiceExportCSV(t *testing.T) {
	row := pendingRow("exchange-1", "maria", "alex")
	row.CreatedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := &exchangeRepoStub{listRows: []dto.ExchangeRow{*row}}
	svc := NewExchangeService(repo, skillFinderStub{}, nil, zap.NewNop())

	payload, contentType, err := svc.ExportHistory(context.Background(), "alex", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(payload)
	assert.Contains(t, body, "Guitar Lessons")
	assert.Contains(t, body, "learner")
	assert.Contains(t, body, "2026-03-14")
}

func TestExchangeServiceExportUnknownFormat(t *testing.T) {
	svc := NewExchangeService(&exchangeRepoStub{}, skillFinderStub{}, nil, zap.NewNop())

	_, _, err := svc.ExportHistory(context.Background(), "alex", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
