package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	"github.com/skillcircle/skillcircle-api/internal/repository"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type profileUserRepository interface {
	UpdateProfileTx(ctx context.Context, tx *sqlx.Tx, id string, params repository.ProfileParams) (*models.User, error)
}

type profileAvailabilityRepository interface {
	ReplaceTx(ctx context.Context, tx *sqlx.Tx, availability *models.Availability) error
}

type profileSkillRepository interface {
	CreateOfferedTx(ctx context.Context, tx *sqlx.Tx, skill *models.SkillOffered) error
	CreateWantedTx(ctx context.Context, tx *sqlx.Tx, skill *models.SkillWanted) error
}

// ProfileService handles the one-shot onboarding flow. The whole payload
// commits in a single transaction so a half-configured profile can never be
// observed.
type ProfileService struct {
	db           txProvider
	users        profileUserRepository
	availability profileAvailabilityRepository
	skills       profileSkillRepository
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db txProvider, users profileUserRepository, availability profileAvailabilityRepository, skills profileSkillRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		db:           db,
		users:        users,
		availability: availability,
		skills:       skills,
		cache:        cache,
		validator:    validate,
		logger:       logger,
	}
}

// Setup validates and commits the full onboarding payload: profile fields,
// privacy flags, availability and initial skills. Completing setup marks the
// account discoverable, so cached search pages are invalidated afterwards.
func (s *ProfileService) Setup(ctx context.Context, userID string, req dto.ProfileSetupRequest) (_ *dto.ProfileSetupResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if err := validateSetup(req); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start profile setup")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	params := repository.ProfileParams{
		FullName:           strings.TrimSpace(req.Name),
		Bio:                req.Bio,
		IsPrivate:          req.Privacy.IsPrivate,
		ShowLocation:       req.Privacy.ShowLocation,
		ShowRatings:        req.Privacy.ShowRatings,
		ShowSkillsOffered:  req.Privacy.ShowSkillsOffered,
		ShowSkillsWanted:   req.Privacy.ShowSkillsWanted,
		AllowDirectContact: req.Privacy.AllowDirectContact,
	}
	if req.Location != nil {
		params.LocationAddress = req.Location.Address
		if req.Location.Position != nil {
			lat, lng := req.Location.Position.Lat, req.Location.Position.Lng
			params.LocationLat = &lat
			params.LocationLng = &lng
		}
	}

	user, err := s.users.UpdateProfileTx(ctx, tx, userID, params)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	availability := &models.Availability{
		UserID:          userID,
		DaysOfWeek:      strings.Join(req.Availability.DaysOfWeek, ","),
		TimeSlots:       strings.Join(req.Availability.TimeSlots, ","),
		SessionDuration: models.SessionDuration(req.Availability.SessionDuration),
		Timezone:        req.Availability.Timezone,
		IsRecurring:     req.Availability.IsRecurring,
	}
	if err = s.availability.ReplaceTx(ctx, tx, availability); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}

	offered := make([]models.SkillOffered, 0, len(req.SkillsOffered))
	for _, in := range req.SkillsOffered {
		skill := models.SkillOffered{
			ID:                uuid.NewString(),
			UserID:            userID,
			Title:             strings.TrimSpace(in.Title),
			Description:       strings.TrimSpace(in.Description),
			Category:          models.SkillCategory(in.Category),
			ExperienceLevel:   models.ExperienceLevel(in.ExperienceLevel),
			YearsOfExperience: in.YearsOfExperience,
			IsActive:          true,
			IsPublic:          true,
		}
		if err = s.skills.CreateOfferedTx(ctx, tx, &skill); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save offered skill")
		}
		offered = append(offered, skill)
	}

	wanted := make([]models.SkillWanted, 0, len(req.SkillsWanted))
	for _, in := range req.SkillsWanted {
		skill := models.SkillWanted{
			ID:           uuid.NewString(),
			UserID:       userID,
			Title:        strings.TrimSpace(in.Title),
			Description:  strings.TrimSpace(in.Description),
			Category:     models.SkillCategory(in.Category),
			DesiredLevel: models.ExperienceLevel(in.DesiredLevel),
		}
		if in.CurrentLevel != nil {
			level := models.ExperienceLevel(*in.CurrentLevel)
			skill.CurrentLevel = &level
		}
		if err = s.skills.CreateWantedTx(ctx, tx, &skill); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wanted skill")
		}
		wanted = append(wanted, skill)
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit profile setup")
	}

	if cacheErr := s.cache.Invalidate(ctx, SearchKeyPattern); cacheErr != nil {
		s.logger.Warn("search cache invalidation failed", zap.Error(cacheErr))
	}

	s.logger.Info("profile setup completed",
		zap.String("user_id", userID),
		zap.Int("skills_offered", len(offered)),
		zap.Int("skills_wanted", len(wanted)),
	)

	return &dto.ProfileSetupResult{
		User:          user,
		Availability:  availability,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}, nil
}

func validateSetup(req dto.ProfileSetupRequest) error {
	if len(req.SkillsOffered) == 0 && len(req.SkillsWanted) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "At least one skill (offered or wanted) is required")
	}

	for _, day := range req.Availability.DaysOfWeek {
		if !models.DayOfWeek(day).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week: %s", day))
		}
	}
	for _, slot := range req.Availability.TimeSlots {
		if !models.TimeSlot(slot).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot: %s", slot))
		}
	}
	if !models.SessionDuration(req.Availability.SessionDuration).IsValid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown session duration")
	}

	for _, skill := range req.SkillsOffered {
		if !models.SkillCategory(skill.Category).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown skill category: %s", skill.Category))
		}
		if !models.ExperienceLevel(skill.ExperienceLevel).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown experience level: %s", skill.ExperienceLevel))
		}
	}
	for _, skill := range req.SkillsWanted {
		if !models.SkillCategory(skill.Category).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown skill category: %s", skill.Category))
		}
		if !models.ExperienceLevel(skill.DesiredLevel).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown experience level: %s", skill.DesiredLevel))
		}
		if skill.CurrentLevel != nil && !models.ExperienceLevel(*skill.CurrentLevel).IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown experience level: %s", *skill.CurrentLevel))
		}
	}
	return nil
}
