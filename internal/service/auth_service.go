package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	RefreshIdentity(ctx context.Context, id, fullName string, profileImage *string) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// AuthConfig defines configuration for the sign-in flow.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// AuthService provisions accounts through Google sign-in and issues the
// access tokens the rest of the API authenticates with.
type AuthService struct {
	repo        authUserRepository
	oauth       *oauth2.Config
	userinfoURL string
	logger      *zap.Logger
	config      AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	oauth := &oauth2.Config{
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		RedirectURL:  config.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	return &AuthService{
		repo:        repo,
		oauth:       oauth,
		userinfoURL: googleUserinfoURL,
		logger:      logger,
		config:      config,
	}
}

// LoginURL builds the Google consent URL for the given anti-forgery state.
func (s *AuthService) LoginURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, fetches the Google
// profile and signs the user in.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*dto.AuthResult, error) {
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing authorization code")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "failed to exchange authorization code")
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	return s.SignInWithProfile(ctx, profile)
}

// SignInWithProfile upserts the account for a verified Google profile and
// issues an access token. New accounts start active and verified but not
// yet set up; returning accounts get their name and picture refreshed.
func (s *AuthService) SignInWithProfile(ctx context.Context, profile *dto.GoogleProfile) (*dto.AuthResult, error) {
	if profile.Email == "" || profile.Sub == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "incomplete Google profile")
	}

	user, err := s.repo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
		}
		var picture *string
		if profile.Picture != "" {
			picture = &profile.Picture
		}
		if err := s.repo.RefreshIdentity(ctx, user.ID, profile.Name, picture); err != nil {
			s.logger.Warn("failed to refresh identity", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			user.FullName = profile.Name
			if picture != nil {
				user.ProfileImage = picture
			}
		}
	case errors.Is(err, sql.ErrNoRows):
		user = &models.User{
			ID:         uuid.NewString(),
			Email:      profile.Email,
			FullName:   profile.Name,
			IsActive:   true,
			IsVerified: true,
		}
		if profile.Picture != "" {
			user.ProfileImage = &profile.Picture
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
		}
		s.logger.Info("account provisioned", zap.String("user_id", user.ID), zap.String("email", user.Email))
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &dto.AuthResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		User:        user,
	}, nil
}

// CurrentUser loads the authenticated user's account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	return user, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*dto.GoogleProfile, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(s.userinfoURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch Google profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Google rejected the profile request")
	}

	var profile dto.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to parse Google profile")
	}
	return &profile, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
