package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillcircle/skillcircle-api/internal/models"
)

const userColumns = `id, email, full_name, bio, profile_image, location_address, location_lat, location_lng,
	is_private, show_location, show_ratings, show_skills_offered, show_skills_wanted, allow_direct_contact,
	is_setup_completed, is_active, is_verified, last_login, created_at, updated_at`

// UserRepository manages persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE LOWER(email) = LOWER($1)", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a freshly provisioned user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, full_name, profile_image, is_private, show_location, show_ratings,
		show_skills_offered, show_skills_wanted, allow_direct_contact, is_setup_completed, is_active, is_verified,
		created_at, updated_at)
		VALUES (:id, :email, :full_name, :profile_image, :is_private, :show_location, :show_ratings,
		:show_skills_offered, :show_skills_wanted, :allow_direct_contact, :is_setup_completed, :is_active, :is_verified,
		:created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// RefreshIdentity updates the display name and picture carried over from the
// identity provider on repeat sign-ins.
func (r *UserRepository) RefreshIdentity(ctx context.Context, id, fullName string, profileImage *string) error {
	const query = `UPDATE users SET full_name = $2, profile_image = COALESCE($3, profile_image), updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, fullName, profileImage, time.Now().UTC()); err != nil {
		return fmt.Errorf("refresh user identity: %w", err)
	}
	return nil
}

// UpdateLastLogin records the time of the latest successful sign-in.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ProfileParams carries the mutable profile fields written during setup.
type ProfileParams struct {
	FullName           string
	Bio                *string
	LocationAddress    *string
	LocationLat        *float64
	LocationLng        *float64
	IsPrivate          bool
	ShowLocation       bool
	ShowRatings        bool
	ShowSkillsOffered  bool
	ShowSkillsWanted   bool
	AllowDirectContact bool
}

// UpdateProfileTx applies profile-setup fields inside an existing
// transaction, marking the account set up, and returns the updated row.
func (r *UserRepository) UpdateProfileTx(ctx context.Context, tx *sqlx.Tx, id string, params ProfileParams) (*models.User, error) {
	query := fmt.Sprintf(`UPDATE users SET full_name = $2, bio = $3, location_address = $4, location_lat = $5, location_lng = $6,
		is_private = $7, show_location = $8, show_ratings = $9, show_skills_offered = $10, show_skills_wanted = $11,
		allow_direct_contact = $12, is_setup_completed = TRUE, updated_at = $13
		WHERE id = $1 RETURNING %s`, userColumns)
	var user models.User
	if err := tx.GetContext(ctx, &user, query, id, params.FullName, params.Bio,
		params.LocationAddress, params.LocationLat, params.LocationLng,
		params.IsPrivate, params.ShowLocation, params.ShowRatings,
		params.ShowSkillsOffered, params.ShowSkillsWanted, params.AllowDirectContact,
		time.Now().UTC()); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsActive reports whether a user exists and is active.
func (r *UserRepository) ExistsActive(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE id = $1 AND is_active = TRUE LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user active: %w", err)
	}
	return true, nil
}
