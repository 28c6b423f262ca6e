package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
)

// SkillRepository manages persistence for offered and wanted skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs a SkillRepository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// OfferedSkillListing joins an offered skill with the owner flags the
// exchange engine checks at creation time.
type OfferedSkillListing struct {
	models.SkillOffered

	OwnerActive  bool `db:"owner_active"`
	OwnerPrivate bool `db:"owner_private"`
}

// FindListing fetches an active, public offered skill together with its
// owner's availability flags. Inactive or unlisted skills are reported as
// sql.ErrNoRows, matching the not-found contract.
func (r *SkillRepository) FindListing(ctx context.Context, id string) (*OfferedSkillListing, error) {
	const query = `SELECT s.id, s.user_id, s.title, s.description, s.category, s.experience_level,
		s.years_of_experience, s.is_active, s.is_public, s.created_at, s.updated_at,
		u.is_active AS owner_active, u.is_private AS owner_private
		FROM skills_offered s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.is_active = TRUE AND s.is_public = TRUE`
	var listing OfferedSkillListing
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		return nil, err
	}
	return &listing, nil
}

// Search composes the filtered, paginated skill query plus a matching count.
// All filters are ANDed; owner privacy flags gate visibility to the viewer.
func (r *SkillRepository) Search(ctx context.Context, filter models.SkillSearchFilter) ([]dto.SkillSearchRow, int, error) {
	base := `FROM skills_offered s
		JOIN users u ON u.id = s.user_id
		WHERE s.is_active = TRUE AND s.is_public = TRUE
		AND u.is_active = TRUE AND u.is_private = FALSE AND u.show_skills_offered = TRUE`
	var conditions []string
	var args []interface{}

	conditions = append(conditions, fmt.Sprintf("s.user_id <> $%d", len(args)+1))
	args = append(args, filter.ViewerID)

	if q := strings.TrimSpace(filter.Query); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.title) LIKE $%d OR LOWER(s.description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, needle)
	}
	if filter.Category != "" && filter.Category != "ALL" {
		conditions = append(conditions, fmt.Sprintf("s.category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.ExperienceLevel != "" && filter.ExperienceLevel != "ALL" {
		conditions = append(conditions, fmt.Sprintf("s.experience_level = $%d", len(args)+1))
		args = append(args, filter.ExperienceLevel)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		conditions = append(conditions, "u.show_location = TRUE")
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(u.location_address, '')) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}

	base += " AND " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT s.id, s.user_id, s.title, s.description, s.category, s.experience_level,
		s.years_of_experience, s.is_active, s.is_public, s.created_at, s.updated_at,
		u.full_name AS owner_name, u.profile_image AS owner_image, u.bio AS owner_bio,
		u.location_address AS owner_location, u.show_location AS owner_show_location, u.is_verified AS owner_verified
		%s ORDER BY s.created_at DESC LIMIT %d OFFSET %d`, base, limit, offset)

	var rows []dto.SkillSearchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search skills: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count skills: %w", err)
	}

	return rows, total, nil
}

// CreateOfferedTx inserts an offered skill within an existing transaction.
func (r *SkillRepository) CreateOfferedTx(ctx context.Context, tx *sqlx.Tx, skill *models.SkillOffered) error {
	now := time.Now().UTC()
	skill.CreatedAt = now
	skill.UpdatedAt = now
	const query = `INSERT INTO skills_offered (id, user_id, title, description, category, experience_level,
		years_of_experience, is_active, is_public, created_at, updated_at)
		VALUES (:id, :user_id, :title, :description, :category, :experience_level,
		:years_of_experience, :is_active, :is_public, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, skill); err != nil {
		return fmt.Errorf("create offered skill: %w", err)
	}
	return nil
}

// CreateWantedTx inserts a wanted skill within an existing transaction.
func (r *SkillRepository) CreateWantedTx(ctx context.Context, tx *sqlx.Tx, skill *models.SkillWanted) error {
	skill.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO skills_wanted (id, user_id, title, description, category, current_level, desired_level, created_at)
		VALUES (:id, :user_id, :title, :description, :category, :current_level, :desired_level, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, skill); err != nil {
		return fmt.Errorf("create wanted skill: %w", err)
	}
	return nil
}
