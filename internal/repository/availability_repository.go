package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillcircle/skillcircle-api/internal/models"
)

// AvailabilityRepository manages the one-per-user availability window rows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// FindByUser fetches the availability row for a user.
func (r *AvailabilityRepository) FindByUser(ctx context.Context, userID string) (*models.Availability, error) {
	const query = `SELECT id, user_id, days_of_week, time_slots, session_duration, timezone, is_recurring, created_at, updated_at
		FROM availabilities WHERE user_id = $1`
	var availability models.Availability
	if err := r.db.GetContext(ctx, &availability, query, userID); err != nil {
		return nil, err
	}
	return &availability, nil
}

// ReplaceTx swaps the user's availability inside an existing transaction.
// The row set is fully replaceable on setup, so delete-then-insert keeps the
// one-per-user shape without an upsert.
func (r *AvailabilityRepository) ReplaceTx(ctx context.Context, tx *sqlx.Tx, availability *models.Availability) error {
	if availability.ID == "" {
		availability.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	availability.CreatedAt = now
	availability.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `DELETE FROM availabilities WHERE user_id = $1`, availability.UserID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	const query = `INSERT INTO availabilities (id, user_id, days_of_week, time_slots, session_duration, timezone, is_recurring, created_at, updated_at)
		VALUES (:id, :user_id, :days_of_week, :time_slots, :session_duration, :timezone, :is_recurring, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, availability); err != nil {
		return fmt.Errorf("insert availability: %w", err)
	}
	return nil
}
