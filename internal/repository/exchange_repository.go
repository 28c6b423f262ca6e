package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
)

// Errors reported by check-then-act exchange operations.
var (
	// ErrDuplicateActive signals that the learner already holds an active
	// request for the same offered skill.
	ErrDuplicateActive = errors.New("active exchange already exists for this learner and skill")
	// ErrStatusChanged signals that the row's status no longer matches the
	// expected value once the row lock was acquired.
	ErrStatusChanged = errors.New("exchange status changed")
)

const exchangeJoinColumns = `e.id, e.teacher_id, e.learner_id, e.offered_skill_id, e.wanted_skill_id,
	e.exchange_title, e.agreement_terms, e.format, e.estimated_hours, e.status,
	e.scheduled_start, e.actual_start, e.completed_at, e.progress_notes, e.created_at, e.updated_at,
	t.full_name AS teacher_name, t.profile_image AS teacher_image, t.is_verified AS teacher_verified,
	l.full_name AS learner_name, l.profile_image AS learner_image, l.is_verified AS learner_verified,
	s.title AS skill_title, s.description AS skill_description, s.category AS skill_category,
	s.experience_level AS skill_level,
	w.title AS wanted_title, w.description AS wanted_description, w.category AS wanted_category,
	w.desired_level AS wanted_desired_level`

const exchangeJoinTables = `FROM skill_exchanges e
	JOIN users t ON t.id = e.teacher_id
	JOIN users l ON l.id = e.learner_id
	JOIN skills_offered s ON s.id = e.offered_skill_id
	LEFT JOIN skills_wanted w ON w.id = e.wanted_skill_id`

// ExchangeRepository manages persistence for skill exchanges.
type ExchangeRepository struct {
	db *sqlx.DB
}

// NewExchangeRepository constructs an ExchangeRepository.
func NewExchangeRepository(db *sqlx.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// FindDetail fetches an exchange joined with its participant and skill
// summaries.
func (r *ExchangeRepository) FindDetail(ctx context.Context, id string) (*dto.ExchangeRow, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.id = $1", exchangeJoinColumns, exchangeJoinTables)
	var row dto.ExchangeRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new PENDING exchange. The duplicate-active invariant is
// re-checked inside the transaction under a row lock so two concurrent
// creates for the same (learner, skill) pair cannot both commit.
func (r *ExchangeRepository) Create(ctx context.Context, exchange *models.SkillExchange) (err error) {
	if exchange.ID == "" {
		exchange.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	exchange.CreatedAt = now
	exchange.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create exchange: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	active := make([]string, 0, len(models.ActiveStatuses))
	for _, s := range models.ActiveStatuses {
		active = append(active, string(s))
	}

	var existing string
	const guardQuery = `SELECT id FROM skill_exchanges
		WHERE learner_id = $1 AND offered_skill_id = $2 AND status = ANY($3)
		LIMIT 1 FOR UPDATE`
	err = tx.GetContext(ctx, &existing, guardQuery, exchange.LearnerID, exchange.OfferedSkillID, pq.Array(active))
	if err == nil {
		err = ErrDuplicateActive
		return err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check active exchange: %w", err)
	}
	err = nil

	const insertQuery = `INSERT INTO skill_exchanges (id, teacher_id, learner_id, offered_skill_id, wanted_skill_id,
		exchange_title, agreement_terms, format, estimated_hours, status, progress_notes, created_at, updated_at)
		VALUES (:id, :teacher_id, :learner_id, :offered_skill_id, :wanted_skill_id,
		:exchange_title, :agreement_terms, :format, :estimated_hours, :status, :progress_notes, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, exchange); err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create exchange: %w", err)
	}
	return nil
}

// TransitionParams describes one guarded status move.
type TransitionParams struct {
	ID     string
	Expect models.ExchangeStatus
	To     models.ExchangeStatus

	ProgressNotes     *string
	SetScheduledStart bool
	SetActualStart    bool
	SetCompletedAt    bool
}

// Transition atomically moves an exchange to a new status. The current row is
// locked and its status compared against Expect before writing, so concurrent
// transitions on the same exchange serialize and at most one succeeds.
func (r *ExchangeRepository) Transition(ctx context.Context, params TransitionParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin exchange transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	const lockQuery = `SELECT status FROM skill_exchanges WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, params.ID); err != nil {
		return err
	}
	if models.ExchangeStatus(current) != params.Expect {
		err = ErrStatusChanged
		return err
	}

	now := time.Now().UTC()
	sets := []string{"status = $2", "updated_at = $3"}
	args := []interface{}{params.ID, string(params.To), now}
	if params.ProgressNotes != nil {
		sets = append(sets, fmt.Sprintf("progress_notes = $%d", len(args)+1))
		args = append(args, *params.ProgressNotes)
	}
	if params.SetScheduledStart {
		sets = append(sets, fmt.Sprintf("scheduled_start = $%d", len(args)+1))
		args = append(args, now)
	}
	if params.SetActualStart {
		sets = append(sets, fmt.Sprintf("actual_start = $%d", len(args)+1))
		args = append(args, now)
	}
	if params.SetCompletedAt {
		sets = append(sets, fmt.Sprintf("completed_at = $%d", len(args)+1))
		args = append(args, now)
	}

	updateQuery := fmt.Sprintf("UPDATE skill_exchanges SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err = tx.ExecContext(ctx, updateQuery, args...); err != nil {
		return fmt.Errorf("update exchange status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit exchange transition: %w", err)
	}
	return nil
}

// List returns a page of exchanges involving the user plus the total count.
// Type narrows to the teacher side (incoming) or learner side (outgoing).
func (r *ExchangeRepository) List(ctx context.Context, filter models.ExchangeListFilter) ([]dto.ExchangeRow, int, error) {
	var conditions []string
	var args []interface{}

	switch filter.Type {
	case "incoming":
		conditions = append(conditions, fmt.Sprintf("e.teacher_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	case "outgoing":
		conditions = append(conditions, fmt.Sprintf("e.learner_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	default:
		conditions = append(conditions, fmt.Sprintf("(e.teacher_id = $%d OR e.learner_id = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.UserID)
	}

	if filter.Status != "" && filter.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s %s ORDER BY e.created_at DESC LIMIT %d OFFSET %d",
		exchangeJoinColumns, exchangeJoinTables, where, limit, offset)
	var rows []dto.ExchangeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list exchanges: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", exchangeJoinTables, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count exchanges: %w", err)
	}

	return rows, total, nil
}

// ListAllForUser returns every exchange involving the user, newest first.
// Used by the history export.
func (r *ExchangeRepository) ListAllForUser(ctx context.Context, userID string) ([]dto.ExchangeRow, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.teacher_id = $1 OR e.learner_id = $1 ORDER BY e.created_at DESC",
		exchangeJoinColumns, exchangeJoinTables)
	var rows []dto.ExchangeRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list exchange history: %w", err)
	}
	return rows, nil
}
