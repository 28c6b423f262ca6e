package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcircle/skillcircle-api/internal/models"
)

func newExchangeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func exchangeColumns() []string {
	return []string{
		"id", "teacher_id", "learner_id", "offered_skill_id", "wanted_skill_id",
		"exchange_title", "agreement_terms", "format", "estimated_hours", "status",
		"scheduled_start", "actual_start", "completed_at", "progress_notes", "created_at", "updated_at",
		"teacher_name", "teacher_image", "teacher_verified",
		"learner_name", "learner_image", "learner_verified",
		"skill_title", "skill_description", "skill_category", "skill_level",
		"wanted_title", "wanted_description", "wanted_category", "wanted_desired_level",
	}
}

func exchangeRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(exchangeColumns()).AddRow(
		"exchange-1", "maria", "alex", "skill-guitar", nil,
		"Guitar for Spanish", "Weekly sessions", "ONLINE_ONLY", nil, "PENDING",
		nil, nil, nil, nil, now, now,
		"Maria", nil, true,
		"Alex", nil, false,
		"Guitar Lessons", "Acoustic guitar from scratch", "MUSIC", "ADVANCED",
		nil, nil, nil, nil,
	)
}

func TestExchangeRepositoryFindDetail(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectQuery("SELECT e.id, .+ FROM skill_exchanges e").
		WithArgs("exchange-1").
		WillReturnRows(exchangeRow(time.Now()))

	row, err := repo.FindDetail(context.Background(), "exchange-1")
	require.NoError(t, err)
	assert.Equal(t, "maria", row.TeacherID)
	assert.Equal(t, "Guitar Lessons", row.SkillTitle)
	assert.Equal(t, models.StatusPending, row.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM skill_exchanges").
		WithArgs("alex", "skill-guitar", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO skill_exchanges").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	exchange := &models.SkillExchange{
		TeacherID:      "maria",
		LearnerID:      "alex",
		OfferedSkillID: "skill-guitar",
		Status:         models.StatusPending,
	}
	err := repo.Create(context.Background(), exchange)
	require.NoError(t, err)
	assert.NotEmpty(t, exchange.ID)
	assert.False(t, exchange.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryCreateDuplicateActive(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM skill_exchanges").
		WithArgs("alex", "skill-guitar", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("exchange-0"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.SkillExchange{
		LearnerID:      "alex",
		OfferedSkillID: "skill-guitar",
		Status:         models.StatusPending,
	})
	require.ErrorIs(t, err, ErrDuplicateActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM skill_exchanges WHERE id = .+ FOR UPDATE").
		WithArgs("exchange-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectExec("UPDATE skill_exchanges SET status = .+ WHERE id = .+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notes := "Request accepted by teacher"
	err := repo.Transition(context.Background(), TransitionParams{
		ID:                "exchange-1",
		Expect:            models.StatusPending,
		To:                models.StatusAccepted,
		ProgressNotes:     &notes,
		SetScheduledStart: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryTransitionStatusChanged(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM skill_exchanges WHERE id = .+ FOR UPDATE").
		WithArgs("exchange-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ACCEPTED"))
	mock.ExpectRollback()

	err := repo.Transition(context.Background(), TransitionParams{
		ID:     "exchange-1",
		Expect: models.StatusPending,
		To:     models.StatusCancelled,
	})
	require.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryListIncoming(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectQuery("SELECT e.id, .+ WHERE e.teacher_id = .+ ORDER BY e.created_at DESC LIMIT 10 OFFSET 0").
		WithArgs("maria").
		WillReturnRows(exchangeRow(time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM skill_exchanges e`).
		WithArgs("maria").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := repo.List(context.Background(), models.ExchangeListFilter{
		UserID: "maria",
		Type:   "incoming",
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "exchange-1", rows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryListWithStatus(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectQuery(`WHERE \(e.teacher_id = .+ OR e.learner_id = .+\) AND e.status = .+`).
		WithArgs("alex", "PENDING").
		WillReturnRows(exchangeRow(time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("alex", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), models.ExchangeListFilter{
		UserID: "alex",
		Status: "PENDING",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
