package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 5, 12)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, p.TotalCount)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
	assert.Equal(t, 5, p.Limit)
}

func TestNewPaginationEdges(t *testing.T) {
	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)

	exact := NewPagination(2, 6, 12)
	assert.Equal(t, 2, exact.TotalPages)
	assert.False(t, exact.HasNextPage)

	last := NewPagination(3, 5, 12)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)
}

func TestRoleOf(t *testing.T) {
	exchange := &SkillExchange{TeacherID: "maria", LearnerID: "alex"}
	assert.Equal(t, "teacher", RoleOf(exchange, "maria"))
	assert.Equal(t, "learner", RoleOf(exchange, "alex"))
	assert.Equal(t, "learner", RoleOf(nil, "anyone"))
}

func TestExchangeStatusIsValid(t *testing.T) {
	for _, status := range []ExchangeStatus{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, ExchangeStatus("SHOUTING").IsValid())
}

func TestActiveStatuses(t *testing.T) {
	assert.Contains(t, ActiveStatuses, StatusPending)
	assert.Contains(t, ActiveStatuses, StatusAccepted)
	assert.Contains(t, ActiveStatuses, StatusInProgress)
	assert.NotContains(t, ActiveStatuses, StatusCompleted)
	assert.NotContains(t, ActiveStatuses, StatusCancelled)
}
