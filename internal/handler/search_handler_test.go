package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
)

type searchServiceMock struct {
	result     *dto.SkillSearchResult
	err        error
	lastFilter models.SkillSearchFilter
}

func (m *searchServiceMock) Search(ctx context.Context, filter models.SkillSearchFilter) (*dto.SkillSearchResult, error) {
	m.lastFilter = filter
	return m.result, m.err
}

func TestSearchHandlerParsesFilters(t *testing.T) {
	mockSvc := &searchServiceMock{result: &dto.SkillSearchResult{
		Skills:     []*dto.SkillSearchItem{},
		Pagination: models.NewPagination(2, 5, 12),
	}}
	handler := NewSearchHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/skills/search?query=guitar&category=MUSIC&experienceLevel=ADVANCED&location=lisbon&page=2&limit=5", nil)
	authed(c, "alex")

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alex", mockSvc.lastFilter.ViewerID)
	assert.Equal(t, "guitar", mockSvc.lastFilter.Query)
	assert.Equal(t, "MUSIC", mockSvc.lastFilter.Category)
	assert.Equal(t, "ADVANCED", mockSvc.lastFilter.ExperienceLevel)
	assert.Equal(t, "lisbon", mockSvc.lastFilter.Location)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 5, mockSvc.lastFilter.Limit)
}

func TestSearchHandlerDefaultsWindow(t *testing.T) {
	mockSvc := &searchServiceMock{result: &dto.SkillSearchResult{Pagination: models.NewPagination(1, 12, 0)}}
	handler := NewSearchHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/skills/search?page=abc", nil)
	authed(c, "alex")

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mockSvc.lastFilter.Page)
	assert.Equal(t, 12, mockSvc.lastFilter.Limit)
}

func TestSearchHandlerUnauthenticated(t *testing.T) {
	handler := NewSearchHandler(&searchServiceMock{})

	c, w := testContext(t, http.MethodGet, "/skills/search", nil)
	handler.Search(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
