package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestDashboardAssemblesProjections(t *testing.T) {
	subjects := &fakeSubjectLister{subjects: []models.Subject{
		{ID: "sub-1", Owner: "u1", Name: "Maths", Code: "MA101", Attended: 40, Total: 50},
		{ID: "sub-2", Owner: "u1", Name: "Physics", Code: "PH101", Attended: 30, Total: 50},
	}}
	svc := NewDashboardService(subjects, nil, 75, 0, nil)

	summary, cacheHit, err := svc.Dashboard(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.False(t, cacheHit)
	require.Equal(t, 75, summary.TargetPercent)
	require.Equal(t, 70.0, summary.OverallPercentage)
	require.Len(t, summary.Subjects, 2)

	require.True(t, summary.Subjects[0].Projection.CanSkip)
	require.Equal(t, 3, summary.Subjects[0].Projection.Count)
	require.False(t, summary.Subjects[1].Projection.CanSkip)
	require.Equal(t, 30, summary.Subjects[1].Projection.Count)
}

func TestDashboardServedFromCache(t *testing.T) {
	subjects := &fakeSubjectLister{subjects: []models.Subject{
		{ID: "sub-1", Owner: "u1", Name: "Maths", Attended: 10, Total: 10},
	}}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDashboardService(subjects, cache, 75, time.Minute, nil)

	first, cacheHit, err := svc.Dashboard(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.False(t, cacheHit)

	// The second read never touches the subject store.
	subjects.subjects = nil
	second, cacheHit, err := svc.Dashboard(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.True(t, cacheHit)
	require.Equal(t, first.OverallPercentage, second.OverallPercentage)
	require.Len(t, second.Subjects, 1)
}

func TestDashboardCacheInvalidation(t *testing.T) {
	subjects := &fakeSubjectLister{subjects: []models.Subject{
		{ID: "sub-1", Owner: "u1", Name: "Maths", Attended: 10, Total: 10},
	}}
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewDashboardService(subjects, cache, 75, time.Minute, nil)

	_, _, err := svc.Dashboard(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.NotEmpty(t, repo.entries)

	require.NoError(t, cache.Invalidate(context.Background(), "dashboard:u1:*"))
	require.Empty(t, repo.entries)
}

func TestDashboardRejectsBadSemester(t *testing.T) {
	svc := NewDashboardService(&fakeSubjectLister{}, nil, 75, 0, nil)
	_, _, err := svc.Dashboard(context.Background(), "u1", 0)
	require.Error(t, err)
	_, _, err = svc.Dashboard(context.Background(), "u1", 9)
	require.Error(t, err)
}
