package dao

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/domain"
	"github.com/haierkeys/chrono-journal-service/internal/model"
	"github.com/haierkeys/chrono-journal-service/pkg/mood"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContent = `{"type":"doc","content":[]}`

func newTestRepo(t *testing.T) (*Dao, domain.EntryRepository) {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        TypeSqlite,
		Path:        filepath.Join(t.TempDir(), "db", "chrono.db"),
		TablePrefix: "t_",
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)

	d := New(db, TypeSqlite, nil)
	t.Cleanup(func() { _ = d.Close() })
	return d, NewEntryRepository(d)
}

func TestNewDBEngine_Tracing(t *testing.T) {
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        TypeSqlite,
		Path:        filepath.Join(t.TempDir(), "traced.db"),
		TablePrefix: "t_",
		AutoMigrate: true,
		Tracing:     true,
	}, nil)
	require.NoError(t, err)
	d := New(db, TypeSqlite, nil)
	t.Cleanup(func() { _ = d.Close() })

	repo := NewEntryRepository(d)
	e := seed(t, repo, "u1", "2024-03-01", time.Now(), []mood.Mood{mood.Flow}, false)
	got, err := repo.GetByID(context.Background(), e.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []mood.Mood{mood.Flow}, got.Moods)
}

func seed(t *testing.T, repo domain.EntryRepository, uid, date string, created time.Time, moods []mood.Mood, notable bool) *domain.Entry {
	t.Helper()
	dm, _ := mood.DominantMood(moods)
	e, err := repo.Create(context.Background(), &domain.Entry{
		UID:          uid,
		Date:         timex.MustParseDate(date),
		Content:      json.RawMessage(testContent),
		Moods:        moods,
		DominantMood: dm,
		Notable:      notable,
		CreatedAt:    created,
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func ids(entries []*domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestEntryRepository_CreateAndGet(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	title := "Shipped the importer"

	created, err := repo.Create(ctx, &domain.Entry{
		UID:          "u1",
		Date:         timex.MustParseDate("2024-03-01"),
		Title:        &title,
		Content:      json.RawMessage(testContent),
		Moods:        []mood.Mood{mood.Flow, mood.Learning},
		DominantMood: mood.Flow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Notable)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-01", got.Date.String())
	assert.Equal(t, []mood.Mood{mood.Flow, mood.Learning}, got.Moods)
	assert.Equal(t, mood.Flow, got.DominantMood)
	require.NotNil(t, got.Title)
	assert.Equal(t, title, *got.Title)
	assert.JSONEq(t, testContent, string(got.Content))

	// 其他用户不可见
	other, err := repo.GetByID(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, other)

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000", "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntryRepository_EmptyMoods(t *testing.T) {
	_, repo := newTestRepo(t)
	e := seed(t, repo, "u1", "2024-03-01", time.Time{}, nil, false)

	got, err := repo.GetByID(context.Background(), e.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Moods)
	assert.NotNil(t, got.Moods)
	assert.False(t, got.HasDominantMood())
}

func TestEntryRepository_CorruptMoods(t *testing.T) {
	d, repo := newTestRepo(t)
	e := seed(t, repo, "u1", "2024-03-01", time.Now(), []mood.Mood{mood.Flow}, false)

	require.NoError(t, d.Db.Model(&model.Entry{}).Where("id = ?", e.ID).UpdateColumn("moods", "not json").Error)

	_, err := repo.GetByID(context.Background(), e.ID, "u1")
	assert.Error(t, err)
}

func TestEntryRepository_ListFiltersAndOrder(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	a := seed(t, repo, "u1", "2024-03-01", base, []mood.Mood{mood.Flow}, true)
	b := seed(t, repo, "u1", "2024-03-02", base, []mood.Mood{mood.Buggy, mood.Flow}, false)
	c := seed(t, repo, "u1", "2024-03-02", base.Add(time.Hour), []mood.Mood{mood.Meetings}, true)
	d := seed(t, repo, "u1", "2024-03-05", base, []mood.Mood{mood.Standard}, false)
	seed(t, repo, "u2", "2024-03-02", base, []mood.Mood{mood.Flow}, true)

	notable := true
	start := timex.MustParseDate("2024-03-02")
	end := timex.MustParseDate("2024-03-04")

	tests := []struct {
		name   string
		filter domain.EntryFilter
		want   []string
	}{
		{"all newest first", domain.EntryFilter{}, []string{d.ID, c.ID, b.ID, a.ID}},
		{"mood membership", domain.EntryFilter{Mood: mood.Flow}, []string{b.ID, a.ID}},
		{"dominant mood", domain.EntryFilter{DominantMood: mood.Buggy}, []string{b.ID}},
		{"notable", domain.EntryFilter{Notable: &notable}, []string{c.ID, a.ID}},
		{"inclusive range", domain.EntryFilter{Start: &start, End: &end}, []string{c.ID, b.ID}},
		{"conjunctive", domain.EntryFilter{Start: &start, Mood: mood.Flow}, []string{b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, "u1", tt.filter, domain.Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			total, err := repo.Count(ctx, "u1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}

	page, err := repo.List(ctx, "u1", domain.EntryFilter{}, domain.Pagination{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, b.ID}, ids(page))
}

func TestEntryRepository_MoodTokenIsExact(t *testing.T) {
	_, repo := newTestRepo(t)
	e := seed(t, repo, "u1", "2024-03-01", time.Time{}, []mood.Mood{mood.Learning}, false)

	got, err := repo.List(context.Background(), "u1", domain.EntryFilter{Mood: mood.Learning}, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{e.ID}, ids(got))

	got, err = repo.List(context.Background(), "u1", domain.EntryFilter{Mood: mood.Flow}, domain.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntryRepository_ListByDateRangeAscending(t *testing.T) {
	_, repo := newTestRepo(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := seed(t, repo, "u1", "2024-03-02", base.Add(time.Hour), nil, false)
	early := seed(t, repo, "u1", "2024-03-02", base, nil, false)
	first := seed(t, repo, "u1", "2024-03-01", base, nil, false)
	seed(t, repo, "u1", "2024-03-09", base, nil, false)

	got, err := repo.ListByDateRange(context.Background(), "u1",
		timex.MustParseDate("2024-03-01"), timex.MustParseDate("2024-03-02"))
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, early.ID, late.ID}, ids(got))
}

func TestEntryRepository_Update(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	e := seed(t, repo, "u1", "2024-03-01", time.Time{}, []mood.Mood{mood.Flow}, true)

	title := "new title"
	buggy := mood.Buggy
	bullets := []string{"fixed flaky test"}
	updated, err := repo.Update(ctx, e.ID, "u1", domain.EntryPatch{
		Title:            &title,
		Content:          json.RawMessage(`{"type":"doc","content":[{"type":"moodBlock","attrs":{"mood":"buggy"}}]}`),
		Moods:            []mood.Mood{mood.Buggy},
		DominantMood:     &buggy,
		SuggestedBullets: &bullets,
		NotableSuggestion: &domain.NotableSuggestion{
			Suggested:  true,
			Reasoning:  "unblocked release",
			Confidence: domain.ConfidenceHigh,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, title, *updated.Title)
	assert.Equal(t, []mood.Mood{mood.Buggy}, updated.Moods)
	assert.Equal(t, mood.Buggy, updated.DominantMood)
	assert.True(t, updated.Notable, "untouched fields keep their value")
	assert.Equal(t, bullets, updated.SuggestedBullets)
	require.NotNil(t, updated.NotableSuggestion)
	assert.Equal(t, domain.ConfidenceHigh, updated.NotableSuggestion.Confidence)
	assert.True(t, updated.UpdatedAt.After(e.UpdatedAt))

	// 内容变为无情绪时清空主导情绪
	cleared, err := repo.Update(ctx, e.ID, "u1", domain.EntryPatch{
		Content: json.RawMessage(testContent),
		Moods:   []mood.Mood{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Moods)
	assert.False(t, cleared.HasDominantMood())

	missing, err := repo.Update(ctx, e.ID, "u2", domain.EntryPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntryRepository_SetNotableAndDelete(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	e := seed(t, repo, "u1", "2024-03-01", time.Time{}, nil, false)

	for _, want := range []bool{true, true, false} {
		got, err := repo.SetNotable(ctx, e.ID, "u1", want)
		require.NoError(t, err)
		assert.Equal(t, want, got.Notable)
	}

	got, err := repo.SetNotable(ctx, e.ID, "u2", true)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := repo.Delete(ctx, e.ID, "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, e.ID, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, e.ID, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDao_Optimize(t *testing.T) {
	d, _ := newTestRepo(t)
	assert.NoError(t, d.Optimize(context.Background()))
}

func TestNewDBEngineWithConfig_Unsupported(t *testing.T) {
	_, err := NewDBEngineWithConfig(DatabaseConfig{Type: "oracle"}, nil)
	assert.Error(t, err)
}
