package notes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/client/api"
	"notesapp/internal/client/notes"
	"notesapp/internal/client/session"
)

func newViewStore(t *testing.T, initial []api.Note) *notes.Store {
	t.Helper()

	client, err := api.NewClient("http://localhost:0")
	require.NoError(t, err)

	store := notes.NewStore(client, session.NewStore(client))
	store.Replace(initial)
	return store
}

func viewIDs(view []api.Note) []string {
	ids := make([]string, 0, len(view))
	for _, note := range view {
		ids = append(ids, note.ID)
	}
	return ids
}

func TestViewFilter(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixture := []api.Note{
		{ID: "n1", Title: "Shopping", Category: "personal", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "n2", Title: "Quarterly report", Category: "work", Favorite: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "n3", Title: "App idea", Category: "ideas", CreatedAt: base.Add(time.Hour)},
		{ID: "n4", Title: "Exam notes", Category: "study", Favorite: true, CreatedAt: base},
	}

	tests := []struct {
		name     string
		filter   notes.Filter
		expected []string
	}{
		{
			name:     "all passes everything",
			filter:   notes.FilterAll,
			expected: []string{"n1", "n2", "n3", "n4"},
		},
		{
			name:     "favorites keeps only favorite notes",
			filter:   notes.FilterFavorites,
			expected: []string{"n2", "n4"},
		},
		{
			name:     "category keeps only matching notes",
			filter:   notes.Filter("work"),
			expected: []string{"n2"},
		},
		{
			name:     "unknown category matches nothing",
			filter:   notes.Filter("archive"),
			expected: []string{},
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			store := newViewStore(t, fixture)
			store.SetFilter(ttt.filter)

			assert.Equal(t, ttt.expected, viewIDs(store.View()))
		})
	}
}

func TestViewSearch(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixture := []api.Note{
		{ID: "n1", Title: "Project Plan", Content: "<p>roadmap</p>", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "n2", Title: "Groceries", Content: "<p>milk and bread</p>", CreatedAt: base.Add(time.Hour)},
		{ID: "n3", Title: "Misc", Tags: []string{"planning", "Q3"}, CreatedAt: base},
	}

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "lowercase matches title",
			query:    "project",
			expected: []string{"n1"},
		},
		{
			name:     "uppercase matches case-insensitively",
			query:    "PLAN",
			expected: []string{"n1", "n3"},
		},
		{
			name:     "substring spanning words matches",
			query:    "ject pl",
			expected: []string{"n1"},
		},
		{
			name:     "content is searched",
			query:    "milk",
			expected: []string{"n2"},
		},
		{
			name:     "tags are searched",
			query:    "q3",
			expected: []string{"n3"},
		},
		{
			name:     "no match yields empty view",
			query:    "xyz",
			expected: []string{},
		},
		{
			name:     "empty query passes everything",
			query:    "",
			expected: []string{"n1", "n2", "n3"},
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			store := newViewStore(t, fixture)
			store.SetSearchQuery(ttt.query)

			assert.Equal(t, ttt.expected, viewIDs(store.View()))
		})
	}
}

func TestViewSort(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixture := []api.Note{
		{ID: "n1", Title: "banana", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "n2", Title: "Apple", CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "n3", Title: "cherry", CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(4 * time.Hour)},
	}

	tests := []struct {
		name     string
		sort     notes.Sort
		expected []string
	}{
		{
			name:     "newest sorts by creation time descending",
			sort:     notes.SortNewest,
			expected: []string{"n2", "n3", "n1"},
		},
		{
			name:     "oldest sorts by creation time ascending",
			sort:     notes.SortOldest,
			expected: []string{"n1", "n3", "n2"},
		},
		{
			name:     "alphabetical ignores letter case",
			sort:     notes.SortAlphabetical,
			expected: []string{"n2", "n1", "n3"},
		},
		{
			name:     "modified sorts by update time descending",
			sort:     notes.SortModified,
			expected: []string{"n2", "n3", "n1"},
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			store := newViewStore(t, fixture)
			store.SetSort(ttt.sort)

			assert.Equal(t, ttt.expected, viewIDs(store.View()))
		})
	}
}

func TestViewSortModifiedFallsBackToCreatedAt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newViewStore(t, []api.Note{
		{ID: "n1", Title: "old edit", CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
		{ID: "n2", Title: "never edited", CreatedAt: base.Add(2 * time.Hour)},
	})
	store.SetSort(notes.SortModified)

	assert.Equal(t, []string{"n2", "n1"}, viewIDs(store.View()))
}

func TestViewSortStability(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixture := []api.Note{
		{ID: "n1", Title: "same", CreatedAt: createdAt},
		{ID: "n2", Title: "same", CreatedAt: createdAt},
		{ID: "n3", Title: "same", CreatedAt: createdAt},
	}

	sorts := []notes.Sort{notes.SortNewest, notes.SortOldest, notes.SortAlphabetical, notes.SortModified}
	for _, key := range sorts {
		t.Run(string(key), func(t *testing.T) {
			store := newViewStore(t, fixture)
			store.SetSort(key)

			first := viewIDs(store.View())
			assert.Equal(t, []string{"n1", "n2", "n3"}, first, "equal keys must retain original order")

			// Повторная сортировка уже отсортированного списка идемпотентна.
			assert.Equal(t, first, viewIDs(store.View()))
		})
	}
}
