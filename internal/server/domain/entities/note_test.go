package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notesapp/internal/server/domain/entities"
)

func TestCategoryIsValid(t *testing.T) {
	tests := []struct {
		name     string
		category entities.Category
		valid    bool
	}{
		{name: "personal", category: entities.CategoryPersonal, valid: true},
		{name: "work", category: entities.CategoryWork, valid: true},
		{name: "ideas", category: entities.CategoryIdeas, valid: true},
		{name: "study", category: entities.CategoryStudy, valid: true},
		{name: "unknown category", category: entities.Category("archive"), valid: false},
		{name: "empty category", category: entities.Category(""), valid: false},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			assert.Equal(t, ttt.valid, ttt.category.IsValid())
		})
	}
}

func TestAddTagSkipsDuplicates(t *testing.T) {
	note := entities.NewNote("user-1", "Tagged", "")

	note.AddTag("go")
	note.AddTag("web")
	note.AddTag("go")
	// Сравнение тегов регистрозависимое.
	note.AddTag("Go")

	assert.Equal(t, []string{"go", "web", "Go"}, note.Tags)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "duplicates removed preserving first occurrence order",
			input:    []string{"b", "a", "b", "c", "a"},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "case-sensitive comparison keeps both variants",
			input:    []string{"go", "Go"},
			expected: []string{"go", "Go"},
		},
		{
			name:     "nil input yields empty set",
			input:    nil,
			expected: []string{},
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			assert.Equal(t, ttt.expected, entities.NormalizeTags(ttt.input))
		})
	}
}

func TestNewNoteDefaults(t *testing.T) {
	note := entities.NewNote("user-1", "Shopping", "<p>milk</p>")

	assert.Equal(t, entities.CategoryPersonal, note.Category)
	assert.Empty(t, note.Tags)
	assert.NotNil(t, note.Tags)
	assert.False(t, note.Favorite)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
}
