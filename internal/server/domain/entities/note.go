// Package entities defines the domain entities for the notes application.
package entities

import (
	"errors"
	"time"
)

// Category определяет категорию заметки.
type Category string

// Допустимые категории заметок.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryIdeas    Category = "ideas"
	CategoryStudy    Category = "study"
)

// Ошибки доменной модели заметок.
var (
	ErrEmptyTitle      = errors.New("note title must not be empty")
	ErrInvalidCategory = errors.New("invalid note category")
	ErrNoteNotFound    = errors.New("note not found")
)

// IsValid проверяет, что категория входит в допустимый набор.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryIdeas, CategoryStudy:
		return true
	}
	return false
}

// Note представляет собой заметку пользователя. Содержимое заметки -
// непрозрачная HTML-строка, сервер её не разбирает.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает новую заметку с категорией по умолчанию.
func NewNote(userID, title, content string) *Note {
	now := time.Now()
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Category:  CategoryPersonal,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddTag добавляет тег, сохраняя порядок вставки и отбрасывая дубликаты.
// Сравнение тегов регистрозависимое.
func (n *Note) AddTag(tag string) {
	for _, existing := range n.Tags {
		if existing == tag {
			return
		}
	}
	n.Tags = append(n.Tags, tag)
}

// NormalizeTags удаляет дубликаты тегов, сохраняя порядок первого вхождения.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
