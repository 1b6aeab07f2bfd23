package notes

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"notesapp/internal/client/api"
)

// View возвращает производное представление списка заметок: сначала
// поиск, затем фильтр по категории, затем устойчивая сортировка.
// Представление пересчитывается при каждом вызове и никогда не
// сохраняется.
func (s *Store) View() []api.Note {
	s.mu.RLock()
	notes := make([]api.Note, len(s.notes))
	copy(notes, s.notes)
	filter := s.filter
	sortKey := s.sort
	query := s.searchQuery
	s.mu.RUnlock()

	notes = applySearch(notes, query)
	notes = applyFilter(notes, filter)
	sortNotes(notes, sortKey)
	return notes
}

// applySearch оставляет заметки, в заголовке, содержимом или тегах
// которых встречается поисковая строка. Сравнение регистронезависимое.
func applySearch(notes []api.Note, query string) []api.Note {
	if query == "" {
		return notes
	}
	needle := strings.ToLower(query)

	result := notes[:0]
	for _, note := range notes {
		if matchesSearch(&note, needle) {
			result = append(result, note)
		}
	}
	return result
}

func matchesSearch(note *api.Note, needle string) bool {
	if strings.Contains(strings.ToLower(note.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Content), needle) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// applyFilter применяет фильтр по категории: all пропускает всё,
// favorites оставляет избранные, любое другое значение - заметки с
// совпадающей категорией.
func applyFilter(notes []api.Note, filter Filter) []api.Note {
	if filter == "" || filter == FilterAll {
		return notes
	}

	result := notes[:0]
	for _, note := range notes {
		switch {
		case filter == FilterFavorites:
			if note.Favorite {
				result = append(result, note)
			}
		case note.Category == string(filter):
			result = append(result, note)
		}
	}
	return result
}

// sortNotes сортирует список на месте. Сортировка устойчивая: заметки
// с равными ключами сохраняют прежний относительный порядок.
func sortNotes(notes []api.Note, key Sort) {
	switch key {
	case SortOldest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		})
	case SortAlphabetical:
		collator := collate.New(language.Und)
		sort.SliceStable(notes, func(i, j int) bool {
			return collator.CompareString(notes[i].Title, notes[j].Title) < 0
		})
	case SortModified:
		sort.SliceStable(notes, func(i, j int) bool {
			return modifiedAt(&notes[i]).After(modifiedAt(&notes[j]))
		})
	case SortNewest:
		fallthrough
	default:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	}
}

// modifiedAt возвращает время последнего изменения, опираясь на время
// создания, если сервер не прислал updated_at.
func modifiedAt(note *api.Note) time.Time {
	if note.UpdatedAt.IsZero() {
		return note.CreatedAt
	}
	return note.UpdatedAt
}
