// Package notes содержит клиентское хранилище заметок: канонический
// список в памяти, операции синхронизации с сервером и производное
// отфильтрованное/отсортированное представление.
package notes

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"

	"notesapp/internal/client/api"
	"notesapp/internal/client/session"
	"notesapp/pkg/logger"

	"go.uber.org/zap"
)

// Filter определяет фильтр списка заметок: all, favorites или категория.
type Filter string

// Предопределенные фильтры.
const (
	FilterAll       Filter = "all"
	FilterFavorites Filter = "favorites"
)

// Sort определяет порядок сортировки производного представления.
type Sort string

// Допустимые порядки сортировки.
const (
	SortNewest       Sort = "newest"
	SortOldest       Sort = "oldest"
	SortAlphabetical Sort = "alphabetical"
	SortModified     Sort = "modified"
)

// Ключи совмещения конкурентных запросов.
const (
	flightNotes  = "notes"
	flightShared = "shared"
)

// Константы для логирования.
const (
	logFetchNotes    = "fetching notes"
	logFetchShared   = "fetching shared notes"
	logFetchSkipped  = "fetch skipped, not authenticated"
	logNoteCreated   = "note created"
	logNoteUpdated   = "note updated"
	logNoteRemoved   = "note removed"
	logNoteShared    = "note shared"
	logMarkedRead    = "shared note marked read"
	logOperationFail = "notes operation failed"
)

// NewNote - данные для создания заметки.
type NewNote struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// NotePatch - частичное обновление заметки. Отсутствующие поля
// не попадают в тело запроса и остаются неизменными на сервере.
type NotePatch struct {
	Title    *string  `json:"title,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Category *string  `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Favorite *bool    `json:"favorite,omitempty"`
}

// shareRequest - тело запроса предоставления общего доступа.
type shareRequest struct {
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// Store владеет каноническим списком заметок текущего пользователя и
// списком "поделились со мной". Локальное состояние обновляется только
// из ответов сервера, никогда из тела запроса: это исключает расхождение
// с серверными значениями по умолчанию и валидацией.
type Store struct {
	client  *api.Client
	session *session.Store
	flights singleflight.Group

	mu          sync.RWMutex
	notes       []api.Note
	sharedNotes []api.SharedNote
	filter      Filter
	sort        Sort
	searchQuery string
	isLoading   bool
	lastError   string
}

// NewStore создает хранилище заметок. Хранилище сессии нужно, чтобы
// пропускать загрузку без аутентификации и сбрасывать сессию при
// отказе в авторизации.
func NewStore(client *api.Client, sessionStore *session.Store) *Store {
	return &Store{
		client:  client,
		session: sessionStore,
		filter:  FilterAll,
		sort:    SortNewest,
	}
}

// Fetch загружает список заметок с серверной фильтрацией по текущему
// фильтру и поисковой строке и целиком замещает локальный список.
// Конкурентные вызовы совмещаются в один запрос. Ошибка записывается
// в состояние хранилища и возвращается вызывающему.
func (s *Store) Fetch(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		logger.Log(ctx).Debug(ctx, logFetchSkipped)
		return nil
	}

	_, err, _ := s.flights.Do(flightNotes, func() (any, error) {
		log := logger.Log(ctx).With(zap.String("store", "notes"))
		log.Debug(ctx, logFetchNotes)

		s.setLoading(true)
		defer s.setLoading(false)

		var fetched []api.Note
		if err := s.client.Get(ctx, s.listPath(), &fetched); err != nil {
			s.recordError(ctx, err)
			return nil, err
		}

		s.mu.Lock()
		s.notes = fetched
		s.lastError = ""
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// FetchShared загружает список заметок, которыми поделились с текущим
// пользователем. Семантика аналогична Fetch.
func (s *Store) FetchShared(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		logger.Log(ctx).Debug(ctx, logFetchSkipped)
		return nil
	}

	_, err, _ := s.flights.Do(flightShared, func() (any, error) {
		log := logger.Log(ctx).With(zap.String("store", "notes"))
		log.Debug(ctx, logFetchShared)

		s.setLoading(true)
		defer s.setLoading(false)

		var fetched []api.SharedNote
		if err := s.client.Get(ctx, "/notes/shared", &fetched); err != nil {
			s.recordError(ctx, err)
			return nil, err
		}

		s.mu.Lock()
		s.sharedNotes = fetched
		s.lastError = ""
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// Add создает заметку и добавляет возвращенную сервером запись (с
// серверными id и временными метками) в начало локального списка.
func (s *Store) Add(ctx context.Context, data NewNote) (*api.Note, error) {
	if data.Title == "" {
		return nil, api.NewValidationError("note title must not be empty")
	}

	var created api.Note
	if err := s.client.Post(ctx, "/notes", data, &created); err != nil {
		s.recordError(ctx, err)
		return nil, err
	}

	s.mu.Lock()
	s.notes = append([]api.Note{created}, s.notes...)
	s.lastError = ""
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, logNoteCreated, zap.String("note_id", created.ID))
	return &created, nil
}

// Edit отправляет частичное обновление и замещает локальную запись
// полной заметкой из ответа сервера, а не локальным слиянием полей.
func (s *Store) Edit(ctx context.Context, id string, patch NotePatch) (*api.Note, error) {
	var updated api.Note
	if err := s.client.Put(ctx, "/notes/"+url.PathEscape(id), patch, &updated); err != nil {
		s.recordError(ctx, err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == updated.ID {
			s.notes[i] = updated
			break
		}
	}
	s.lastError = ""
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, logNoteUpdated, zap.String("note_id", updated.ID))
	return &updated, nil
}

// Remove удаляет заметку. Локальная запись убирается только после
// подтверждения сервера: при ошибке заметка остается в списке.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/notes/"+url.PathEscape(id)); err != nil {
		s.recordError(ctx, err)
		return err
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			break
		}
	}
	s.lastError = ""
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, logNoteRemoved, zap.String("note_id", id))
	return nil
}

// ToggleFavorite переключает флаг избранного частичным обновлением
// единственного поля.
func (s *Store) ToggleFavorite(ctx context.Context, id string, current bool) (*api.Note, error) {
	favorite := !current
	return s.Edit(ctx, id, NotePatch{Favorite: &favorite})
}

// Share предоставляет доступ к заметке другому пользователю по email.
// Локальные списки не изменяются: общий доступ к собственной заметке
// не меняет её вид для владельца.
func (s *Store) Share(ctx context.Context, noteID, email, permission string) error {
	req := shareRequest{Email: email, Permission: permission}
	if err := s.client.Post(ctx, "/notes/"+url.PathEscape(noteID)+"/share", req, nil); err != nil {
		s.recordError(ctx, err)
		return err
	}

	logger.Log(ctx).Debug(ctx, logNoteShared, zap.String("note_id", noteID))
	return nil
}

// MarkSharedRead помечает общую заметку прочитанной на сервере и в
// локальном списке.
func (s *Store) MarkSharedRead(ctx context.Context, noteID string) error {
	if err := s.client.Put(ctx, "/notes/shared/"+url.PathEscape(noteID)+"/read", nil, nil); err != nil {
		s.recordError(ctx, err)
		return err
	}

	s.mu.Lock()
	for i := range s.sharedNotes {
		if s.sharedNotes[i].ID == noteID {
			s.sharedNotes[i].Read = true
			break
		}
	}
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, logMarkedRead, zap.String("note_id", noteID))
	return nil
}

// Replace целиком замещает канонический список заметок, минуя сервер.
// Используется для предзаполнения состояния и в тестах представления.
func (s *Store) Replace(notes []api.Note) {
	replacement := make([]api.Note, len(notes))
	copy(replacement, notes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = replacement
}

// SetFilter устанавливает фильтр производного представления.
func (s *Store) SetFilter(filter Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// SetSort устанавливает порядок сортировки производного представления.
func (s *Store) SetSort(sort Sort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = sort
}

// SetSearchQuery устанавливает поисковую строку.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// Notes возвращает копию канонического списка заметок.
func (s *Store) Notes() []api.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]api.Note, len(s.notes))
	copy(result, s.notes)
	return result
}

// SharedNotes возвращает копию списка "поделились со мной".
func (s *Store) SharedNotes() []api.SharedNote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]api.SharedNote, len(s.sharedNotes))
	copy(result, s.sharedNotes)
	return result
}

// IsLoading сообщает, выполняется ли сейчас загрузка списка.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// LastError возвращает сообщение последней ошибки или пустую строку.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// listPath собирает путь списка заметок с серверной фильтрацией.
func (s *Store) listPath() string {
	s.mu.RLock()
	filter := s.filter
	query := s.searchQuery
	s.mu.RUnlock()

	values := url.Values{}
	if filter != "" && filter != FilterAll {
		values.Set("category", string(filter))
	}
	if query != "" {
		values.Set("search", query)
	}

	path := "/notes"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path
}

// setLoading обновляет флаг загрузки.
func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

// recordError запоминает сообщение ошибки для нецелевых потребителей и
// сбрасывает сессию, если сервер перестал признавать её.
func (s *Store) recordError(ctx context.Context, err error) {
	logger.Log(ctx).Debug(ctx, logOperationFail, zap.Error(err))

	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()

	if api.IsUnauthorized(err) {
		s.session.Invalidate()
	}
}
