// Package session содержит хранилище текущей сессии пользователя.
package session

import (
	"context"
	"io"
	"sync"

	"notesapp/internal/client/api"
	"notesapp/pkg/logger"

	"go.uber.org/zap"
)

// Пути API аутентификации и профиля.
const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathLogout   = "/auth/logout"
	pathProfile  = "/users/profile"
)

// Константы для логирования.
const (
	logVerifySession   = "verifying session"
	logNoActiveSession = "no active session"
	logSessionVerified = "session verified"
	logLoggedIn        = "logged in"
	logLoggedOut       = "logged out"
	logLogoutFailed    = "logout request failed, session cleared locally"
)

// loginRequest - тело запроса входа.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest - тело запроса регистрации.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profileRequest - тело запроса обновления профиля.
type profileRequest struct {
	Username string `json:"username"`
}

// Store - единственный источник истины о том, кто вошел в систему.
// Идентичность выводится из серверной сессионной cookie и проверяется
// повторно при инициализации.
type Store struct {
	client *api.Client

	mu   sync.RWMutex
	user *api.User
}

// NewStore создает хранилище сессии поверх клиента API.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Init проверяет сессию запросом профиля. При успехе устанавливает
// текущего пользователя, при любой ошибке оставляет состояние
// "не аутентифицирован". Никогда не возвращает ошибку вызывающему.
func (s *Store) Init(ctx context.Context) {
	log := logger.Log(ctx).With(zap.String("store", "session"))
	log.Debug(ctx, logVerifySession)

	var user api.User
	if err := s.client.Get(ctx, pathProfile, &user); err != nil {
		log.Debug(ctx, logNoActiveSession, zap.Error(err))
		s.setUser(nil)
		return
	}

	log.Debug(ctx, logSessionVerified, zap.String("user_id", user.ID))
	s.setUser(&user)
}

// CurrentUser возвращает копию текущего пользователя или nil.
func (s *Store) CurrentUser() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated сообщает, есть ли активная сессия.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Login выполняет вход и при успехе устанавливает текущего пользователя.
func (s *Store) Login(ctx context.Context, email, password string) (*api.User, error) {
	var user api.User
	err := s.client.Post(ctx, pathLogin, loginRequest{Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Debug(ctx, logLoggedIn, zap.String("user_id", user.ID))
	s.setUser(&user)
	return s.CurrentUser(), nil
}

// Register регистрирует пользователя и при успехе открывает сессию.
func (s *Store) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	var user api.User
	err := s.client.Post(ctx, pathRegister, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}

	s.setUser(&user)
	return s.CurrentUser(), nil
}

// Logout завершает сессию. Локальное состояние очищается всегда, даже
// если серверный вызов не удался: устаревшее "вошел в систему" хуже,
// чем неотозванный токен.
func (s *Store) Logout(ctx context.Context) error {
	err := s.client.Post(ctx, pathLogout, nil, nil)
	s.setUser(nil)

	log := logger.Log(ctx).With(zap.String("store", "session"))
	if err != nil {
		log.Warn(ctx, logLogoutFailed, zap.Error(err))
		return err
	}

	log.Debug(ctx, logLoggedOut)
	return nil
}

// UpdateProfile обновляет имя пользователя.
func (s *Store) UpdateProfile(ctx context.Context, username string) (*api.User, error) {
	var user api.User
	if err := s.client.Put(ctx, pathProfile, profileRequest{Username: username}, &user); err != nil {
		s.reactToError(err)
		return nil, err
	}

	s.setUser(&user)
	return s.CurrentUser(), nil
}

// UpdateProfileWithAvatar обновляет профиль multipart-формой с файлом
// аватара.
func (s *Store) UpdateProfileWithAvatar(ctx context.Context, username, fileName string, avatar io.Reader) (*api.User, error) {
	fields := map[string]string{"username": username}

	var user api.User
	if err := s.client.PutMultipart(ctx, pathProfile, fields, "avatar", fileName, avatar, &user); err != nil {
		s.reactToError(err)
		return nil, err
	}

	s.setUser(&user)
	return s.CurrentUser(), nil
}

// Invalidate сбрасывает локальную сессию. Вызывается, когда любой запрос
// к API вернул отказ в авторизации: сервер уже не признает сессию.
func (s *Store) Invalidate() {
	s.setUser(nil)
}

// reactToError сбрасывает сессию при отказе в авторизации.
func (s *Store) reactToError(err error) {
	if api.IsUnauthorized(err) {
		s.Invalidate()
	}
}

func (s *Store) setUser(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}
