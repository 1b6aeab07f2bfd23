// Package app implements application business logic for the notes application.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
	svc "notesapp/internal/server/ports/services"
	"notesapp/pkg/logger"
)

const (
	methodRegister = "Register"
	methodLogin    = "Login"
	methodLogout   = "Logout"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgEmptyUsername       = "empty username provided"
	msgInvalidPassword     = "invalid password"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgSessionIssued       = "session issued"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrIssueSession      = "failed to issue session token"
	msgErrFindingUser       = "error finding user by email"
	msgErrVerifyingPassword = "error verifying password"
	msgErrRevokingSession   = "failed to revoke session"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingUsername = "validating username"
	errCtxValidatingPassword = "validating password"
	errCtxCheckingUser       = "checking existing user"
	errCtxEmailRegistered    = "email already registered"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxIssuingSession     = "issuing session"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxRevokingSession    = "revoking session"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Session - результат успешной аутентификации: пользователь и сессионный токен.
type Session struct {
	User      *entities.User
	Token     string
	ExpiresAt time.Time
}

// AuthUseCase реализует регистрацию, вход и выход пользователя.
type AuthUseCase struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	sessionSvc  svc.SessionTokenService
	revocations svc.SessionRevocations
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	sessionSvc svc.SessionTokenService,
	revocations svc.SessionRevocations,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		sessionSvc:  sessionSvc,
		revocations: revocations,
	}
}

// Register создает нового пользователя и открывает для него сессию.
func (a *AuthUseCase) Register(ctx context.Context, email, username, password string) (*Session, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if !emailRegexp.MatchString(email) {
		log.Debug(ctx, msgInvalidEmailFormat)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, ErrInvalidEmail)
	}
	if username == "" {
		log.Debug(ctx, msgEmptyUsername)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if len(password) < minPasswordLength {
		log.Debug(ctx, msgInvalidPassword)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, ErrWeakPassword)
	}

	existingUser, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, ErrEmailAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))

	return a.openSession(ctx, createdUser)
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCase) Login(ctx context.Context, email, password string) (*Session, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, ErrInvalidCredentials)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))

	return a.openSession(ctx, user)
}

// Logout отзывает сессию до истечения её срока жизни.
func (a *AuthUseCase) Logout(ctx context.Context, claims *svc.SessionClaims) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.String("userID", claims.UserID))
	log.Debug(ctx, msgProcessingLogout)

	if err := a.revocations.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		log.Error(ctx, msgErrRevokingSession, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingSession, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// openSession выпускает сессионный токен для пользователя.
func (a *AuthUseCase) openSession(ctx context.Context, user *entities.User) (*Session, error) {
	log := logger.Log(ctx).With(zap.String("userID", user.ID))

	token, claims, err := a.sessionSvc.Issue(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrIssueSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxIssuingSession, err)
	}

	log.Debug(ctx, msgSessionIssued)
	return &Session{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
