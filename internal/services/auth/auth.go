// Package auth содержит бизнес-логику регистрации, входа, профиля и проверки
// bearer-токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

var (
	ErrEmailTaken          = errors.New("user already exists with this email")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnauthenticated     = errors.New("not authorized")
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrPasswordTooShort    = password.ErrTooShort
	ErrRevocationUnchecked = errors.New("token revocation state unavailable")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user models.User) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
}

// TokenRevoker хранит идентификаторы отозванных токенов.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service отвечает за учётные записи и выдачу токенов.
type Service struct {
	users    UserRepository
	revoked  TokenRevoker
	jwtMaker jwt.Maker
}

// New создаёт сервис аутентификации.
func New(users UserRepository, revoked TokenRevoker, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		revoked:  revoked,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт пользователя с ролью user и сразу выдаёт токен.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	const op = "services.auth.Register"

	if err := password.Validate(req.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashed,
		Role:         models.RoleUser,
		IsActive:     true,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issue(op, user)
}

// Login проверяет email и пароль. Неизвестный email и неверный пароль
// неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.AuthResult, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.issue(op, user)
}

// IssueToken выдаёт токен для уже существующего пользователя.
func (s *Service) IssueToken(user *models.User) (string, error) {
	token, err := s.jwtMaker.GenerateToken(user.UUID, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("services.auth.IssueToken: %w", err)
	}
	return token, nil
}

func (s *Service) issue(op string, user *models.User) (*models.AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.AuthResult{User: user, Token: token}, nil
}

// Authenticate проверяет подпись и срок действия токена, отзыв и
// существование активного пользователя. Роль берётся из базы, а не из токена.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, *jwt.Claims, error) {
	const op = "services.auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, err)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrRevocationUnchecked, err)
		}
		if revoked {
			return nil, nil, fmt.Errorf("%s: %w: token revoked", op, ErrUnauthenticated)
		}
	}

	user, err := s.users.GetUser(ctx, claims.UserUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w: user no longer exists", op, ErrUnauthenticated)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%s: %w: user is inactive", op, ErrUnauthenticated)
	}
	return user, claims, nil
}

// Logout отзывает токен до истечения его срока действия.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims) error {
	const op = "services.auth.Logout"
	if s.revoked == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Profile возвращает актуальные данные пользователя.
func (s *Service) Profile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.auth.Profile"

	user, err := s.users.GetUser(ctx, userUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет переданные поля профиля. Новый email не должен
// принадлежать другому пользователю.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error) {
	const op = "services.auth.UpdateProfile"

	user, err := s.Profile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		user.LastName = v
	}
	if email := normalizeEmail(req.Email); email != "" && email != user.Email {
		other, err := s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil && other.UUID != user.UUID:
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		user.Email = email
	}

	updated, err := s.users.UpdateUserProfile(ctx, *user)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// ChangePassword заменяет пароль после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, userUID string, req models.ChangePasswordRequest) error {
	const op = "services.auth.ChangePassword"

	if err := password.Validate(req.NewPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.Profile(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return fmt.Errorf("%s: %w", op, ErrWrongPassword)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.UUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
