// Package users реализует администрирование пользователей: список,
// статистику и тестовые учётные записи.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	recentWindow = 7 * 24 * time.Hour

	TestUserEmail     = "testuser@example.com"
	TestUserPassword  = "password123"
	TestAdminEmail    = "testadmin@example.com"
	TestAdminPassword = "admin123"
)

var ErrUserNotFound = errors.New("user not found")

// Repository хранилище пользователей.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UserStats(ctx context.Context, since time.Time) (models.UserStats, error)
	DeleteUsersByEmail(ctx context.Context, emails []string) (int, error)
}

// TokenIssuer выдаёт токены для созданных учётных записей.
type TokenIssuer interface {
	IssueToken(user *models.User) (string, error)
}

// Service администрирование пользователей.
type Service struct {
	users  Repository
	tokens TokenIssuer
	now    func() time.Time
}

func New(users Repository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// List возвращает страницу пользователей. Некорректные page и limit
// заменяются значениями по умолчанию.
func (s *Service) List(ctx context.Context, page, limit int) (*models.UserPage, error) {
	const op = "services.users.List"

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	list, err := s.users.ListUsers(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	totalPages := (total + limit - 1) / limit
	return &models.UserPage{
		Users: list,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

func (s *Service) Read(ctx context.Context, id string) (*models.User, error) {
	const op = "services.users.Read"

	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Stats считает пользователей; недавними считаются регистрации за последние 7 дней.
func (s *Service) Stats(ctx context.Context) (models.UserStats, error) {
	st, err := s.users.UserStats(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return st, fmt.Errorf("services.users.Stats: %w", err)
	}
	return st, nil
}

// GenerateTestUsers пересоздаёт тестового пользователя и тестового
// администратора и возвращает их вместе с паролями и токенами.
func (s *Service) GenerateTestUsers(ctx context.Context) (*models.TestAccounts, error) {
	const op = "services.users.GenerateTestUsers"

	if _, err := s.users.DeleteUsersByEmail(ctx, []string{TestUserEmail, TestAdminEmail}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.createAccount(ctx, "Test", "User", TestUserEmail, TestUserPassword, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	admin, err := s.createAccount(ctx, "Test", "Admin", TestAdminEmail, TestAdminPassword, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.TestAccounts{TestUser: *user, TestAdmin: *admin}, nil
}

func (s *Service) createAccount(ctx context.Context, first, last, email, raw string, role models.Role) (*models.TestAccount, error) {
	hash, err := password.Hash(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.users.CreateUser(ctx, models.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueToken(u)
	if err != nil {
		return nil, err
	}
	return &models.TestAccount{User: u, Password: raw, Token: token}, nil
}

// DeleteTestUsers удаляет тестовые учётные записи и возвращает их число.
func (s *Service) DeleteTestUsers(ctx context.Context) (int, error) {
	n, err := s.users.DeleteUsersByEmail(ctx, []string{TestUserEmail, TestAdminEmail})
	if err != nil {
		return 0, fmt.Errorf("services.users.DeleteTestUsers: %w", err)
	}
	return n, nil
}
