package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const userColumns = `uid, first_name, last_name, email, password_hash, role, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UUID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет пользователя. Email приводится к нижнему регистру,
// дубликат возвращает storage.ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	if user.UUID == "" {
		user.UUID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	query := `INSERT INTO users (uid, first_name, last_name, email, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.UUID, user.FirstName, user.LastName, strings.ToLower(user.Email),
		user.PasswordHash, user.Role, user.IsActive))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(userUID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// UpdateUserProfile обновляет имя, фамилию и email пользователя.
func (s *Storage) UpdateUserProfile(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(user.UUID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `UPDATE users
			  SET first_name = $2, last_name = $3, email = $4, updated_at = NOW()
			  WHERE uid = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.UUID, user.FirstName, user.LastName, strings.ToLower(user.Email)))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// UpdateUserPassword заменяет хеш пароля.
func (s *Storage) UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdateUserPassword"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(userUID) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE uid = $1`,
		userUID, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// ListUsers возвращает страницу пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users
			  ORDER BY created_at DESC, uid
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// CountUsers возвращает общее число пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// UserStats считает пользователей по ролям и активности; recent — зарегистрированные после since.
func (s *Storage) UserStats(ctx context.Context, since time.Time) (models.UserStats, error) {
	const op = "storage.UserStats"
	var st models.UserStats
	if err := checkCtx(ctx, op); err != nil {
		return st, err
	}

	query := `SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE is_active),
				COUNT(*) FILTER (WHERE role = 'admin'),
				COUNT(*) FILTER (WHERE role = 'user'),
				COUNT(*) FILTER (WHERE created_at >= $1)
			  FROM users`
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(
		&st.TotalUsers, &st.ActiveUsers, &st.AdminUsers, &st.RegularUsers, &st.RecentRegistrations,
	); err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	st.InactiveUsers = st.TotalUsers - st.ActiveUsers
	return st, nil
}

// DeleteUsersByEmail удаляет пользователей с указанными email и возвращает их число.
// Заказы удалённых пользователей удаляются каскадно.
func (s *Storage) DeleteUsersByEmail(ctx context.Context, emails []string) (int, error) {
	const op = "storage.DeleteUsersByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE email = ANY($1)`, lowered)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// FindUserByRole возвращает самого раннего пользователя с ролью role.
func (s *Storage) FindUserByRole(ctx context.Context, role models.Role) (*models.User, error) {
	const op = "storage.FindUserByRole"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, role))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// UpdateUserRole меняет роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, userUID string, role models.Role) error {
	const op = "storage.UpdateUserRole"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(userUID) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE uid = $1`, userUID, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
