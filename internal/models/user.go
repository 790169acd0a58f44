// Package models содержит доменные структуры магазина: пользователей,
// товары каталога и заказы, а также типы входящих запросов.
package models

import "time"

// Role роль пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User зарегистрированный пользователь. Хеш пароля никогда не сериализуется.
type User struct {
	UUID         string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin сообщает, есть ли у пользователя права администратора.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RegisterRequest данные формы регистрации.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest учётные данные для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest частичное обновление профиля: пустые поля не меняются.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest смена пароля с подтверждением текущего.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthResult ответ на регистрацию и вход.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UserStats сводка по пользователям для админки.
type UserStats struct {
	TotalUsers          int `json:"totalUsers"`
	ActiveUsers         int `json:"activeUsers"`
	AdminUsers          int `json:"adminUsers"`
	RegularUsers        int `json:"regularUsers"`
	RecentRegistrations int `json:"recentRegistrations"`
	InactiveUsers       int `json:"inactiveUsers"`
}

// Pagination блок пагинации в списке пользователей.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalUsers  int  `json:"totalUsers"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// UserPage страница списка пользователей.
type UserPage struct {
	Users      []*User    `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// TestAccount тестовая учётная запись вместе с открытым паролем и токеном.
type TestAccount struct {
	*User
	Password string `json:"password"`
	Token    string `json:"token"`
}

// TestAccounts пара тестовых учётных записей.
type TestAccounts struct {
	TestUser  TestAccount `json:"testUser"`
	TestAdmin TestAccount `json:"testAdmin"`
}
