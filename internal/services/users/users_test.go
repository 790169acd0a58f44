package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, models.User) *models.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	u, _ := args.Get(0).([]*models.User)
	return u, args.Error(1)
}

func (m *RepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UserStats(ctx context.Context, since time.Time) (models.UserStats, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(models.UserStats), args.Error(1)
}

func (m *RepoMock) DeleteUsersByEmail(ctx context.Context, emails []string) (int, error) {
	args := m.Called(ctx, emails)
	return args.Int(0), args.Error(1)
}

type issuerStub struct{}

func (issuerStub) IssueToken(u *models.User) (string, error) {
	return "token-" + u.Email, nil
}

func TestService_List_Pagination(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
		total      int
		want       models.Pagination
	}{
		{
			name: "defaults", page: 0, limit: 0, wantLimit: 10, wantOffset: 0, total: 25,
			want: models.Pagination{CurrentPage: 1, TotalPages: 3, TotalUsers: 25, HasNext: true},
		},
		{
			name: "last page", page: 3, limit: 10, wantLimit: 10, wantOffset: 20, total: 25,
			want: models.Pagination{CurrentPage: 3, TotalPages: 3, TotalUsers: 25, HasPrev: true},
		},
		{
			name: "limit capped", page: 1, limit: 1000, wantLimit: 100, wantOffset: 0, total: 0,
			want: models.Pagination{CurrentPage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListUsers", ctx, tt.wantLimit, tt.wantOffset).Return([]*models.User{}, nil)
			repo.On("CountUsers", ctx).Return(tt.total, nil)

			page, err := New(repo, issuerStub{}).List(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Pagination)
		})
	}
}

func TestService_Read(t *testing.T) {
	ctx := context.Background()
	repo := new(RepoMock)
	repo.On("GetUser", ctx, "u-1").Return(&models.User{UUID: "u-1"}, nil)
	repo.On("GetUser", ctx, "u-2").Return(nil, storage.ErrNotFound)
	svc := New(repo, issuerStub{})

	u, err := svc.Read(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.UUID)

	_, err = svc.Read(ctx, "u-2")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Stats_LastSevenDays(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	repo := new(RepoMock)
	repo.On("UserStats", ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)).
		Return(models.UserStats{TotalUsers: 3}, nil)

	svc := New(repo, issuerStub{})
	svc.now = func() time.Time { return now }

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalUsers)
}

func TestService_GenerateTestUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(RepoMock)
	emails := []string{TestUserEmail, TestAdminEmail}

	repo.On("DeleteUsersByEmail", ctx, emails).Return(2, nil)
	repo.On("CreateUser", ctx, mock.Anything).Return(func(_ context.Context, u models.User) *models.User {
		u.UUID = "id-" + u.Email
		return &u
	}, nil)

	accounts, err := New(repo, issuerStub{}).GenerateTestUsers(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, accounts.TestUser.Role)
	assert.Equal(t, models.RoleAdmin, accounts.TestAdmin.Role)
	assert.Equal(t, TestUserPassword, accounts.TestUser.Password)
	assert.Equal(t, "token-"+TestAdminEmail, accounts.TestAdmin.Token)
	assert.NoError(t, password.Compare(accounts.TestAdmin.PasswordHash, TestAdminPassword))
}

func TestService_DeleteTestUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(RepoMock)
	repo.On("DeleteUsersByEmail", ctx, []string{TestUserEmail, TestAdminEmail}).Return(1, nil).Once()
	repo.On("DeleteUsersByEmail", ctx, mock.Anything).Return(0, errors.New("db down"))
	svc := New(repo, issuerStub{})

	n, err := svc.DeleteTestUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.DeleteTestUsers(ctx)
	assert.Error(t, err)
}
