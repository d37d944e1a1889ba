package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"photo-gallery/internal/domain"
)

func newTestUserService(users *fakeUsers, secret string) *userService {
	svc := NewUserService(users, secret).(*userService)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newFakeUsers(), "letmein")

	user, err := svc.Register(ctx, " Ann@Example.com ", "password123", "letmein")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, user.ID)

	authed, err := svc.Authenticate(ctx, "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.Empty(t, authed.PasswordHash)
}

func TestUserService_RegisterErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		secret   string
		email    string
		password string
		provided string
		wantErr  error
	}{
		{name: "missing email", secret: "s", email: "", password: "password123", provided: "s", wantErr: ErrMissingFields},
		{name: "short password", secret: "s", email: "a@b.c", password: "short", provided: "s", wantErr: ErrWeakPassword},
		{name: "disabled", secret: "", email: "a@b.c", password: "password123", provided: "", wantErr: ErrRegistrationDisabled},
		{name: "wrong secret", secret: "s", email: "a@b.c", password: "password123", provided: "nope", wantErr: ErrInvalidRegistrationPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(newFakeUsers(), tt.secret)
			_, err := svc.Register(ctx, tt.email, tt.password, tt.provided)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newFakeUsers(), "s")

	_, err := svc.Register(ctx, "a@b.c", "password123", "s")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "a@b.c", "password456", "s")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserService_AuthenticateIsGeneric(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newFakeUsers(), "s")
	_, err := svc.Register(ctx, "a@b.c", "password123", "s")
	require.NoError(t, err)

	_, errUnknown := svc.Authenticate(ctx, "ghost@b.c", "password123")
	_, errWrong := svc.Authenticate(ctx, "a@b.c", "password999")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrong)
}

func TestUserService_AuthenticateStoreFailure(t *testing.T) {
	users := newFakeUsers()
	users.getErr = errors.New("db down")
	svc := newTestUserService(users, "")

	_, err := svc.Authenticate(context.Background(), "a@b.c", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetByID(t *testing.T) {
	users := newFakeUsers(domain.User{ID: "u-1", Email: "a@b.c", PasswordHash: "secret-hash", Role: domain.RoleAdmin})
	svc := newTestUserService(users, "")

	user, err := svc.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.True(t, user.IsAdmin())

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newFakeUsers(), "")

	first, err := svc.EnsureAdmin(ctx, "root@b.c", "password123")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := svc.EnsureAdmin(ctx, "root@b.c", "another-password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Authenticate(ctx, "root@b.c", "password123")
	assert.NoError(t, err)
}
