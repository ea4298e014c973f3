package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/models"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	repo := &mockUserRepo{users: map[string]*models.User{
		"noa": {ID: 1, Username: "noa", PasswordHash: hash, Role: "coordinator", Active: true},
		"old": {ID: 2, Username: "old", PasswordHash: hash, Role: "coordinator", Active: false},
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "guide-roster-api",
	})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "noa", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "noa", resp.User.Username)

	claims, err := svc.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "coordinator", claims.Role)
	assert.Equal(t, "guide-roster-api", claims.Issuer)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "noa", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "old", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceVerifyTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "noa", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.VerifyToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = svc.VerifyToken("not-a-token")
	require.Error(t, err)
}

func TestAuthServiceMe(t *testing.T) {
	svc, _ := newTestAuthService(t)

	info, err := svc.Me(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "noa", info.Username)

	_, err = svc.Me(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)

	_, err = svc.Me(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
