package service

import (
	"context"
	"testing"

	"wiremon/internal/config"
	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(t, repo, "operator1", "secret123", model.RoleOperator, true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operator1", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "operator1", resp.User.Username)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(t, repo, "operator1", "secret123", model.RoleOperator, true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operator1", Password: "nope"})
	assert.Error(t, err)
}

func TestLoginInactiveUserRejected(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(t, repo, "gone", "secret123", model.RoleOperator, false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gone", Password: "secret123"})
	assert.Error(t, err)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(t, repo, "admin1", "secret123", model.RoleAdmin, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "admin1", refreshed.User.Username)
}

func TestRefreshDeactivatedUserRejected(t *testing.T) {
	svc, repo := newAuthFixture()
	u := seedUser(t, repo, "admin1", "secret123", model.RoleAdmin, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestCreateUserStoresHashNotPassword(t *testing.T) {
	svc, repo := newAuthFixture()

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newop",
		FullName: "New Operator",
		Password: "longenough",
		Role:     model.RoleOperator,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored, err := repo.FindByUsername(context.Background(), "newop")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, repo := newAuthFixture()
	u := seedUser(t, repo, "op", "oldpassword", model.RoleOperator, true)
	oldHash := u.PasswordHash

	_, err := svc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Password: "newpassword"})
	require.NoError(t, err)

	stored, _ := repo.FindByID(context.Background(), u.ID)
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword")))
}

func TestDeactivateUserBlocksLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	u := seedUser(t, repo, "op", "secret123", model.RoleOperator, true)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "op", Password: "secret123"})
	assert.Error(t, err)
}
