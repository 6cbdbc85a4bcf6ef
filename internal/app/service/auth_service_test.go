package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/db"
	"github.com/ttmai/velora-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(
		"newuser@example.com", "password123", "New User", "0123456789", "1 Main Street",
	)
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "newuser@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("dup@example.com", "password123", "First", "", "")
	require.NoError(t, err)

	_, _, err = authService.Register("dup@example.com", "password456", "Second", "", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	registered, _, err := authService.Register("login@example.com", "password123", "Login User", "", "")
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("login@example.com", "password123", "Login User", "", "")
	require.NoError(t, err)

	_, _, err = authService.Login("login@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Login("ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("profile@example.com", "password123", "Old Name", "", "")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "New Name", "0987654321", "2 Side Street")
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "0987654321", updated.Phone)
	assert.Equal(t, "2 Side Street", updated.Address)

	_, err = authService.UpdateProfile(9999, "Name", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
