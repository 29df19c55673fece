package service

import (
	"testing"
	"time"

	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/mstavrou/epresent-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(testDB), jwtCfg), testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email, password string, role model.UserRole) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Admin",
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	createUser(t, testDB, "admin@example.com", "correct-horse", model.RoleAdmin)

	result, err := authService.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", result.User.Email)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	claims, err := util.ValidateToken(result.Tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	createUser(t, testDB, "admin@example.com", "correct-horse", model.RoleAdmin)

	_, err := authService.Login("admin@example.com", "battery-staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	createUser(t, testDB, "admin@example.com", "correct-horse", model.RoleAdmin)

	result, err := authService.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)

	tokens, err := authService.Refresh(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = authService.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
