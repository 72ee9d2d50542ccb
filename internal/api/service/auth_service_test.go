package service

import (
	"testing"
	"time"

	"filmhub/internal/api/repository"
	"filmhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:      "test-secret-test-secret-test-secret!",
		AccessTokenTTL: time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(db), cfg), db
}

func TestRegister_HashesPasswordAndAssignsNickname(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register("alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter22", user.Password)
	assert.Len(t, user.Nickname, 8)
	assert.Equal(t, "user", user.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register("alice", "hunter22")
	require.NoError(t, err)
	_, err = svc.Register("alice", "different")
	assert.ErrorIs(t, err, ErrNameInUse)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register("alice", "hunter22")
	require.NoError(t, err)

	token, user, err := svc.Login("alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register("alice", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
