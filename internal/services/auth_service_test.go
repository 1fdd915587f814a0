package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/testutil"
	"github.com/javajoker/storefront-api/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	cfg := testutil.NewTestConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	return NewAuthService(testutil.NewTestDB(t), cfg)
}

func validRegistration(username string) *RegisterRequest {
	return &RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "sup3rsecret",
		PasswordConfirm: "sup3rsecret",
		FirstName:       "Jamie",
	}
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(validRegistration("jamie"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "jamie", resp.User.Username)

	claims, err := utils.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.False(t, claims.IsStaff)

	var profiles int64
	svc.db.Model(&models.Profile{}).Where("user_id = ?", resp.User.ID).Count(&profiles)
	assert.EqualValues(t, 1, profiles)

	_, err = svc.Register(validRegistration("jamie"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	mismatch := validRegistration("casey")
	mismatch.PasswordConfirm = "something-else"
	_, err := svc.Register(mismatch)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	short := validRegistration("casey")
	short.Password, short.PasswordConfirm = "short", "short"
	_, err = svc.Register(short)
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))

	badName := validRegistration("has space")
	_, err = svc.Register(badName)
	assert.True(t, errors.As(err, &validationErr))

	noEmail := validRegistration("casey")
	noEmail.Email = ""
	_, err = svc.Register(noEmail)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	user := testutil.CreateUser(t, svc.db, "morgan")

	resp, err := svc.Login(&LoginRequest{Username: "morgan", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	var reloaded models.User
	require.NoError(t, svc.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.NotNil(t, reloaded.LastLoginAt)

	_, err = svc.Login(&LoginRequest{Username: "morgan", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Login(&LoginRequest{Username: "morgan", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Register(validRegistration("riley"))
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Username: "riley", Password: "sup3rsecret"})
	require.NoError(t, err)
	claims, err := utils.ValidateJWT(resp.Token)
	require.NoError(t, err)

	revoked, err := svc.IsTokenRevoked(claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(claims))
	// logging out twice with the same token is harmless
	require.NoError(t, svc.Logout(claims))

	revoked, err = svc.IsTokenRevoked(claims)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.CheckSession(claims)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// the refresh token from the same login is dead too
	_, err = svc.RefreshToken(&RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// other sessions of the same user are untouched
	other, err := svc.Login(&LoginRequest{Username: "riley", Password: "sup3rsecret"})
	require.NoError(t, err)
	_, err = svc.RefreshToken(&RefreshRequest{RefreshToken: other.RefreshToken})
	assert.NoError(t, err)
}

func TestCheckSession(t *testing.T) {
	svc := newAuthService(t)
	user := testutil.CreateUser(t, svc.db, "quinn")

	_, claims, err := utils.GenerateJWT(user.ID, user.Username, true, 1)
	require.NoError(t, err)

	current, err := svc.CheckSession(claims)
	require.NoError(t, err)
	assert.True(t, current.IsActive)
	// the database wins over the staff flag baked into the token
	assert.False(t, current.IsStaff)

	require.NoError(t, svc.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	current, err = svc.CheckSession(claims)
	require.NoError(t, err)
	assert.False(t, current.IsActive)

	_, ghost, err := utils.GenerateJWT(uuid.New(), "ghost", false, 1)
	require.NoError(t, err)
	_, err = svc.CheckSession(ghost)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	resp, err := svc.Register(validRegistration("avery"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(&RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	// an access token is not accepted as a refresh token
	_, err = svc.RefreshToken(&RefreshRequest{RefreshToken: resp.Token})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileGetOrCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewProfileService(db)
	user := testutil.CreateUser(t, db, "quinn")

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "quinn", profile.User.Username)

	again, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)

	address, city := "1 Main St", "Springfield"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Address: &address, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St, Springfield", updated.ShippingAddress())

	country := "US"
	updated, err = svc.UpdateProfile(user.ID, &UpdateProfileRequest{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", updated.Address)
	assert.Equal(t, "US", updated.Country)

	_, err = svc.GetProfile(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
