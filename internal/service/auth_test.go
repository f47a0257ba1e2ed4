package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	identity *OAuthIdentity
	err      error
}

func (g *fakeGoogle) Identify(context.Context, string, string, string) (*OAuthIdentity, error) {
	return g.identity, g.err
}

func register(t *testing.T, f *fixture, email string) (*model.User, *model.TokenPair) {
	t.Helper()
	hcp := 12.4
	user, pair, err := f.auth.Register(RegisterInput{Email: email, Password: "fairway42", FirstName: "Ada", Handicap: &hcp})
	require.NoError(t, err)
	return user, pair
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	user, pair := register(t, f, "  Ada@Example.com ")
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, model.SkillIntermediate, user.SkillLevel)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	userID, err := f.auth.VerifyJWT(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, _, err = f.auth.Register(RegisterInput{Email: "ada@example.com", Password: "fairway42", FirstName: "Ada"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, _, err = f.auth.Login("ada@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login("nobody@example.com", "fairway42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	loggedIn, _, err := f.auth.Login("ADA@example.com", "fairway42")
	require.NoError(t, err)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	hcp := 60.0

	_, _, err := f.auth.Register(RegisterInput{Email: "bad", Password: "short", Handicap: &hcp})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
	assert.Contains(t, verrs, "first_name")
	assert.Contains(t, verrs, "handicap")
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	_, pair := register(t, f, "ada@example.com")

	_, rotated, err := f.auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, _, err = f.auth.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, f.auth.Logout(rotated.RefreshToken))
	_, _, err = f.auth.Refresh(rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, f.auth.Logout("never-issued"))
}

func TestVerifyJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	f := newFixture(t)
	user := &model.User{ID: "u1", Email: "a@example.com", Role: model.RoleUser}

	expired, err := f.auth.GenerateJWT(user, time.Now().Add(-time.Hour), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = f.auth.VerifyJWT(expired)
	assert.Error(t, err)

	other := NewAuthService(nil, nil, nil, nil, "another-secret-entirely-different", time.Minute, time.Hour)
	foreign, err := other.GenerateJWT(user, time.Now(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	_, err = f.auth.VerifyJWT(foreign)
	assert.Error(t, err)
}

func TestGoogleSignIn(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.auth.GoogleSignIn(context.Background(), "code", "app://callback", "verifier")
	assert.ErrorIs(t, err, ErrFeatureDisabled)

	f.auth.google = &fakeGoogle{identity: &OAuthIdentity{Provider: "google", Email: "Grace@Example.com", EmailVerified: true, GivenName: "Grace"}}
	user, pair, err := f.auth.GoogleSignIn(context.Background(), "code", "app://callback", "verifier")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.False(t, user.HasPassword())
	assert.NotEmpty(t, pair.RefreshToken)

	again, _, err := f.auth.GoogleSignIn(context.Background(), "code", "app://callback", "verifier")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = f.auth.Login("grace@example.com", "anything1")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "oauth-only accounts cannot use password login")

	f.auth.google = &fakeGoogle{err: errors.New("bad code")}
	_, _, err = f.auth.GoogleSignIn(context.Background(), "code", "app://callback", "verifier")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	f := newFixture(t)
	user, pair := register(t, f, "ada@example.com")

	err := f.users.ChangePassword(user.ID, "not-it-99", "greens4days")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

	require.NoError(t, f.users.ChangePassword(user.ID, "fairway42", "greens4days"))

	_, _, err = f.auth.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = f.auth.Login("ada@example.com", "greens4days")
	assert.NoError(t, err)
}

func TestUpdateProfileAndDeleteAccount(t *testing.T) {
	f := newFixture(t)
	user, _ := register(t, f, "ada@example.com")
	ctx := context.Background()

	skill := " Advanced "
	last := "Lovelace"
	updated, err := f.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{LastName: &last, SkillLevel: &skill, ClearHandicap: true})
	require.NoError(t, err)
	assert.Equal(t, model.SkillAdvanced, updated.SkillLevel)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Nil(t, updated.Handicap)

	bad := 70.0
	_, err = f.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{Handicap: &bad})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	withAvatar, err := f.users.UploadAvatar(ctx, user.ID, pngUpload("me.png"))
	require.NoError(t, err)
	assert.Contains(t, withAvatar.AvatarURL, "memory://")

	require.NoError(t, f.users.DeleteAccount(ctx, user.ID))
	assert.Zero(t, f.store.Len())

	_, err = f.users.ByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
