package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Handicap  *float64 `json:"handicap"`
}

type AuthService struct {
	userRepository     repository.UserRepository
	tokenRepository    repository.TokenRepository
	emailService       *EmailService
	google             GoogleIdentity
	jwtSecret          string
	jwtExpiry          time.Duration
	refreshTokenExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	google GoogleIdentity,
	jwtSecret string,
	jwtExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:     userRepository,
		tokenRepository:    tokenRepository,
		emailService:       emailService,
		google:             google,
		jwtSecret:          jwtSecret,
		jwtExpiry:          jwtExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

func (s *AuthService) Register(in RegisterInput) (*model.User, *model.TokenPair, error) {
	email := normalizeEmail(in.Email)

	errs := validation.Errors{}
	if err := validation.ValidateEmail(email); err != nil {
		errs.Add("email", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		errs.Add("password", err.Error())
	}
	if err := validation.ValidateName(in.FirstName); err != nil {
		errs.Add("first_name", err.Error())
	}
	if utf8.RuneCountInString(in.LastName) > 100 {
		errs.Add("last_name", "name is too long (max 100 characters)")
	}
	if in.Handicap != nil {
		if err := validation.ValidateHandicap(*in.Handicap); err != nil {
			errs.Add("handicap", err.Error())
		}
	}
	err := errs.Err()
	if err != nil {
		return nil, nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Handicap:     in.Handicap,
		SkillLevel:   skillForHandicap(in.Handicap),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)

	err = s.emailService.SendWelcomeEmail(user.Email, user.DisplayName())
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *AuthService) Login(email, password string) (*model.User, *model.TokenPair, error) {
	email = normalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth-only accounts have no password to compare against.
	if !user.HasPassword() {
		return nil, nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	err = s.userRepository.UpdateLastLogin(user.ID, now)
	if err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
	}
	user.LastLoginAt = &now

	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed atomically, so replaying it fails.
func (s *AuthService) Refresh(refreshToken string) (*model.User, *model.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, ErrInvalidToken
	}

	token, err := s.tokenRepository.ConsumeToken(hashToken(refreshToken), model.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	user, err := s.userRepository.ByID(token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout revokes the refresh token. Unknown or already used tokens are not an error.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	_, err := s.tokenRepository.ConsumeToken(hashToken(refreshToken), model.TokenTypeRefresh)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// GoogleSignIn completes a mobile PKCE flow and signs the user in, creating the account on first use.
func (s *AuthService) GoogleSignIn(ctx context.Context, code, redirectURI, codeVerifier string) (*model.User, *model.TokenPair, error) {
	if s.google == nil {
		return nil, nil, ErrFeatureDisabled
	}
	if code == "" {
		return nil, nil, invalid("code", errors.New("authorization code is required"))
	}

	identity, err := s.google.Identify(ctx, code, redirectURI, codeVerifier)
	if err != nil {
		slog.Warn("google sign-in failed", "error", err)
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.authenticateOAuth(identity)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *AuthService) authenticateOAuth(identity *OAuthIdentity) (*model.User, error) {
	email := normalizeEmail(identity.Email)

	err := validation.ValidateEmail(email)
	if err != nil || !identity.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		now := time.Now().UTC()
		err = s.userRepository.UpdateLastLogin(user.ID, now)
		if err != nil {
			slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
		}
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", identity.Provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	now := time.Now().UTC()
	user = &model.User{
		ID:         uuid.New().String(),
		Email:      email,
		FirstName:  identity.GivenName,
		LastName:   identity.FamilyName,
		SkillLevel: model.SkillIntermediate,
		Role:       model.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", identity.Provider)

	err = s.emailService.SendWelcomeEmail(user.Email, user.DisplayName())
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	return user, nil
}

// IssueTokens creates a signed access token and persists a fresh refresh token.
func (s *AuthService) IssueTokens(user *model.User) (*model.TokenPair, error) {
	now := time.Now().UTC()
	accessExpiry := now.Add(s.jwtExpiry)

	access, err := s.GenerateJWT(user, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshExpiry := now.Add(s.refreshTokenExpiry)
	err = s.tokenRepository.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeRefresh,
		Token:     hashToken(refresh),
		ExpiresAt: refreshExpiry,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		ExpiresAt:        accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// RevokeAll invalidates every outstanding refresh token of the user.
func (s *AuthService) RevokeAll(userID string) error {
	return s.tokenRepository.DeleteByUserAndType(userID, model.TokenTypeRefresh)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     issuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates the access token and returns the user id it was issued for.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// hashToken is what gets stored for refresh tokens; the raw value only exists on the client.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// skillForHandicap gives new golfers a starting skill level they can change later.
func skillForHandicap(handicap *float64) string {
	switch {
	case handicap == nil:
		return model.SkillIntermediate
	case *handicap <= 0:
		return model.SkillProfessional
	case *handicap <= 9:
		return model.SkillAdvanced
	case *handicap <= 20:
		return model.SkillIntermediate
	default:
		return model.SkillBeginner
	}
}
