package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

// UpdateProfileInput carries a partial profile update; nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Handicap      *float64 `json:"handicap"`
	ClearHandicap bool     `json:"clear_handicap"`
	SkillLevel    *string  `json:"skill_level"`
}

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
	fileService    *FileService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	authService *AuthService,
	fileService *FileService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
		fileService:    fileService,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	avatar, err := s.fileService.Latest(model.FileOwnerUser, id, model.FileTypeAvatar)
	if err == nil {
		user.AvatarURL = s.fileService.URL(ctx, avatar)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if err := validation.ValidateName(name); err != nil {
			errs.Add("first_name", err.Error())
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		errs.Check(utf8.RuneCountInString(name) <= 100, "last_name", "name is too long (max 100 characters)")
		user.LastName = name
	}
	if in.Handicap != nil {
		if err := validation.ValidateHandicap(*in.Handicap); err != nil {
			errs.Add("handicap", err.Error())
		}
		user.Handicap = in.Handicap
	} else if in.ClearHandicap {
		user.Handicap = nil
	}
	if in.SkillLevel != nil {
		level := normalizeLabel(*in.SkillLevel)
		errs.Check(model.ValidSkillLevel(level), "skill_level", "skill level must be beginner, intermediate, advanced or professional")
		user.SkillLevel = level
	}
	err = errs.Err()
	if err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now().UTC()
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.ByID(ctx, userID)
}

// ChangePassword replaces the password and signs out every other session.
func (s *UserService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() {
		err = s.authService.ComparePassword(currentPassword, *user.PasswordHash)
		if err != nil {
			return ErrInvalidCurrentPassword
		}
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return invalid("new_password", err)
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hash
	user.UpdatedAt = time.Now().UTC()
	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	err = s.authService.RevokeAll(userID)
	if err != nil {
		slog.Warn("failed to revoke refresh tokens", "error", err, "user_id", userID)
	}

	err = s.emailService.SendPasswordChangedEmail(user.Email, user.DisplayName())
	if err != nil {
		slog.Warn("failed to send password changed email", "error", err, "user_id", userID)
	}

	slog.Info("password changed", "user_id", userID)
	return nil
}

// UploadAvatar stores a new avatar and removes the previous one.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, upload Upload) (*model.User, error) {
	file, err := s.fileService.Upload(ctx, userID, model.FileOwnerUser, userID, model.FileTypeAvatar, upload, validation.ImageConstraints, true)
	if err != nil {
		return nil, err
	}

	s.fileService.ReplaceOwnerFiles(ctx, model.FileOwnerUser, userID, model.FileTypeAvatar, file.ID)

	return s.ByID(ctx, userID)
}

func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.fileService.DeleteAllUserFilesFromStorage(ctx, userID)
	if err != nil {
		slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
	}

	// Rounds, scores, chat history, devices, tokens and file rows cascade.
	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(user.Email, user.DisplayName())
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
