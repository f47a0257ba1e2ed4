package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/storage"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

// Upload describes a file received from a client.
type Upload struct {
	Reader       io.ReadSeeker
	OriginalName string
	Size         int64
}

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

// NewFileService accepts a nil store; uploads then fail with ErrFeatureDisabled.
func NewFileService(fileRepo repository.FileRepository, store storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  store,
	}
}

// Upload validates the file against constraints, stores it and records it.
func (s *FileService) Upload(ctx context.Context, userID, ownerType, ownerID, fileType string, upload Upload, constraints validation.FileConstraints, isPublic bool) (*model.File, error) {
	if s.storage == nil {
		return nil, ErrFeatureDisabled
	}

	mimeType, err := validation.ValidateUpload(upload.Reader, upload.OriginalName, upload.Size, constraints)
	if err != nil {
		return nil, invalid("file", err)
	}

	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	filename := uuid.New().String() + ext

	prefix := "private"
	if isPublic {
		prefix = "public"
	}
	storagePath := path.Join(prefix, fileType+"s", filename) // avatar -> avatars

	err = s.storage.Save(ctx, storagePath, mimeType, upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		Type:         fileType,
		Filename:     filename,
		OriginalName: filepath.Base(upload.OriginalName),
		MimeType:     mimeType,
		Size:         upload.Size,
		StoragePath:  storagePath,
		Public:       isPublic,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.fileRepo.Create(file)
	if err != nil {
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}

// Latest returns the newest file of the type attached to the owner.
func (s *FileService) Latest(ownerType, ownerID, fileType string) (*model.File, error) {
	return s.fileRepo.FileByType(ownerType, ownerID, fileType)
}

// URL returns a fetchable link for the file, or "" when it cannot be produced.
func (s *FileService) URL(ctx context.Context, file *model.File) string {
	if file == nil || s.storage == nil {
		return ""
	}

	url, err := s.storage.URL(ctx, file.StoragePath, file.Public)
	if err != nil {
		slog.Warn("failed to build file URL", "error", err, "file_id", file.ID)
		return ""
	}
	return url
}

func (s *FileService) Delete(ctx context.Context, fileID string) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if s.storage != nil {
		delErr := s.storage.Delete(ctx, file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
		}
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

// ReplaceOwnerFiles removes every file of the type on the owner except keepID.
func (s *FileService) ReplaceOwnerFiles(ctx context.Context, ownerType, ownerID, fileType, keepID string) {
	files, err := s.fileRepo.Files(ownerType, ownerID)
	if err != nil {
		slog.Warn("failed to list owner files", "error", err, "owner_id", ownerID)
		return
	}

	for _, f := range files {
		if f.Type != fileType || f.ID == keepID {
			continue
		}
		err = s.Delete(ctx, f.ID)
		if err != nil && !errors.Is(err, repository.ErrFileNotFound) {
			slog.Warn("failed to delete replaced file", "error", err, "file_id", f.ID)
		}
	}
}

// DeleteOwnerFiles removes everything attached to the owner.
func (s *FileService) DeleteOwnerFiles(ctx context.Context, ownerType, ownerID string) {
	files, err := s.fileRepo.Files(ownerType, ownerID)
	if err != nil {
		slog.Warn("failed to list owner files", "error", err, "owner_id", ownerID)
		return
	}

	for _, f := range files {
		err = s.Delete(ctx, f.ID)
		if err != nil {
			slog.Warn("failed to delete owner file", "error", err, "file_id", f.ID)
		}
	}
}

// DeleteAllUserFilesFromStorage removes the objects only; the rows go with the user via ON DELETE CASCADE.
func (s *FileService) DeleteAllUserFilesFromStorage(ctx context.Context, userID string) error {
	if s.storage == nil {
		return nil
	}

	files, err := s.fileRepo.AllUserFiles(userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		err = s.storage.Delete(ctx, file.StoragePath)
		if err != nil {
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}
