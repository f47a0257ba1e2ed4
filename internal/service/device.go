package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

var ErrDeviceAlreadyPaired = errors.New("device is paired to another account")

type PairDeviceInput struct {
	DeviceIdentifier string `json:"device_identifier"`
	Name             string `json:"name"`
	Model            string `json:"model"`
	FirmwareVersion  string `json:"firmware_version"`
}

type SyncDeviceInput struct {
	BatteryLevel    *int    `json:"battery_level"`
	FirmwareVersion *string `json:"firmware_version"`
}

type DeviceService struct {
	deviceRepository repository.DeviceRepository
}

func NewDeviceService(deviceRepository repository.DeviceRepository) *DeviceService {
	return &DeviceService{deviceRepository: deviceRepository}
}

// Pair links a watch to the golfer. Pairing the same watch again refreshes its details.
func (s *DeviceService) Pair(userID string, in PairDeviceInput) (*model.GarminDevice, error) {
	identifier := strings.TrimSpace(in.DeviceIdentifier)

	errs := validation.Errors{}
	errs.Check(identifier != "", "device_identifier", "device identifier is required")
	errs.Check(len(identifier) <= 255, "device_identifier", "device identifier is too long")
	errs.Check(utf8.RuneCountInString(in.Name) <= 100, "name", "name is too long (max 100 characters)")
	if err := errs.Err(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Garmin device"
	}

	existing, err := s.deviceRepository.ByIdentifier(identifier)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return nil, ErrDeviceAlreadyPaired
		}
		existing.Name = name
		existing.Model = strings.TrimSpace(in.Model)
		existing.FirmwareVersion = strings.TrimSpace(in.FirmwareVersion)
		existing.IsActive = true
		err = s.deviceRepository.Update(existing)
		if err != nil {
			return nil, fmt.Errorf("failed to update device: %w", err)
		}
		return existing, nil
	case !errors.Is(err, repository.ErrDeviceNotFound):
		return nil, fmt.Errorf("failed to look up device: %w", err)
	}

	now := time.Now().UTC()
	device := &model.GarminDevice{
		ID:               uuid.New().String(),
		UserID:           userID,
		DeviceIdentifier: identifier,
		Name:             name,
		Model:            strings.TrimSpace(in.Model),
		FirmwareVersion:  strings.TrimSpace(in.FirmwareVersion),
		IsActive:         true,
		PairedAt:         now,
		CreatedAt:        now,
	}

	err = s.deviceRepository.Create(device)
	if err != nil {
		// lost a race with another pairing of the same identifier
		if errors.Is(err, repository.ErrDuplicateDevice) {
			return nil, ErrDeviceAlreadyPaired
		}
		return nil, fmt.Errorf("failed to pair device: %w", err)
	}

	slog.Info("device paired", "device_id", device.ID, "user_id", userID, "model", device.Model)
	return device, nil
}

func (s *DeviceService) Devices(userID string) ([]*model.GarminDevice, error) {
	return s.deviceRepository.ByUser(userID)
}

func (s *DeviceService) Unpair(userID, deviceID string) error {
	device, err := s.owned(userID, deviceID)
	if err != nil {
		return err
	}

	err = s.deviceRepository.Delete(device.ID)
	if err != nil {
		return err
	}

	slog.Info("device unpaired", "device_id", device.ID, "user_id", userID)
	return nil
}

// Sync records a check-in from the watch.
func (s *DeviceService) Sync(userID, deviceID string, in SyncDeviceInput) (*model.GarminDevice, error) {
	device, err := s.owned(userID, deviceID)
	if err != nil {
		return nil, err
	}

	if in.BatteryLevel != nil {
		if *in.BatteryLevel < 0 || *in.BatteryLevel > 100 {
			return nil, invalid("battery_level", errors.New("battery level must be between 0 and 100"))
		}
		device.BatteryLevel = in.BatteryLevel
	}
	if in.FirmwareVersion != nil {
		device.FirmwareVersion = strings.TrimSpace(*in.FirmwareVersion)
	}

	now := time.Now().UTC()
	device.LastSyncAt = &now
	device.IsActive = true

	err = s.deviceRepository.Update(device)
	if err != nil {
		return nil, fmt.Errorf("failed to sync device: %w", err)
	}

	return device, nil
}

func (s *DeviceService) owned(userID, deviceID string) (*model.GarminDevice, error) {
	device, err := s.deviceRepository.ByID(deviceID)
	if err != nil {
		return nil, err
	}
	if device.UserID != userID {
		return nil, ErrForbidden
	}
	return device, nil
}
