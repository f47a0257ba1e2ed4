package repository

import (
	"database/sql"
	"errors"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrDuplicateDevice  = errors.New("device identifier already paired")
)

type DeviceRepository interface {
	Create(device *model.GarminDevice) error
	ByID(id string) (*model.GarminDevice, error)
	ByIdentifier(identifier string) (*model.GarminDevice, error)
	ByUser(userID string) ([]*model.GarminDevice, error)
	Update(device *model.GarminDevice) error
	Delete(id string) error
}

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(device *model.GarminDevice) error {
	query := `
		INSERT INTO garmin_devices (id, user_id, device_identifier, name, model, firmware_version,
			battery_level, is_active, paired_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		device.ID,
		device.UserID,
		device.DeviceIdentifier,
		device.Name,
		device.Model,
		device.FirmwareVersion,
		device.BatteryLevel,
		device.IsActive,
		device.PairedAt,
		device.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateDevice
	}

	return err
}

func (r *deviceRepository) ByID(id string) (*model.GarminDevice, error) {
	device := &model.GarminDevice{}
	query := `SELECT * FROM garmin_devices WHERE id = $1`

	err := r.db.Get(device, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}

	return device, err
}

func (r *deviceRepository) ByIdentifier(identifier string) (*model.GarminDevice, error) {
	device := &model.GarminDevice{}
	query := `SELECT * FROM garmin_devices WHERE device_identifier = $1`

	err := r.db.Get(device, query, identifier)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}

	return device, err
}

func (r *deviceRepository) ByUser(userID string) ([]*model.GarminDevice, error) {
	devices := []*model.GarminDevice{}
	query := `SELECT * FROM garmin_devices WHERE user_id = $1 ORDER BY paired_at DESC`

	err := r.db.Select(&devices, query, userID)
	if err != nil {
		return nil, err
	}

	return devices, nil
}

func (r *deviceRepository) Update(device *model.GarminDevice) error {
	query := `
		UPDATE garmin_devices
		SET name = $1, model = $2, firmware_version = $3, battery_level = $4, is_active = $5, last_sync_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(query,
		device.Name,
		device.Model,
		device.FirmwareVersion,
		device.BatteryLevel,
		device.IsActive,
		device.LastSyncAt,
		device.ID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDeviceNotFound)
}

func (r *deviceRepository) Delete(id string) error {
	query := `DELETE FROM garmin_devices WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDeviceNotFound)
}
