package model

import "time"

type GarminDevice struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"user_id"`
	DeviceIdentifier string     `db:"device_identifier" json:"device_identifier"`
	Name             string     `db:"name" json:"name"`
	Model            string     `db:"model" json:"model"`
	FirmwareVersion  string     `db:"firmware_version" json:"firmware_version"`
	BatteryLevel     *int       `db:"battery_level" json:"battery_level"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	PairedAt         time.Time  `db:"paired_at" json:"paired_at"`
	LastSyncAt       *time.Time `db:"last_sync_at" json:"last_sync_at"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
