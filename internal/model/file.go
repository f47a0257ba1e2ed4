package model

import (
	"time"
)

const (
	FileTypeAvatar    = "avatar"
	FileTypeScorecard = "scorecard"
)

const (
	FileOwnerUser  = "user"
	FileOwnerRound = "round"
)

type File struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`    // Who owns/created this file
	OwnerType    string    `db:"owner_type"` // "user" or "round"
	OwnerID      string    `db:"owner_id"`   // Polymorphic FK
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	Public       bool      `db:"public"` // avatars are public, scorecards private
	CreatedAt    time.Time `db:"created_at"`
}
