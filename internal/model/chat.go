package model

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

type ChatSession struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	RoundID       *string    `db:"round_id" json:"round_id"`
	CourseID      *string    `db:"course_id" json:"course_id"`
	Name          string     `db:"name" json:"name"`
	TotalMessages int        `db:"total_messages" json:"total_messages"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	Messages []*ChatMessage `db:"-" json:"messages,omitempty"`
}

type ChatMessage struct {
	ID         string    `db:"id" json:"id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Role       string    `db:"role" json:"role"`
	Content    string    `db:"content" json:"content"`
	TokensUsed int       `db:"tokens_used" json:"tokens_used"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
