package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrChatSessionNotFound = errors.New("chat session not found")
)

type ChatRepository interface {
	CreateSession(session *model.ChatSession) error
	SessionByID(id string) (*model.ChatSession, error)
	Sessions(userID string) ([]*model.ChatSession, error)
	DeleteSession(id string) error
	AddMessage(ctx context.Context, msg *model.ChatMessage) error
	RecentMessages(sessionID string, limit int) ([]*model.ChatMessage, error)
}

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(session *model.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, round_id, course_id, name, total_messages, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		session.ID,
		session.UserID,
		session.RoundID,
		session.CourseID,
		session.Name,
		session.TotalMessages,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *chatRepository) SessionByID(id string) (*model.ChatSession, error) {
	session := &model.ChatSession{}
	query := `SELECT * FROM chat_sessions WHERE id = $1`

	err := r.db.Get(session, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrChatSessionNotFound
	}

	return session, err
}

func (r *chatRepository) Sessions(userID string) ([]*model.ChatSession, error) {
	sessions := []*model.ChatSession{}
	query := `SELECT * FROM chat_sessions WHERE user_id = $1 ORDER BY updated_at DESC`

	err := r.db.Select(&sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *chatRepository) DeleteSession(id string) error {
	query := `DELETE FROM chat_sessions WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrChatSessionNotFound)
}

// AddMessage stores the message and bumps the session counters together.
func (r *chatRepository) AddMessage(ctx context.Context, msg *model.ChatMessage) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO chat_messages (id, session_id, user_id, role, content, tokens_used, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			msg.ID,
			msg.SessionID,
			msg.UserID,
			msg.Role,
			msg.Content,
			msg.TokensUsed,
			msg.CreatedAt,
		)
		if err != nil {
			return err
		}

		result, err := tx.Exec(`
			UPDATE chat_sessions
			SET total_messages = total_messages + 1, last_message_at = $1, updated_at = $2
			WHERE id = $3
		`, msg.CreatedAt, msg.CreatedAt, msg.SessionID)
		if err != nil {
			return err
		}

		return expectRow(result, ErrChatSessionNotFound)
	})
}

// RecentMessages returns the last limit messages of the session in chronological order.
// A limit of 0 returns the whole history.
func (r *chatRepository) RecentMessages(sessionID string, limit int) ([]*model.ChatMessage, error) {
	messages := []*model.ChatMessage{}

	var err error
	if limit > 0 {
		query := `
			SELECT * FROM (
				SELECT * FROM chat_messages WHERE session_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
			) recent
			ORDER BY created_at ASC, id ASC
		`
		err = r.db.Select(&messages, query, sessionID, limit)
	} else {
		query := `SELECT * FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC, id ASC`
		err = r.db.Select(&messages, query, sessionID)
	}
	if err != nil {
		return nil, err
	}

	return messages, nil
}
