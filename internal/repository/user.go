package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdateLastLogin(id string, at time.Time) error
	SetRole(email, role string) error
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, handicap, skill_level, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Handicap,
		user.SkillLevel,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}

	return err
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	query := `
		UPDATE users
		SET password_hash = $1, first_name = $2, last_name = $3, handicap = $4, skill_level = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(query,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Handicap,
		user.SkillLevel,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrUserNotFound)
}

func (r *userRepository) UpdateLastLogin(id string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`
	_, err := r.db.Exec(query, at, id)
	return err
}

func (r *userRepository) SetRole(email, role string) error {
	query := `UPDATE users SET role = $1, updated_at = $2 WHERE email = $3`

	result, err := r.db.Exec(query, role, time.Now().UTC(), email)
	if err != nil {
		return err
	}

	return expectRow(result, ErrUserNotFound)
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrUserNotFound)
}

// expectRow returns notFound when an UPDATE or DELETE touched nothing.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
