package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/reelworks/production-runner/internal/utils"
)

// User mirrors one row of the users table.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepo manages account persistence.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailExists is returned when a registration collides with an
// existing account.
var ErrEmailExists = errors.New("email already exists")

const userColumns = "id, email, password_hash, role, is_active, created_at, updated_at"

func scanUser(scanner interface{ Scan(...any) error }, u *User) error {
	return scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// Create hashes the password and inserts the user, returning the new id.
// The email arrives already lowercased from the handler but is normalized
// again so the unique index sees one canonical form.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
		email, hash, role)
	if err != nil {
		// 1062 is the MySQL duplicate-key error.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email), &u)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id), &u)
	return u, err
}
