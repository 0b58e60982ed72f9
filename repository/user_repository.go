package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"MuseFM/model"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateEmail is returned when creating a user with an email that is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data operations. Lookups by
// email are case-insensitive: emails are lowercased before every read and
// write. When withSecrets is false the password hash and refresh token are
// left blank in the returned user.
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id string, withSecrets bool) (*model.User, error)
	FindByEmail(email string, withSecrets bool) (*model.User, error)
	UpdateRefreshToken(id, refreshToken string) error
	UpdateProvider(id, provider string) error
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

// Create adds a new user to the database. The user's ID is generated when
// empty and the email is stored lowercase.
func (r *mysqlUserRepository) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	user.Email = strings.ToLower(user.Email)

	var passwordHash sql.NullString
	if user.PasswordHash != "" {
		passwordHash = sql.NullString{String: user.PasswordHash, Valid: true}
	}

	query := "INSERT INTO users (id, name, email, password_hash, provider) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, passwordHash, user.Provider)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to execute create user statement: %w", err)
	}
	return nil
}

func (r *mysqlUserRepository) scanUser(row *sql.Row, withSecrets bool) (*model.User, error) {
	user := &model.User{}
	var passwordHash, refreshToken sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Provider, &refreshToken, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	if withSecrets {
		user.PasswordHash = passwordHash.String
		user.RefreshToken = refreshToken.String
	}
	return user, nil
}

// FindByID retrieves a user by their ID.
func (r *mysqlUserRepository) FindByID(id string, withSecrets bool) (*model.User, error) {
	query := "SELECT id, name, email, password_hash, provider, refresh_token, created_at FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, id), withSecrets)
}

// FindByEmail retrieves a user by their email address.
func (r *mysqlUserRepository) FindByEmail(email string, withSecrets bool) (*model.User, error) {
	query := "SELECT id, name, email, password_hash, provider, refresh_token, created_at FROM users WHERE email = ?"
	return r.scanUser(r.db.QueryRow(query, strings.ToLower(email)), withSecrets)
}

// UpdateRefreshToken overwrites the user's stored refresh token. Exactly one
// refresh token is valid per user at any time, so issuing a new one from a
// second device invalidates the first session.
func (r *mysqlUserRepository) UpdateRefreshToken(id, refreshToken string) error {
	query := "UPDATE users SET refresh_token = ? WHERE id = ?"
	if _, err := r.db.Exec(query, refreshToken, id); err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", id, err)
	}
	return nil
}

// UpdateProvider overwrites the user's auth provider tag.
func (r *mysqlUserRepository) UpdateProvider(id, provider string) error {
	query := "UPDATE users SET provider = ? WHERE id = ?"
	if _, err := r.db.Exec(query, provider, id); err != nil {
		return fmt.Errorf("failed to update provider for user %s: %w", id, err)
	}
	return nil
}
