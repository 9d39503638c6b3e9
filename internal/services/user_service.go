package services

import (
	"database/sql"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-be/internal/auth"
	"github.com/recipebook/recipebook-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user and session services.
type UserServiceProvider interface {
	Register(username, email, password string) (models.User, error)
	Login(username, password string) (models.Token, error)
	Logout(key string) error
	Authenticate(key string) (models.User, error)
}

// UserService provides business logic for accounts and their auth tokens.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// Register creates a new account, hashing the password. The plaintext
// password is never stored or logged.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("%w: enter a valid email address", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: a user with that username already exists", ErrValidation)
		}
		return models.User{}, err
	}

	s.events.Record("user.register", "info", "user "+user.Username+" registered", &user.ID)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and returns the user's token, minting one
// if none exists yet. Issuance is idempotent: two concurrent logins for the
// same user converge on a single row because the insert is resolved by the
// store's one-token-per-user constraint, not by in-process locking.
func (s *UserService) Login(username, password string) (models.Token, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, password_hash FROM users WHERE username = ?", username,
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash); err != nil {
		if err == sql.ErrNoRows {
			return models.Token{}, ErrInvalidCredentials
		}
		return models.Token{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.Token{}, ErrInvalidCredentials
	}

	key, err := auth.NewKey()
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO auth_tokens(key, user_id) VALUES(?, ?) ON CONFLICT(user_id) DO NOTHING",
		key, user.ID,
	)
	if err != nil {
		return models.Token{}, err
	}

	// Read back whichever key won: the fresh one, or the pre-existing one.
	var token models.Token
	row = s.db.QueryRow("SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = ?", user.ID)
	if err := row.Scan(&token.Key, &token.UserID, &token.CreatedAt); err != nil {
		return models.Token{}, err
	}

	s.events.Record("user.login", "info", "user "+user.Username+" logged in", &user.ID)
	return token, nil
}

// Logout revokes the presented token, ending the session immediately.
func (s *UserService) Logout(key string) error {
	result, err := s.db.Exec("DELETE FROM auth_tokens WHERE key = ?", key)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidToken
	}

	s.events.Record("user.logout", "info", "session ended", nil)
	return nil
}

// Authenticate resolves a bearer token key to its owning user.
func (s *UserService) Authenticate(key string) (models.User, error) {
	if key == "" {
		return models.User{}, ErrInvalidToken
	}

	var user models.User
	row := s.db.QueryRow(`
		SELECT u.id, u.username, u.email, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = ?`, key)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}
	return user, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure. The driver exposes no typed error for this, so the message is
// matched by substring.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
