package library

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt hash suitable for User.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate verifies a user's password and returns the user on success.
func (d *Database) Authenticate(userID, password string) (*User, error) {
	u, err := d.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrInvalidCredentials)
	}
	return u, nil
}

// ResetPassword replaces a user's stored password hash.
func (d *Database) ResetPassword(userID, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`UPDATE users SET password_hash=? WHERE user_id=?`, hash, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}
