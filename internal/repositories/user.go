package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// User returns one credential row by name, or [shared.ErrNotFound].
func (c *Connection) User(ctx context.Context, name string) (models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user(ctx, name)
}

func (c *Connection) user(ctx context.Context, name string) (models.User, error) {
	rows, err := c.backend.Query(ctx, sqlGetUser, []backend.Value{backend.Text(name)})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if len(rows) == 0 {
		return models.User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, name)
	}
	return models.UserFromRow(rows[0])
}

// ValidateUser checks a username/password pair against the user table.
// Stored passwords are bcrypt hashes.
func (c *Connection) ValidateUser(ctx context.Context, name, password string) error {
	c.mu.Lock()
	user, err := c.user(ctx, name)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return shared.ErrAuthFailed
	}
	return nil
}

// UpsertUser creates or replaces a credential row, hashing the password with
// bcrypt.
func (c *Connection) UpsertUser(ctx context.Context, name, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{ID: models.NewID().String(), Name: name, Password: string(hash)}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.backend.Execute(ctx, sqlUpsertUser, []backend.Value{
		backend.Text(user.ID),
		backend.Text(user.Name),
		backend.Text(user.Password),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}
