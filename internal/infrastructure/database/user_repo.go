package database

import (
	"context"
	"fmt"
	"time"

	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

var _ output.UserDirectory = (*UserRepository)(nil)

// UserRepository caches member display names in the users table.
type UserRepository struct {
	db  DBTX
	now func() time.Time
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) RememberUser(ctx context.Context, id entities.UserID, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, last_updated) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, last_updated = excluded.last_updated`,
		int64(id), name, r.now().Unix())
	if err != nil {
		return fmt.Errorf("remember user %s: %w", id, err)
	}
	return nil
}

func (r *UserRepository) LookupUser(ctx context.Context, id entities.UserID) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE id = ?`, int64(id)).Scan(&name)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("lookup user %s: %w", id, err)
	}
	return name, nil
}
