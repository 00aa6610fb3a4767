package output

import (
	"context"

	"gdbot/internal/domain/entities"
)

// UserDirectory caches display names seen on successful member lookups so a
// later failed lookup can still show a name.
type UserDirectory interface {
	RememberUser(ctx context.Context, id entities.UserID, name string) error
	// LookupUser returns "" when the user was never seen.
	LookupUser(ctx context.Context, id entities.UserID) (string, error)
}
