package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for a user.
var ErrNotFound = errors.New("profile not found")

// Store persists user profiles. Implementations must return ErrNotFound
// (possibly wrapped) from Load when the user has no stored profile.
type Store interface {
	// Load retrieves the profile for a user.
	Load(ctx context.Context, userID string) (*UserProfile, error)

	// Save persists the profile, creating or overwriting it.
	Save(ctx context.Context, p *UserProfile) error
}

// LoadOrCreate returns the stored profile for a user, or a fresh one if
// none exists yet.
func LoadOrCreate(ctx context.Context, s Store, userID string) (*UserProfile, error) {
	p, err := s.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return New(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
