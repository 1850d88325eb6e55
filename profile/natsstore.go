package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketProfiles is the NATS KV bucket holding user profiles.
const BucketProfiles = "CYBERSAGA_PROFILES"

// NATSStore persists profiles in a NATS JetStream KV bucket, for shared or
// multi-instance deployments.
type NATSStore struct {
	kv jetstream.KeyValue
}

// NewNATSStore creates a KV-backed store, creating the bucket if it
// doesn't exist.
func NewNATSStore(ctx context.Context, js jetstream.JetStream) (*NATSStore, error) {
	kv, err := js.KeyValue(ctx, BucketProfiles)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      BucketProfiles,
			Description: "CyberSaga user profiles",
			History:     5, // Keep last 5 revisions
		})
		if err != nil {
			return nil, fmt.Errorf("create profiles bucket: %w", err)
		}
	}
	return &NATSStore{kv: kv}, nil
}

// key flattens a user id into a valid KV key.
func key(userID string) string {
	return strings.NewReplacer("/", "_", " ", "_", ".", "_").Replace(userID)
}

// Load retrieves the profile for a user.
func (s *NATSStore) Load(ctx context.Context, userID string) (*UserProfile, error) {
	entry, err := s.kv.Get(ctx, key(userID))
	if err != nil {
		if isKeyNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p UserProfile
	if err := json.Unmarshal(entry.Value(), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// Save persists the profile.
func (s *NATSStore) Save(ctx context.Context, p *UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if _, err := s.kv.Put(ctx, key(p.UserID), data); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

// isKeyNotFound checks if an error indicates a key was not found.
func isKeyNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
