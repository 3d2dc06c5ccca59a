package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"noteboard/internal/ports"
)

const (
	keyPrefix        = "noteboard:snapshot:"
	lockTTL          = 10 * time.Second
	lockPollInterval = 20 * time.Millisecond
)

// unlockScript deletes the lock only while it still holds our value
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock only while it still holds our value
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SessionSlot implements ports.SnapshotSlot as one Redis key per session.
// Snapshots expire after ttl of inactivity; zero keeps them forever.
type SessionSlot struct {
	client  redis.UniversalClient
	session string
	ttl     time.Duration
	lockTTL time.Duration
}

// Ensure SessionSlot implements SnapshotSlot
var _ ports.SnapshotSlot = (*SessionSlot)(nil)

// Connect parses redisURL and checks the server answers
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewSessionSlot binds session to client
func NewSessionSlot(client redis.UniversalClient, session string, ttl time.Duration) *SessionSlot {
	return &SessionSlot{client: client, session: session, ttl: ttl, lockTTL: lockTTL}
}

func (s *SessionSlot) key() string {
	return keyPrefix + s.session
}

func (s *SessionSlot) lockKey() string {
	return s.key() + ":lock"
}

// Load returns nil when the session has no snapshot
func (s *SessionSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

// Save stores data and refreshes the expiry
func (s *SessionSlot) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot
func (s *SessionSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// Lock polls SET NX until it owns the lock key. The lease is extended
// while the lock is held and lapses on its own if the holder dies.
func (s *SessionSlot) Lock(ctx context.Context) (func(), error) {
	value := uuid.NewString()
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, s.lockKey(), value, s.lockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to take snapshot lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	// release and refresh even when the caller's context is gone
	bg := context.WithoutCancel(ctx)
	stop := make(chan struct{})
	done := make(chan struct{})
	go s.keepAlive(bg, value, stop, done)

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			close(stop)
			<-done
			if err := unlockScript.Run(bg, s.client, []string{s.lockKey()}, value).Err(); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("session", s.session).Msg("failed to release snapshot lock")
			}
		})
	}
	return unlock, nil
}

// keepAlive extends the lease every third of its ttl until stop closes or
// the lock no longer holds value
func (s *SessionSlot) keepAlive(ctx context.Context, value string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.lockTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		extended, err := refreshScript.Run(ctx, s.client, []string{s.lockKey()}, value, s.lockTTL.Milliseconds()).Int64()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("session", s.session).Msg("failed to refresh snapshot lock")
			continue
		}
		if extended == 0 {
			zerolog.Ctx(ctx).Warn().Str("session", s.session).Msg("snapshot lock lost")
			return
		}
	}
}
