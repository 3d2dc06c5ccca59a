// Package app wires configuration into storage adapters and namespaces.
package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"noteboard/internal/adapters/filesystem"
	"noteboard/internal/adapters/redisstore"
	"noteboard/internal/adapters/sqlite"
	"noteboard/internal/adapters/transient"
	"noteboard/internal/config"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// App holds the opened backends of one process
type App struct {
	Config    config.Config
	Store     *sqlite.Store
	Content   *filesystem.ContentStore
	Slot      ports.SnapshotSlot
	Transient *transient.Namespace

	redis *goredis.Client
}

// Open opens the durable store, the content directory and the snapshot
// slot described by cfg. The slot lives in Redis when a URL is configured
// and in a local file otherwise.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	codec, err := transient.CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Content: filesystem.NewContentStore(cfg.ContentDir)}
	a.Store = sqlite.NewStore(a.Content)
	if err := a.Store.Open(cfg.DBPath); err != nil {
		return nil, err
	}

	if cfg.RedisURL != "" {
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			a.Store.Close()
			return nil, err
		}
		a.redis = client
		a.Slot = redisstore.NewSessionSlot(client, cfg.Session, cfg.SessionTTL)
	} else {
		a.Slot = filesystem.NewSnapshotFile(cfg.SnapshotPath)
	}

	a.Transient = transient.New(a.Slot, codec)
	return a, nil
}

// Close releases every backend
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// Durable returns the durable namespace of owner
func (a *App) Durable(ctx context.Context, owner domain.Owner) (*sqlite.Namespace, error) {
	return a.Store.Namespace(ctx, owner)
}

// Namespace returns the durable namespace of the configured owner, or the
// transient namespace when none is configured.
func (a *App) Namespace(ctx context.Context) (ports.Namespace, error) {
	if a.Config.Owner == "" {
		return a.Transient, nil
	}
	ns, err := a.Durable(ctx, domain.Owner(a.Config.Owner))
	if err != nil {
		return nil, fmt.Errorf("failed to open owner namespace: %w", err)
	}
	return ns, nil
}

// PromotionTarget returns the namespace promotion writes into, issuing a
// fresh owner when none is configured.
func (a *App) PromotionTarget(ctx context.Context) (*sqlite.Namespace, error) {
	owner := domain.Owner(a.Config.Owner)
	if owner == "" {
		created, err := a.Store.CreateOwner(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create owner: %w", err)
		}
		owner = created
	}
	return a.Durable(ctx, owner)
}
