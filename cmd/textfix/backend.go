package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/textfix/pkg/config"
	"github.com/dmitrymomot/textfix/pkg/logger"
	"github.com/dmitrymomot/textfix/pkg/memstore"
	"github.com/dmitrymomot/textfix/pkg/mongo"
	"github.com/dmitrymomot/textfix/pkg/pg"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
	"github.com/dmitrymomot/textfix/pkg/redis"
	"github.com/dmitrymomot/textfix/pkg/targets"
)

// backends opens connections on first use and owns them until Close.
type backends struct {
	log    *slog.Logger
	pool   *pgxpool.Pool
	db     *mongodriver.Database
	redis  *goredis.Client
	memory []memoryTarget
}

type memoryTarget struct {
	path  string
	store *memstore.Store
}

func newBackends(log *slog.Logger) *backends {
	return &backends{log: log.With(logger.Component("backend"))}
}

// factory returns a targets.Factory that connects lazily within ctx.
func (b *backends) factory(ctx context.Context) targets.Factory {
	return func(backend targets.Backend, spec targets.Spec) (reconcile.Store, error) {
		switch backend {
		case targets.BackendPostgres:
			pool, err := b.postgres(ctx)
			if err != nil {
				return nil, err
			}
			return pg.NewCollection(pool, pg.CollectionConfig{
				Table:    spec.Table(),
				IDColumn: spec.ID,
				IDType:   pg.IDType(spec.IDType),
			})
		case targets.BackendMongo:
			if spec.ID != "" && spec.ID != "_id" {
				return nil, fmt.Errorf("mongo targets are keyed by _id, got id %q", spec.ID)
			}
			db, err := b.mongo(ctx)
			if err != nil {
				return nil, err
			}
			return mongo.NewCollection(db.Collection(spec.Table()), mongo.IDType(spec.IDType))
		case targets.BackendMemory:
			return b.loadMemory(spec)
		default:
			return nil, fmt.Errorf("%w: %q", errUnknownBackend, backend)
		}
	}
}

func (b *backends) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if b.pool != nil {
		return b.pool, nil
	}
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.log.InfoContext(ctx, "connected to postgres")
	b.pool = pool
	return pool, nil
}

func (b *backends) mongo(ctx context.Context) (*mongodriver.Database, error) {
	if b.db != nil {
		return b.db, nil
	}
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	db, err := mongo.NewWithDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.log.InfoContext(ctx, "connected to mongo", slog.String("database", cfg.Database))
	b.db = db
	return db, nil
}

// checkpointer connects to Redis and returns the checkpoint store.
func (b *backends) checkpointer(ctx context.Context) (*redis.CheckpointStore, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if b.redis == nil {
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.log.InfoContext(ctx, "connected to redis")
		b.redis = client
	}
	return redis.NewCheckpointStore(b.redis, cfg.CheckpointNamespace, cfg.CheckpointTTL)
}

func (b *backends) loadMemory(spec targets.Spec) (*memstore.Store, error) {
	f, err := os.Open(spec.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	store := memstore.New(memstore.WithIDField(spec.ID))
	if err := store.Load(f); err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Data, err)
	}
	b.memory = append(b.memory, memoryTarget{path: spec.Data, store: store})
	return store, nil
}

// flush writes memory targets back to their data files. Each file is
// replaced atomically.
func (b *backends) flush() error {
	var errs []error
	for _, m := range b.memory {
		if err := writeFileAtomic(m.path, m.store); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.path, err))
		}
	}
	return errors.Join(errs...)
}

func writeFileAtomic(path string, store *memstore.Store) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := store.WriteJSON(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// healthchecks returns a check per open connection.
func (b *backends) healthchecks() map[string]func(context.Context) error {
	checks := make(map[string]func(context.Context) error)
	if b.pool != nil {
		checks["postgres"] = pg.Healthcheck(b.pool)
	}
	if b.db != nil {
		checks["mongo"] = mongo.Healthcheck(b.db.Client())
	}
	if b.redis != nil {
		checks["redis"] = redis.Healthcheck(b.redis)
	}
	return checks
}

func (b *backends) Close(ctx context.Context) {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.db != nil {
		if err := b.db.Client().Disconnect(ctx); err != nil {
			b.log.WarnContext(ctx, "failed to disconnect from mongo", logger.Error(err))
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			b.log.WarnContext(ctx, "failed to close redis client", logger.Error(err))
		}
	}
}
