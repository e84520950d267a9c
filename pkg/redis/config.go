package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the database. It should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of attempts to connect to the database.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`            // RetryInterval is the first backoff interval; it doubles on each attempt.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds the whole connect sequence including retries.

	CheckpointNamespace string        `env:"REDIS_CHECKPOINT_NAMESPACE" envDefault:"textfix"` // CheckpointNamespace prefixes the checkpoint hash key.
	CheckpointTTL       time.Duration `env:"REDIS_CHECKPOINT_TTL" envDefault:"168h"`          // CheckpointTTL expires abandoned checkpoints; zero keeps them forever.
}
