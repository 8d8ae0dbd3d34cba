// Package pg provides PostgreSQL connection management, health checking, and
// PostgreSQL-backed key record stores.
//
// This package wraps the pgx PostgreSQL driver with application-level retry logic and
// connection pool optimization. It's designed for cloud-native applications that need
// reliable PostgreSQL connectivity with proper error handling and operational readiness.
//
// # Key Features
//
//   - Connect: Creates a connection pool with retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring connectivity
//   - PersonalKeyStore / FamilyKeyStore: key registries over relational tables
//
// Connection establishment uses retry logic to handle transient network issues and
// prevents thundering herd problems when multiple services restart simultaneously.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment variable mapping:
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
// # Schema
//
// The key record stores expect the following tables:
//
//	CREATE TABLE user_keys (
//	    user_id            TEXT PRIMARY KEY,
//	    wrapped_master_key BYTEA NOT NULL,
//	    wrap_iv            BYTEA NOT NULL,
//	    key_type           TEXT NOT NULL,
//	    version            INT NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE family_keys (
//	    group_id    TEXT PRIMARY KEY,
//	    member_keys JSONB NOT NULL DEFAULT '{}',
//	    created_by  TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);
//
// # Transactions
//
// Both stores honor a pgx.Tx carried in the context via WithTx, so key record
// writes can participate in a caller's transaction:
//
//	tx, _ := pool.Begin(ctx)
//	ctx = pg.WithTx(ctx, tx)
//	err := personalStore.Put(ctx, record) // runs inside tx
//
// # Usage Example
//
//	ctx := context.Background()
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//		log.Fatal("Failed to parse config:", err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("Failed to connect to PostgreSQL:", err)
//	}
//	defer pool.Close()
//
//	personal := pg.NewPersonalKeyStore(pool)
//	family := pg.NewFamilyKeyStore(pool)
//	_, _ = personal, family
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseConnString: Returned when the connection string is malformed
//   - ErrFailedToConnect: Returned when all retry attempts are exhausted
//   - ErrHealthcheckFailed: Returned when health check ping fails
//
// Store methods translate pgx.ErrNoRows into the keyvault and familykeys
// ErrRecordNotFound sentinels so callers never depend on driver errors.
package pg
