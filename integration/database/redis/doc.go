// Package redis provides Redis client initialization, health checking, and a
// Redis-backed session key cache.
//
// This package wraps the go-redis client with connection validation, retry logic, and
// configuration optimized for reliable Redis connectivity. It supports both redis:// and
// rediss:// (TLS) URL schemes with exponential backoff retry logic for handling transient
// network issues.
//
// # Key Features
//
//   - Connect: Creates a Redis client with retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring Redis connectivity
//   - SessionStore: A sessioncache.Store implementation with per-entry TTL
//
// Connection establishment validates the Redis URL format, attempts connection with retries,
// and verifies connectivity with a ping operation before returning the client.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		SessionKeyTTL  time.Duration `env:"REDIS_SESSION_KEY_TTL" envDefault:"24h"`
//	}
//
// # Usage Example
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//		log.Fatal("Failed to parse config:", err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("Failed to connect to Redis:", err)
//	}
//	defer client.Close()
//
//	sessions := redis.NewSessionStore(client, cfg.SessionKeyTTL)
//	vault := fieldvault.New(personal, family, sessions, sessionID)
//	_ = vault
//
// # Session Key Cache
//
// SessionStore holds session-scoped key material under the fixed
// sessioncache.CacheName namespace. Entries expire with the session TTL and
// every Set refreshes the expiry, so an active session keeps its key warm
// while abandoned sessions age out on their own.
//
// # Health Checking
//
// The package provides a health check function suitable for Kubernetes readiness/liveness
// probes or HTTP health endpoints:
//
//	healthCheck := redis.Healthcheck(client)
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "Redis unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseRedisConnString: Returned when the Redis connection URL is malformed
//   - ErrRedisNotReady: Returned when Redis doesn't become ready within the timeout period
//   - ErrEmptyConnectionURL: Returned when no connection URL is provided
//   - ErrHealthcheckFailed: Returned when health check ping fails
//
// These errors wrap the underlying go-redis client errors while providing stable error types
// for application-level error handling and retry logic.
package redis
