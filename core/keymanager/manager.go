package keymanager

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/finwall/fieldvault/core/fieldcrypt"
	"github.com/finwall/fieldvault/core/kdf"
	"github.com/finwall/fieldvault/core/keyvault"
	"github.com/finwall/fieldvault/core/logger"
	"github.com/finwall/fieldvault/core/sessioncache"
	"github.com/finwall/fieldvault/pkg/async"
)

const defaultWaitTimeout = 5 * time.Second

// Manager owns the active key for one session. Safe for concurrent use.
type Manager struct {
	resolver    *keyvault.Resolver
	cache       *sessioncache.Cache
	log         *slog.Logger
	waitTimeout time.Duration

	mu      sync.RWMutex
	cipher  *fieldcrypt.Cipher
	rawKey  []byte
	userID  string
	pending *async.Future[*fieldcrypt.Cipher]
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithWaitTimeout bounds WaitReady. Default is a few seconds: long enough
// for a KDF plus a key-record fetch, short enough that a dead registry does
// not freeze document reads.
func WithWaitTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.waitTimeout = d
		}
	}
}

// New creates a manager for one session. The resolver handles password
// principals; cache mirrors the key across process restarts in the session.
func New(resolver *keyvault.Resolver, cache *sessioncache.Cache, opts ...Option) *Manager {
	m := &Manager{
		resolver:    resolver,
		cache:       cache,
		log:         slog.Default(),
		waitTimeout: defaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RestoreFromSession attempts the fast path: re-importing the key from the
// session cache. Returns true if a key is now active. Failures are cache
// misses by contract and never block the caller from deriving normally.
func (m *Manager) RestoreFromSession(ctx context.Context) bool {
	userID, key, ok := m.cache.Restore(ctx)
	if !ok {
		return false
	}

	cipher, err := fieldcrypt.New(key)
	if err != nil {
		// Entry passed shape checks but still cannot back a cipher.
		_ = m.cache.Clear(ctx)
		return false
	}

	m.setActive(userID, key, cipher)
	m.log.Debug("session key restored",
		logger.Component("keymanager"),
		logger.UserID(userID),
	)
	return true
}

// ResolveWithPassword resolves the master key for a password principal and
// makes it the session's active key. Concurrent calls for the same user
// share one resolution (see keyvault.Resolver).
func (m *Manager) ResolveWithPassword(ctx context.Context, userID, password string) error {
	pending := m.startAttempt()

	key, err := m.resolver.Resolve(ctx, userID, password)
	if err != nil {
		pending.Complete(nil, err)
		return err
	}

	cipher, err := fieldcrypt.New(key)
	if err != nil {
		pending.Complete(nil, err)
		return err
	}

	m.setActive(userID, key, cipher)
	m.mirrorToSession(ctx, userID, key)
	pending.Complete(cipher, nil)
	return nil
}

// ResolveFederated derives the deterministic data key for a federated
// principal and makes it the active key. No network access involved.
func (m *Manager) ResolveFederated(ctx context.Context, userID string) error {
	pending := m.startAttempt()

	key, err := kdf.DeriveFederatedKey(userID)
	if err != nil {
		pending.Complete(nil, err)
		return err
	}

	cipher, err := fieldcrypt.New(key)
	if err != nil {
		pending.Complete(nil, err)
		return err
	}

	m.setActive(userID, key, cipher)
	m.mirrorToSession(ctx, userID, key)
	pending.Complete(cipher, nil)
	return nil
}

// ActiveCipher returns the active cipher, if any, without blocking.
func (m *Manager) ActiveCipher() (*fieldcrypt.Cipher, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cipher, m.cipher != nil
}

// UserID returns the identity the active key belongs to, or "" when no key
// is active.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// WaitReady blocks until the key is active or the in-flight resolution
// reaches a terminal state, bounded by the wait timeout. Returns
// keyvault.ErrNotInitialized when no key is active and nothing resolves in
// time; callers must treat that as "degrade gracefully", not as data loss.
func (m *Manager) WaitReady(ctx context.Context) error {
	m.mu.RLock()
	cipher := m.cipher
	pending := m.pending
	m.mu.RUnlock()

	if cipher != nil {
		return nil
	}
	if pending == nil {
		return keyvault.ErrNotInitialized
	}

	_, err := pending.AwaitWithTimeout(m.waitTimeout)
	switch {
	case errors.Is(err, async.ErrTimeout):
		return keyvault.ErrNotInitialized
	case err != nil:
		return err
	}
	return nil
}

// Clear drops the active key, zeroes it in memory, and removes the session
// cache entry. Called on logout and on password change.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	zero(m.rawKey)
	m.rawKey = nil
	m.cipher = nil
	m.userID = ""
	m.pending = nil
	m.mu.Unlock()

	return m.cache.Clear(ctx)
}

func (m *Manager) startAttempt() *async.Future[*fieldcrypt.Cipher] {
	f := async.NewFuture[*fieldcrypt.Cipher]()
	m.mu.Lock()
	m.pending = f
	m.mu.Unlock()
	return f
}

func (m *Manager) setActive(userID string, key []byte, cipher *fieldcrypt.Cipher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	zero(m.rawKey)
	m.rawKey = key
	m.cipher = cipher
	m.userID = userID
}

// mirrorToSession writes the key to the session cache. Failure is logged
// and swallowed: the key is already active, the session cache is only an
// optimization for the next process start.
func (m *Manager) mirrorToSession(ctx context.Context, userID string, key []byte) {
	if err := m.cache.Save(ctx, userID, key, kdf.Version); err != nil {
		m.log.Warn("failed to mirror key to session cache",
			logger.Component("keymanager"),
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
