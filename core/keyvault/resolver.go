package keyvault

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/finwall/fieldvault/core/kdf"
	"github.com/finwall/fieldvault/core/logger"
	"github.com/finwall/fieldvault/pkg/async"
)

// State describes the resolution state for one user id.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateReady
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

const defaultWaitTimeout = 5 * time.Second

// Resolver resolves master keys against a RecordStore, guaranteeing at most
// one resolution in flight per user id. Safe for concurrent use.
type Resolver struct {
	store       RecordStore
	log         *slog.Logger
	waitTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]*async.Future[[]byte]
	states   map[string]State
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution state transitions.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithWaitTimeout bounds how long a concurrent caller waits for another
// caller's in-flight resolution before degrading to ErrNotInitialized.
func WithWaitTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.waitTimeout = d
		}
	}
}

// NewResolver creates a resolver backed by the given record store.
func NewResolver(store RecordStore, opts ...Option) *Resolver {
	r := &Resolver{
		store:       store,
		log:         slog.Default(),
		waitTimeout: defaultWaitTimeout,
		inflight:    make(map[string]*async.Future[[]byte]),
		states:      make(map[string]State),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State reports the current resolution state for a user id.
func (r *Resolver) State(userID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[userID]
}

// Resolve returns the user's unwrapped master key, creating and persisting a
// wrapped master key on first use. If a resolution for the same user is
// already in flight, the caller awaits its result (bounded) instead of
// starting another one.
//
// The returned key is owned by the caller; the resolver retains no copy.
func (r *Resolver) Resolve(ctx context.Context, userID, password string) ([]byte, error) {
	if userID == "" {
		return nil, kdf.ErrMissingUserID
	}

	r.mu.Lock()
	if f, ok := r.inflight[userID]; ok {
		r.mu.Unlock()
		key, err := f.AwaitWithTimeout(r.waitTimeout)
		if errors.Is(err, async.ErrTimeout) {
			return nil, ErrNotInitialized
		}
		return key, err
	}

	f := async.NewFuture[[]byte]()
	r.inflight[userID] = f
	r.states[userID] = StateResolving
	r.mu.Unlock()

	r.log.Debug("resolving master key",
		logger.Component("keyvault"),
		logger.UserID(userID),
		logger.KeyState(StateResolving.String()),
	)

	key, err := r.resolve(ctx, userID, password)

	r.mu.Lock()
	delete(r.inflight, userID)
	if err != nil {
		r.states[userID] = StateFailed
	} else {
		r.states[userID] = StateReady
	}
	state := r.states[userID]
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("master key resolution failed",
			logger.Component("keyvault"),
			logger.UserID(userID),
			logger.KeyState(state.String()),
			logger.Error(err),
		)
	} else {
		r.log.Debug("master key resolved",
			logger.Component("keyvault"),
			logger.UserID(userID),
			logger.KeyState(state.String()),
		)
	}

	f.Complete(key, err)
	return key, err
}

func (r *Resolver) resolve(ctx context.Context, userID, password string) ([]byte, error) {
	kek, err := kdf.DeriveKEK(password, userID)
	if err != nil {
		return nil, err
	}

	record, err := r.store.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return r.initialize(ctx, userID, kek)
	case err != nil:
		return nil, errors.Join(ErrStoreFailure, err)
	}

	masterKey, err := unwrapMasterKey(kek, record.WrappedMasterKey, record.WrapIV)
	if err != nil {
		return nil, err
	}
	return masterKey, nil
}

// initialize creates, wraps, and persists a fresh master key for a new user.
func (r *Resolver) initialize(ctx context.Context, userID string, kek []byte) ([]byte, error) {
	masterKey, err := generateMasterKey()
	if err != nil {
		return nil, err
	}

	wrapped, iv, err := wrapMasterKey(kek, masterKey)
	if err != nil {
		return nil, err
	}

	record := &PersonalKeyRecord{
		UserID:           userID,
		WrappedMasterKey: wrapped,
		WrapIV:           iv,
		KeyType:          KeyTypePassword,
		Version:          kdf.Version,
		CreatedAt:        time.Now().UTC(),
	}
	if err := r.store.Put(ctx, record); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	r.log.Info("created personal key record",
		logger.Component("keyvault"),
		logger.UserID(userID),
		logger.Version(record.Version),
	)
	return masterKey, nil
}
