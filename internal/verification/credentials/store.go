package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"verigate/internal/verification/metrics"
	"verigate/pkg/platform/sentinel"
)

// TokenMirror shares credentials across processes so a restart does not
// force a fresh exchange while the previous token is still good.
type TokenMirror interface {
	Load(ctx context.Context, providerID string) (Credential, bool, error)
	Save(ctx context.Context, cred Credential) error
	Delete(ctx context.Context, providerID string) error
}

type entry struct {
	exchange Exchanger
	window   time.Duration

	current *Credential
	invalid bool
	lastErr error
}

// EntryOption configures one provider's entry.
type EntryOption func(*entry)

// WithRefreshWindow overrides the refresh-ahead window for one provider.
func WithRefreshWindow(d time.Duration) EntryOption {
	return func(e *entry) {
		if d >= 0 {
			e.window = d
		}
	}
}

// Store holds one credential per provider. Refreshes for the same provider
// are coalesced: concurrent callers share a single exchange.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group

	mirror  TokenMirror
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

func WithMirror(m TokenMirror) Option {
	return func(s *Store) { s.mirror = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates an empty credential store.
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds or replaces the exchange for providerID.
func (s *Store) Register(providerID string, exchange Exchanger, opts ...EntryOption) {
	e := &entry{exchange: exchange, window: DefaultRefreshWindow}
	for _, opt := range opts {
		opt(e)
	}
	s.mu.Lock()
	s.entries[providerID] = e
	s.mu.Unlock()
}

// GetValidCredential returns a credential that will not enter its refresh
// window before use, refreshing synchronously when needed.
func (s *Store) GetValidCredential(ctx context.Context, providerID string) (Credential, error) {
	s.mu.RLock()
	e, ok := s.entries[providerID]
	if !ok {
		s.mu.RUnlock()
		return Credential{}, &AuthenticationError{ProviderID: providerID, Err: fmt.Errorf("no credential entry: %w", sentinel.ErrNotFound)}
	}
	if cred, ok := s.usableLocked(e); ok {
		s.mu.RUnlock()
		return cred, nil
	}
	s.mu.RUnlock()

	// The exchange outlives any single caller's cancellation; the executor
	// bounds it instead.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(providerID, func() (any, error) {
		return s.refresh(flightCtx, providerID, e)
	})
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight credential refresh", "provider_id", providerID)
	}
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}

func (s *Store) usableLocked(e *entry) (Credential, bool) {
	if e.current == nil || e.invalid {
		return Credential{}, false
	}
	if !e.current.UsableAt(s.now(), e.window) {
		return Credential{}, false
	}
	return *e.current, true
}

func (s *Store) refresh(ctx context.Context, providerID string, e *entry) (Credential, error) {
	s.mu.RLock()
	cred, ok := s.usableLocked(e)
	s.mu.RUnlock()
	if ok {
		return cred, nil
	}

	if cred, ok := s.fromMirror(ctx, providerID, e); ok {
		return cred, nil
	}

	fresh, err := e.exchange(ctx)
	if err != nil {
		s.mu.Lock()
		e.lastErr = err
		s.mu.Unlock()
		s.metrics.IncCredentialRefresh(providerID, "error")
		s.logger.ErrorContext(ctx, "credential refresh failed",
			"provider_id", providerID,
			"error", err,
		)
		return Credential{}, &AuthenticationError{ProviderID: providerID, Err: err}
	}

	fresh.ProviderID = providerID
	fresh = completeExpiry(fresh, s.now())

	s.mu.Lock()
	e.current = &fresh
	e.invalid = false
	e.lastErr = nil
	s.mu.Unlock()
	s.metrics.IncCredentialRefresh(providerID, "ok")
	s.logger.InfoContext(ctx, "credential refreshed",
		"provider_id", providerID,
		"expires_at", fresh.ExpiresAt,
	)

	if s.mirror != nil {
		if err := s.mirror.Save(ctx, fresh); err != nil {
			s.logger.WarnContext(ctx, "failed to mirror credential", "provider_id", providerID, "error", err)
		}
	}

	if !fresh.UsableAt(s.now(), e.window) {
		s.logger.WarnContext(ctx, "provider issued credential inside refresh window",
			"provider_id", providerID,
			"expires_at", fresh.ExpiresAt,
		)
	}
	return fresh, nil
}

func (s *Store) fromMirror(ctx context.Context, providerID string, e *entry) (Credential, bool) {
	if s.mirror == nil {
		return Credential{}, false
	}
	cred, found, err := s.mirror.Load(ctx, providerID)
	if err != nil {
		s.logger.WarnContext(ctx, "credential mirror lookup failed", "provider_id", providerID, "error", err)
		return Credential{}, false
	}
	if !found || !cred.UsableAt(s.now(), e.window) {
		return Credential{}, false
	}
	s.mu.Lock()
	e.current = &cred
	e.invalid = false
	s.mu.Unlock()
	s.metrics.IncCredentialRefresh(providerID, "mirror")
	return cred, true
}

// Invalidate marks the current credential unusable, typically after the
// provider rejected it. The value is kept for Inspect.
func (s *Store) Invalidate(ctx context.Context, providerID string) {
	s.mu.Lock()
	if e, ok := s.entries[providerID]; ok {
		e.invalid = true
	}
	s.mu.Unlock()
	s.dropMirror(ctx, providerID)
}

// InvalidateToken invalidates providerID's credential only while token is
// still the current one. It reports whether it did; false means another
// caller already replaced or invalidated that token.
func (s *Store) InvalidateToken(ctx context.Context, providerID, token string) bool {
	s.mu.Lock()
	e, ok := s.entries[providerID]
	stale := ok && e.current != nil && !e.invalid && e.current.Token == token
	if stale {
		e.invalid = true
	}
	s.mu.Unlock()
	if !stale {
		return false
	}
	s.dropMirror(ctx, providerID)
	return true
}

func (s *Store) dropMirror(ctx context.Context, providerID string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Delete(ctx, providerID); err != nil {
		s.logger.WarnContext(ctx, "failed to drop mirrored credential", "provider_id", providerID, "error", err)
	}
}

// EntryState is a read-only view of one provider entry.
type EntryState struct {
	Credential *Credential
	Invalid    bool
	LastErr    error
}

// Inspect returns the stored credential and last refresh error without
// refreshing. The credential may be expired or invalidated.
func (s *Store) Inspect(providerID string) (EntryState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[providerID]
	if !ok {
		return EntryState{}, false
	}
	state := EntryState{Invalid: e.invalid, LastErr: e.lastErr}
	if e.current != nil {
		cp := *e.current
		state.Credential = &cp
	}
	return state, true
}
