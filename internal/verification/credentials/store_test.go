package credentials

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/verification/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memoryMirror struct {
	mu    sync.Mutex
	creds map[string]Credential
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{creds: map[string]Credential{}}
}

func (m *memoryMirror) Load(_ context.Context, id string) (Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[id]
	return c, ok, nil
}

func (m *memoryMirror) Save(_ context.Context, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[c.ProviderID] = c
	return nil
}

func (m *memoryMirror) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(clock *fakeClock, opts ...Option) *Store {
	return NewStore(testLogger(), append([]Option{WithClock(clock.Now)}, opts...)...)
}

func TestGetValidCredential_CoalescesConcurrentRefreshes(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)

	var exchanges atomic.Int32
	release := make(chan struct{})
	store.Register("aicte", func(ctx context.Context) (Credential, error) {
		exchanges.Add(1)
		<-release
		return Credential{Token: "token-1", ExpiresAt: clock.Now().Add(time.Hour)}, nil
	})

	const callers = 16
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := store.GetValidCredential(context.Background(), "aicte")
			tokens[i] = cred.Token
			errs[i] = err
		}()
	}

	// Give every caller time to join the flight before the exchange completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), exchanges.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "token-1", tokens[i])
	}
}

func TestGetValidCredential_RefreshWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)

	var n atomic.Int32
	store.Register("cbse", func(ctx context.Context) (Credential, error) {
		i := n.Add(1)
		return Credential{Token: "tok-" + string(rune('0'+i)), ExpiresAt: clock.Now().Add(30 * time.Minute)}, nil
	})

	ctx := context.Background()
	first, err := store.GetValidCredential(ctx, "cbse")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first.Token)

	clock.Advance(20 * time.Minute)
	cached, err := store.GetValidCredential(ctx, "cbse")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cached.Token, "10m left is outside the 5m window")

	clock.Advance(6 * time.Minute)
	refreshed, err := store.GetValidCredential(ctx, "cbse")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", refreshed.Token, "4m left is inside the window")
	assert.True(t, refreshed.UsableAt(clock.Now(), DefaultRefreshWindow))
}

func TestGetValidCredential_PerProviderWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)

	var n atomic.Int32
	store.Register("ncte", func(ctx context.Context) (Credential, error) {
		n.Add(1)
		return Credential{Token: "s", ExpiresAt: clock.Now().Add(time.Hour)}, nil
	}, WithRefreshWindow(10*time.Minute))

	ctx := context.Background()
	_, err := store.GetValidCredential(ctx, "ncte")
	require.NoError(t, err)

	clock.Advance(52 * time.Minute)
	_, err = store.GetValidCredential(ctx, "ncte")
	require.NoError(t, err)
	assert.Equal(t, int32(2), n.Load())
}

func TestGetValidCredential_FailedRefreshKeepsPrevious(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := newTestStore(clock)

	fail := false
	store.Register("icse", func(ctx context.Context) (Credential, error) {
		if fail {
			return Credential{}, errors.New("provider rejected api key")
		}
		return Credential{Token: "good", ExpiresAt: clock.Now().Add(10 * time.Minute)}, nil
	})

	ctx := context.Background()
	_, err := store.GetValidCredential(ctx, "icse")
	require.NoError(t, err)

	fail = true
	clock.Advance(6 * time.Minute)
	_, err = store.GetValidCredential(ctx, "icse")
	require.Error(t, err)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "icse", authErr.ProviderID)
	assert.Equal(t, models.KindAuthentication, models.ErrorKindOf(err))

	state, ok := store.Inspect("icse")
	require.True(t, ok)
	require.NotNil(t, state.Credential)
	assert.Equal(t, "good", state.Credential.Token)
	assert.EqualError(t, state.LastErr, "provider rejected api key")
}

func TestGetValidCredential_UnknownProvider(t *testing.T) {
	store := NewStore(testLogger())
	_, err := store.GetValidCredential(context.Background(), "nope")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "nope", authErr.ProviderID)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	mirror := newMemoryMirror()
	store := newTestStore(clock, WithMirror(mirror))

	var n atomic.Int32
	store.Register("aicte", func(ctx context.Context) (Credential, error) {
		n.Add(1)
		return Credential{Token: "t", ExpiresAt: clock.Now().Add(time.Hour)}, nil
	})

	ctx := context.Background()
	_, err := store.GetValidCredential(ctx, "aicte")
	require.NoError(t, err)
	_, found, _ := mirror.Load(ctx, "aicte")
	require.True(t, found)

	store.Invalidate(ctx, "aicte")
	state, _ := store.Inspect("aicte")
	assert.True(t, state.Invalid)
	_, found, _ = mirror.Load(ctx, "aicte")
	assert.False(t, found)

	_, err = store.GetValidCredential(ctx, "aicte")
	require.NoError(t, err)
	assert.Equal(t, int32(2), n.Load())
}

func TestInvalidateTokenIgnoresReplacedToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	mirror := newMemoryMirror()
	store := newTestStore(clock, WithMirror(mirror))

	var n atomic.Int32
	store.Register("ncte", func(ctx context.Context) (Credential, error) {
		i := n.Add(1)
		return Credential{Token: "t" + string(rune('0'+i)), ExpiresAt: clock.Now().Add(time.Hour)}, nil
	})

	ctx := context.Background()
	_, err := store.GetValidCredential(ctx, "ncte")
	require.NoError(t, err)

	assert.False(t, store.InvalidateToken(ctx, "ncte", "other"), "token never issued")
	assert.False(t, store.InvalidateToken(ctx, "unknown", "t1"))

	assert.True(t, store.InvalidateToken(ctx, "ncte", "t1"))
	assert.False(t, store.InvalidateToken(ctx, "ncte", "t1"), "already invalidated")
	_, found, _ := mirror.Load(ctx, "ncte")
	assert.False(t, found)

	cred, err := store.GetValidCredential(ctx, "ncte")
	require.NoError(t, err)
	assert.Equal(t, "t2", cred.Token)

	assert.False(t, store.InvalidateToken(ctx, "ncte", "t1"), "late rejection of the old token")
	state, _ := store.Inspect("ncte")
	assert.False(t, state.Invalid)
	assert.Equal(t, int32(2), n.Load())
}

func TestMirrorAdoptedBeforeExchange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	mirror := newMemoryMirror()
	require.NoError(t, mirror.Save(context.Background(), Credential{
		ProviderID: "up",
		Token:      "shared",
		ExpiresAt:  clock.Now().Add(time.Hour),
	}))
	store := newTestStore(clock, WithMirror(mirror))

	store.Register("up", func(ctx context.Context) (Credential, error) {
		t.Fatal("exchange must not run while the mirror holds a usable credential")
		return Credential{}, nil
	})

	cred, err := store.GetValidCredential(context.Background(), "up")
	require.NoError(t, err)
	assert.Equal(t, "shared", cred.Token)
}

func TestExpiryCompletion(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("jwt exp claim", func(t *testing.T) {
		exp := now.Add(90 * time.Minute)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
		require.NoError(t, err)

		got := completeExpiry(Credential{Token: token}, now)
		assert.True(t, got.ExpiresAt.Equal(exp))
		assert.True(t, got.IssuedAt.Equal(now))
	})

	t.Run("opaque token falls back", func(t *testing.T) {
		got := completeExpiry(Credential{Token: "opaque"}, now)
		assert.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))
	})

	t.Run("explicit expiry wins", func(t *testing.T) {
		exp := now.Add(5 * time.Minute)
		got := completeExpiry(Credential{Token: "opaque", ExpiresAt: exp}, now)
		assert.True(t, got.ExpiresAt.Equal(exp))
	})
}
