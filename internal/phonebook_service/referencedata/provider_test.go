package referencedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/phonebook_api/internal/platform/cache"
)

type upstreamStub struct {
	server *httptest.Server
	hits   atomic.Int32
	status atomic.Int32
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	stub := &upstreamStub{}
	stub.status.Store(http.StatusOK)
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		status := int(stub.status.Load())
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/countries":
			_, _ = w.Write([]byte(`{"status":"success","result":{"US":"United States","IR":"Iran"}}`))
		case "/timezones":
			_, _ = w.Write([]byte(`{"status":"success","result":{"Europe/Berlin":{"diff":"+01:00"},"Asia/Tehran":{"diff":"+03:30"}}}`))
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestProvider(stub *upstreamStub, store cache.Store) *Provider {
	client := NewClient(discardLogger(), stub.server.URL, time.Second, nil)
	return NewProvider(discardLogger(), client, store, 0)
}

func TestProvider_FetchesOnMissThenServesFromCache(t *testing.T) {
	stub := newUpstreamStub(t)
	p := newTestProvider(stub, cache.NewMemoryStore())
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(referenceCacheCounter.WithLabelValues("countries", "hit"))

	first := p.ValidCountryCodes(ctx)
	assert.True(t, first.Contains("US"))
	assert.True(t, first.Contains("IR"))
	assert.False(t, first.Contains("XX"))

	second := p.ValidCountryCodes(ctx)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, stub.hits.Load(), "second lookup must be served from cache")
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(referenceCacheCounter.WithLabelValues("countries", "hit")))

	zones := p.ValidTimezoneNames(ctx)
	assert.True(t, zones.Contains("Asia/Tehran"))
	assert.EqualValues(t, 2, stub.hits.Load())
}

func TestProvider_UpstreamFailureYieldsEmptySetAndIsNotCached(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.status.Store(http.StatusInternalServerError)
	store := cache.NewMemoryStore()
	p := newTestProvider(stub, store)
	ctx := context.Background()

	errorsBefore := testutil.ToFloat64(referenceFetchCounter.WithLabelValues("countries", "error"))

	assert.Empty(t, p.ValidCountryCodes(ctx))
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(referenceFetchCounter.WithLabelValues("countries", "error")))

	_, ok, err := store.Get(ctx, cacheKeyPrefix+"countries")
	require.NoError(t, err)
	assert.False(t, ok, "failures must not be cached")

	stub.status.Store(http.StatusOK)
	assert.True(t, p.ValidCountryCodes(ctx).Contains("US"), "next call retries the upstream")
	assert.EqualValues(t, 2, stub.hits.Load())
}

func TestProvider_EmptyCacheEntryTriggersRefetch(t *testing.T) {
	stub := newUpstreamStub(t)
	store := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cacheKeyPrefix+"timezones", []byte(`{}`), 0))

	p := newTestProvider(stub, store)
	assert.True(t, p.ValidTimezoneNames(ctx).Contains("Europe/Berlin"))
	assert.EqualValues(t, 1, stub.hits.Load())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestProvider_CacheErrorsFallBackToUpstream(t *testing.T) {
	stub := newUpstreamStub(t)
	p := newTestProvider(stub, failingStore{})

	assert.True(t, p.ValidCountryCodes(context.Background()).Contains("US"))
	assert.True(t, p.ValidCountryCodes(context.Background()).Contains("US"))
	assert.EqualValues(t, 2, stub.hits.Load())
}

func TestProvider_TTLExpiryRefetches(t *testing.T) {
	stub := newUpstreamStub(t)
	client := NewClient(discardLogger(), stub.server.URL, time.Second, nil)
	p := NewProvider(discardLogger(), client, cache.NewMemoryStore(), 20*time.Millisecond)
	ctx := context.Background()

	p.ValidCountryCodes(ctx)
	time.Sleep(40 * time.Millisecond)
	p.ValidCountryCodes(ctx)
	assert.EqualValues(t, 2, stub.hits.Load())
}
