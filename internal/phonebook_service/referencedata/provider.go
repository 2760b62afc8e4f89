package referencedata

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aradsms/phonebook_api/internal/platform/cache"
)

const cacheKeyPrefix = "phonebook:reference:"

// Fetcher loads a reference collection from its source.
type Fetcher interface {
	Fetch(ctx context.Context, resource Resource) (map[string]json.RawMessage, error)
}

// Set is a set of valid codes.
type Set map[string]struct{}

func (s Set) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

func setOf(mapping map[string]json.RawMessage) Set {
	out := make(Set, len(mapping))
	for k := range mapping {
		out[k] = struct{}{}
	}
	return out
}

// Provider serves reference sets from the cache, refetching on a miss.
// A failed fetch yields an empty set and is not cached, so the next call retries.
type Provider struct {
	logger  *slog.Logger
	fetcher Fetcher
	store   cache.Store
	ttl     time.Duration
}

func NewProvider(logger *slog.Logger, fetcher Fetcher, store cache.Store, ttl time.Duration) *Provider {
	return &Provider{
		logger:  logger.With("component", "reference_provider"),
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
	}
}

func (p *Provider) ValidCountryCodes(ctx context.Context) Set {
	return p.validKeys(ctx, Countries)
}

func (p *Provider) ValidTimezoneNames(ctx context.Context) Set {
	return p.validKeys(ctx, Timezones)
}

func (p *Provider) validKeys(ctx context.Context, resource Resource) Set {
	key := cacheKeyPrefix + string(resource)

	if mapping, ok := p.cached(ctx, key, resource); ok {
		referenceCacheCounter.WithLabelValues(string(resource), "hit").Inc()
		return setOf(mapping)
	}
	referenceCacheCounter.WithLabelValues(string(resource), "miss").Inc()

	mapping, err := p.fetcher.Fetch(ctx, resource)
	if err != nil {
		referenceFetchCounter.WithLabelValues(string(resource), "error").Inc()
		p.logger.WarnContext(ctx, "Reference data fetch failed, treating set as empty", "resource", resource, "error", err)
		return Set{}
	}
	referenceFetchCounter.WithLabelValues(string(resource), "success").Inc()

	if len(mapping) > 0 {
		encoded, err := json.Marshal(mapping)
		if err == nil {
			err = p.store.Set(ctx, key, encoded, p.ttl)
		}
		if err != nil {
			p.logger.WarnContext(ctx, "Failed to cache reference data", "resource", resource, "error", err)
		}
	}
	return setOf(mapping)
}

// cached returns the stored mapping when present and non-empty.
func (p *Provider) cached(ctx context.Context, key string, resource Resource) (map[string]json.RawMessage, bool) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.WarnContext(ctx, "Reference cache read failed", "resource", resource, "error", err)
		return nil, false
	}
	if !ok || len(raw) == 0 {
		return nil, false
	}
	var mapping map[string]json.RawMessage
	if err := json.Unmarshal(raw, &mapping); err != nil {
		p.logger.WarnContext(ctx, "Discarding undecodable reference cache entry", "resource", resource, "error", err)
		return nil, false
	}
	if len(mapping) == 0 {
		return nil, false
	}
	return mapping, true
}
