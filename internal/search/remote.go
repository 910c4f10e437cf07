package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/patrickmn/go-cache"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// ProviderRequest is the remote search contract.
type ProviderRequest struct {
	Term    string
	Filters wine.Filters
	Limit   int
}

// Provider is a remote ranked-match backend. It returns wine ids in
// relevance order.
type Provider interface {
	Search(ctx context.Context, req ProviderRequest) ([]wine.ID, error)
}

// RemoteConfig bounds remote calls.
type RemoteConfig struct {
	Timeout        time.Duration
	MaxRetries     uint
	CacheTTL       time.Duration
	CandidateLimit int
}

// RemoteMatcher asks a Provider first and falls back to a local matcher on
// error, timeout, or an empty remote result.
type RemoteMatcher struct {
	provider Provider
	corpus   Corpus
	fallback Matcher
	cfg      RemoteConfig
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewRemoteMatcher wraps provider with a deadline, retries, a result cache,
// and fallback.
func NewRemoteMatcher(provider Provider, corpus Corpus, fallback Matcher, cfg RemoteConfig, logger *slog.Logger) *RemoteMatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 50
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RemoteMatcher{
		provider: provider,
		corpus:   corpus,
		fallback: fallback,
		cfg:      cfg,
		cache:    cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:   logger,
	}
}

// Match implements Matcher.
func (m *RemoteMatcher) Match(ctx context.Context, q wine.Query) ([]wine.Wine, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := q.Key()
	if cached, ok := m.cache.Get(key); ok {
		return cached.([]wine.Wine), nil
	}

	wines, err := m.remote(ctx, q)
	if err != nil {
		m.logger.Warn("remote search failed, using local matcher", "query", key, "error", err)
		return m.fallback.Match(ctx, q)
	}
	if len(wines) == 0 {
		m.logger.Debug("remote search returned nothing, using local matcher", "query", key)
		return m.fallback.Match(ctx, q)
	}

	m.cache.Set(key, wines, cache.DefaultExpiration)
	return wines, nil
}

func (m *RemoteMatcher) remote(ctx context.Context, q wine.Query) ([]wine.Wine, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req := ProviderRequest{Term: q.Term, Filters: q.Filters, Limit: m.cfg.CandidateLimit}
	ids, err := backoff.Retry(ctx, func() ([]wine.ID, error) {
		ids, err := m.provider.Search(ctx, req)
		if err != nil && ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return ids, err
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(m.cfg.MaxRetries+1),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: timed out after %s: %w", wine.ErrRemoteProvider, m.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("%w: %w", wine.ErrRemoteProvider, err)
	}

	out := make([]wine.Wine, 0, len(ids))
	seen := make(map[wine.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		w, err := m.corpus.Get(id)
		if err != nil {
			m.logger.Debug("remote hit not in catalog", "id", id)
			continue
		}
		if !q.Filters.Matches(w) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}
