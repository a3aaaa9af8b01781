package doublefetch

import (
	"context"
	"time"

	"github.com/BumpyClock/doublefetch/internal/cooldown"
	"github.com/BumpyClock/doublefetch/internal/country"
	"github.com/BumpyClock/doublefetch/internal/fetch"
	"github.com/BumpyClock/doublefetch/internal/job"
	"github.com/BumpyClock/doublefetch/internal/joblog"
	"github.com/BumpyClock/doublefetch/internal/message"
	"github.com/BumpyClock/doublefetch/internal/patterns"
	"github.com/BumpyClock/doublefetch/internal/suspicion"
	"github.com/BumpyClock/doublefetch/internal/transforms"
)

// Client is a thread-safe, reusable handle onto the extraction core. It
// owns the job Handler and its collaborators and can be shared across
// goroutines.
type Client struct {
	handler *job.Handler
}

// New creates a new Client with the provided options. Without a pattern
// source (WithPatternDir or WithPatternProvider) the client uses an
// empty pattern set, so every job ends with no messages; every other
// collaborator falls back to a working default.
//
// Example:
//
//	client := doublefetch.New(
//	    doublefetch.WithPatternDir("./patterns"),
//	    doublefetch.WithCountryCode("US"),
//	)
func New(opts ...Option) *Client {
	cfg := &config{
		cooldownStore: cooldown.NewMemoryStore(),
		fetcher:       fetch.NewHTTPFetcher(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.patterns == nil {
		cfg.patterns = patterns.NewStaticProvider(patterns.RuleSet{})
	}

	h := job.NewHandler(job.Handler{
		Patterns:  cfg.patterns,
		Suspicion: cfg.suspicion,
		Cooldown:  cooldown.NewGate(cfg.cooldownStore, cfg.clock),
		Fetcher:   cfg.fetcher,
		Country:   cfg.country,
		Transform: cfg.transforms,
		Logger:    cfg.logger,
	})

	return &Client{handler: h}
}

// Run executes one extraction job end to end: suspicion check, cooldown
// gate, anonymous fetch, parse, preprocess, evaluate, assemble, and
// redundancy filter (spec.md §4.8). An empty, nil-error result is a
// normal outcome whenever the suspicion filter rejects the query, the
// cooldown gate is already held, or the pattern finds nothing to emit.
func (c *Client) Run(ctx context.Context, category, query, rawURL string) ([]message.Message, error) {
	result, err := c.handler.Run(ctx, job.Request{Category: category, Query: query, RawURL: rawURL})
	if err != nil {
		return nil, classify("Run", category, query, err)
	}
	return result.Messages, nil
}

type config struct {
	patterns      patterns.Provider
	suspicion     suspicion.Filter
	cooldownStore cooldown.PersistedHashes
	fetcher       fetch.Fetcher
	country       country.Sanitizer
	transforms    *transforms.Registry
	logger        joblog.Logger
	clock         func() time.Time
}
