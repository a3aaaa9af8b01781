package doublefetch

import (
	"log"
	"time"

	"github.com/BumpyClock/doublefetch/internal/cooldown"
	"github.com/BumpyClock/doublefetch/internal/country"
	"github.com/BumpyClock/doublefetch/internal/fetch"
	"github.com/BumpyClock/doublefetch/internal/joblog"
	"github.com/BumpyClock/doublefetch/internal/patterns"
	"github.com/BumpyClock/doublefetch/internal/suspicion"
	"github.com/BumpyClock/doublefetch/internal/transforms"
)

// Option is a functional option for configuring a Client.
type Option func(*config)

// WithPatternDir loads extraction rules from a directory of
// `<category>.yaml` files, re-read fresh on every Run call (spec.md §6's
// "consistent snapshot read once per extraction").
func WithPatternDir(dir string) Option {
	return func(c *config) {
		c.patterns = patterns.NewYAMLFileProvider(dir)
	}
}

// WithPatternProvider sets a custom pattern-set provider, for callers
// that already have their own config source (database, remote config
// service, embedded defaults).
func WithPatternProvider(p patterns.Provider) Option {
	return func(c *config) {
		c.patterns = p
	}
}

// WithSuspicionFilter overrides the default Levenshtein-based query
// suspicion filter.
func WithSuspicionFilter(f suspicion.Filter) Option {
	return func(c *config) {
		c.suspicion = f
	}
}

// WithPersistedHashes overrides the default in-process cooldown store.
// Deployments spanning more than one process should supply a shared
// store (Redis, etc.) here.
func WithPersistedHashes(store cooldown.PersistedHashes) Option {
	return func(c *config) {
		c.cooldownStore = store
	}
}

// WithFetcher overrides the default net/http-based anonymous fetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *config) {
		c.fetcher = f
	}
}

// WithCountryCode sets a fixed two-letter country code to stamp on
// every message's context fields. Invalid input safely falls back to
// "--".
func WithCountryCode(code string) Option {
	return func(c *config) {
		c.country = country.NewStaticSanitizer(code)
	}
}

// WithCountrySanitizer overrides the country sanitizer entirely, for
// deployments that resolve country per-request from a geo-IP service.
func WithCountrySanitizer(s country.Sanitizer) Option {
	return func(c *config) {
		c.country = s
	}
}

// WithTransformRegistry overrides the default transform registry,
// useful for registering site- or deployment-specific transforms
// alongside the builtins.
func WithTransformRegistry(r *transforms.Registry) Option {
	return func(c *config) {
		c.transforms = r
	}
}

// WithLogger overrides the default stdlib-backed job logger.
func WithLogger(l joblog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithStdLogger is a convenience wrapper around WithLogger for the
// common case of pointing the job logger at an existing *log.Logger.
func WithStdLogger(l *log.Logger) Option {
	return WithLogger(joblog.NewStdLogger(l))
}

// WithClock overrides the clock the cooldown gate uses to compute
// same-day expiration, letting tests pin "today".
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}
