// ABOUTME: Job Entry Point — wires suspicion -> cooldown -> fetch -> parse -> preprocess -> evaluate
// ABOUTME: -> assemble -> redundancy filter, spec.md §4.8; the only place that sees every collaborator at once

package job

import (
	"context"
	"math/rand"

	"github.com/BumpyClock/doublefetch/internal/cooldown"
	"github.com/BumpyClock/doublefetch/internal/country"
	"github.com/BumpyClock/doublefetch/internal/doferr"
	"github.com/BumpyClock/doublefetch/internal/domsel"
	"github.com/BumpyClock/doublefetch/internal/engine"
	"github.com/BumpyClock/doublefetch/internal/fetch"
	"github.com/BumpyClock/doublefetch/internal/joblog"
	"github.com/BumpyClock/doublefetch/internal/message"
	"github.com/BumpyClock/doublefetch/internal/patterns"
	"github.com/BumpyClock/doublefetch/internal/querynorm"
	"github.com/BumpyClock/doublefetch/internal/suspicion"
	"github.com/BumpyClock/doublefetch/internal/transforms"
)

// HandlerName is the name the extractor registers with a job scheduler,
// per spec.md §6.
const HandlerName = "doublefetch-query"

// Request is one invocation of the job: the category names the rule to
// run, query is the search query that produced rawURL, and rawURL is
// the page to fetch and extract.
type Request struct {
	Category string
	Query    string
	RawURL   string
	Options  fetch.Options
}

// Result is the job's output: zero or more assembled messages. An empty
// Messages slice with a nil error is a normal, successful "nothing to
// report" outcome (suspicious query, cooldown hit, or an extractor that
// found nothing) — spec.md §4.8 steps 1, 2, 5, 6.
type Result struct {
	Messages []message.Message
}

// Handler is the Job Entry Point. Every field is a collaborator
// interface from spec.md §6; NewHandler wires sane defaults for the
// ones this repo implements itself.
type Handler struct {
	Patterns  patterns.Provider
	Suspicion suspicion.Filter
	Cooldown  *cooldown.Gate
	Fetcher   fetch.Fetcher
	Country   country.Sanitizer
	Transform *transforms.Registry
	Logger    joblog.Logger
	Nonce     engine.NonceSource
}

// NewHandler builds a Handler, defaulting Transform to a fresh registry
// and Nonce to a math/rand-backed source when not supplied; callers must
// still provide Patterns, Cooldown, and Fetcher.
func NewHandler(h Handler) *Handler {
	if h.Transform == nil {
		h.Transform = transforms.NewRegistry()
	}
	if h.Logger == nil {
		h.Logger = joblog.NewStdLogger(nil)
	}
	if h.Nonce == nil {
		h.Nonce = func() int { return rand.Intn(message.NonceUpperBound) }
	}
	if h.Suspicion == nil {
		h.Suspicion = suspicion.NewLevenshteinFilter()
	}
	if h.Country == nil {
		h.Country = country.NewStaticSanitizer("")
	}
	return &h
}

// Run executes one job, implementing spec.md §4.8's ordered steps.
func (h *Handler) Run(ctx context.Context, req Request) (Result, error) {
	empty := Result{}
	normalizedQuery := querynorm.Normalize(req.Query)

	// Step 1: suspicion filter.
	if accept, reason := h.Suspicion.Check(normalizedQuery); !accept {
		h.Logger.Warnf("job: rejected suspicious query %q: %s", req.Query, reason)
		return empty, nil
	}

	// Step 2: cooldown gate.
	added, err := h.Cooldown.Acquire(ctx, req.Category, normalizedQuery)
	if err != nil {
		return empty, err
	}
	if !added {
		h.Logger.Debugf("job: cooldown hit for category=%s query=%q", req.Category, req.Query)
		return empty, nil
	}

	// Step 3: fetch + parse.
	doc, err := h.Fetcher.Get(ctx, req.RawURL, req.Options)
	if err != nil {
		// Step 4: release the fingerprint on fetch/parse failure so a
		// later attempt for the same query can proceed.
		if releaseErr := h.Cooldown.Release(ctx, req.Category, normalizedQuery); releaseErr != nil {
			h.Logger.Errorf("job: failed to release cooldown fingerprint after fetch error: %v", releaseErr)
		}
		return empty, err
	}

	messages, err := h.extract(req.Category, req.Query, req.RawURL, doc)
	if err != nil {
		// Step 6: extraction failure is logged and swallowed, without
		// releasing the fingerprint — the pattern is unsupported or the
		// site is rate-limiting, and retrying helps nothing.
		h.Logger.Errorf("job: extraction failed for category=%s: %v", req.Category, err)
		return empty, nil
	}

	return Result{Messages: messages}, nil
}

// extract runs steps 5's worth of work: snapshot+compile the rule for
// req.Category, preprocess, evaluate inputs, and assemble outputs. query
// is the original, unfolded request query — querynorm.Normalize only
// applies to the suspicion check and the cooldown fingerprint, never to
// the assembled payload's q context field.
func (h *Handler) extract(category, query, rawURL string, doc *fetch.Document) ([]message.Message, error) {
	ruleSet, err := h.Patterns.Snapshot()
	if err != nil {
		return nil, err
	}
	rule, ok := ruleSet[category]
	if !ok {
		return nil, doferr.Permanentf("job.extract", "no pattern registered for category %q", category)
	}
	compiled, err := patterns.Compile(category, rule)
	if err != nil {
		return nil, err
	}

	domsel.Preprocess(doc.DOM, compiled.Rule.Preprocess)

	extraction, err := engine.Evaluate(doc.DOM, compiled, doc.BaseURI, h.Transform)
	if err != nil {
		return nil, err
	}

	ctx := engine.Context{
		Q:    query,
		QURL: rawURL,
		Ctry: h.Country.SafeCountryCode(),
	}

	return engine.Assemble(category, compiled, extraction, ctx, h.Nonce), nil
}
