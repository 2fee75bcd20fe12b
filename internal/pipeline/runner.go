// Package pipeline runs the metadata lookup for every configured token.
//
// Tokens are processed one at a time, in input order. A failure is reported for
// its token and the run moves on; only configuration problems stop it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dmagro/solmeta/internal/config"
	"github.com/dmagro/solmeta/internal/display"
	"github.com/dmagro/solmeta/internal/dnsx"
	"github.com/dmagro/solmeta/internal/explorer"
)

// Fetcher looks up one token. *explorer.Client is the production implementation.
type Fetcher interface {
	FetchMetadata(ctx context.Context, token string) (*explorer.Metadata, error)
}

// Result is the outcome for one token. Exactly one of Metadata and Err is set.
type Result struct {
	Token    string
	Metadata *explorer.Metadata
	Err      error
	Elapsed  time.Duration
}

// Summary holds one Result per token, in input order.
type Summary struct {
	Results []Result
}

// Succeeded counts tokens that produced a report.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int { return len(s.Results) - s.Succeeded() }

// Rows adapts the results for display.SummaryFormatter.
func (s *Summary) Rows() []display.SummaryRow {
	rows := make([]display.SummaryRow, len(s.Results))
	for i, r := range s.Results {
		rows[i] = display.SummaryRow{Token: r.Token, Metadata: r.Metadata, Err: r.Err, Elapsed: r.Elapsed}
	}
	return rows
}

// Runner fetches and prints reports for the configured tokens.
type Runner struct {
	cfg     *config.Config
	fetcher Fetcher
	limiter *rate.Limiter
	stdout  io.Writer
	stderr  io.Writer
	log     *zap.Logger
}

// Option customizes a Runner built by New.
type Option func(*Runner)

// WithFetcher replaces the explorer client built from the config.
func WithFetcher(f Fetcher) Option {
	return func(r *Runner) { r.fetcher = f }
}

// WithOutput redirects reports and per-token error lines.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger shared with the explorer client.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New prepares a run. It fails with a *config.Error when the HTTP client cannot
// be built, e.g. for a malformed proxy URL.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.fetcher == nil {
		client, err := explorer.NewClient(explorer.ClientConfig{
			APIURL:   cfg.APIURL,
			Proxy:    cfg.Proxy,
			Timeout:  cfg.Timeout,
			Verbose:  cfg.Verbose,
			Resolver: NewResolver(cfg),
			Logger:   r.log,
		})
		if err != nil {
			return nil, &config.Error{Op: "build client", Err: err}
		}
		r.fetcher = client
	}

	if cfg.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return r, nil
}

// NewResolver picks the DNS backend for cfg.
func NewResolver(cfg *config.Config) dnsx.Resolver {
	if cfg.DNSServer != "" {
		return dnsx.NewServerResolver(cfg.DNSServer, cfg.Timeout)
	}
	return dnsx.NewSystemResolver()
}

// Run processes every token in order. Per-token failures are printed and
// recorded in the summary; the returned error is non-nil only if ctx ends the
// run early.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Results: make([]Result, 0, len(r.cfg.Tokens))}

	// Threads is deliberately not used to fan out.
	r.log.Debug("processing tokens sequentially",
		zap.Int("tokens", len(r.cfg.Tokens)),
		zap.Int("threads", r.cfg.Threads),
	)

	for _, token := range r.cfg.Tokens {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		start := time.Now()
		md, err := r.fetcher.FetchMetadata(ctx, token)
		elapsed := time.Since(start)
		summary.Results = append(summary.Results, Result{Token: token, Metadata: md, Err: err, Elapsed: elapsed})

		if err != nil {
			r.log.Debug("token failed", zap.String("token", token), zap.Duration("elapsed", elapsed), zap.Error(err))
			display.FormatError(r.stderr, token, err)
			continue
		}

		if r.cfg.Verbose {
			fmt.Fprintln(r.stdout, "Success: Retrieved token metadata:")
		}
		if err := display.NewMetadataFormatter(md).Format(r.stdout); err != nil {
			return summary, fmt.Errorf("failed to display metadata: %w", err)
		}
	}

	return summary, nil
}
