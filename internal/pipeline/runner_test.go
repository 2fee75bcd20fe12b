package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/solmeta/internal/config"
	"github.com/dmagro/solmeta/internal/dnsx"
	"github.com/dmagro/solmeta/internal/explorer"
)

func init() {
	color.NoColor = true
}

// explorerDouble answers getAsset with a fixed asset, or 500 for tokens in fail.
func explorerDouble(t *testing.T, fail ...string) *httptest.Server {
	t.Helper()
	bad := make(map[string]bool, len(fail))
	for _, f := range fail {
		bad[f] = true
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req explorer.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if bad[req.Params.ID] {
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"result":{"content":{"metadata":{"name":"Foo","symbol":"FOO"}}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(apiURL string, tokens ...string) *config.Config {
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.Tokens = tokens
	return cfg
}

func TestRun_OneFailureDoesNotAbortBatch(t *testing.T) {
	srv := explorerDouble(t, "tok3")
	cfg := testConfig(srv.URL, "tok1", "tok2", "tok3", "tok4", "tok5")

	var stdout, stderr bytes.Buffer
	r, err := New(cfg, WithOutput(&stdout, &stderr))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, len(summary.Results))
	assert.Equal(t, 4, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())

	assert.Equal(t, 4, strings.Count(stdout.String(), "Token Metadata:"))
	assert.Equal(t, 1, strings.Count(stderr.String(), "Error fetching metadata for token"))
	assert.Contains(t, stderr.String(), "Error fetching metadata for token tok3:")
	assert.Contains(t, stderr.String(), "500")

	for i, tok := range []string{"tok1", "tok2", "tok3", "tok4", "tok5"} {
		assert.Equal(t, tok, summary.Results[i].Token, "input order is preserved")
	}

	var apiErr *explorer.APIError
	require.True(t, errors.As(summary.Results[2].Err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Nil(t, summary.Results[2].Metadata)
}

func TestRun_APIURLFromEnvironment(t *testing.T) {
	srv := explorerDouble(t)
	t.Setenv(config.EnvAPIURL, srv.URL)

	cfg := config.Default()
	cfg.Tokens = []string{"anything"}
	_, err := cfg.Validate()
	require.NoError(t, err)

	r, err := New(cfg, WithOutput(io.Discard, io.Discard))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)

	md := summary.Results[0].Metadata
	require.NotNil(t, md)
	require.NotNil(t, md.Name)
	assert.Equal(t, "Foo", *md.Name)
	assert.Equal(t, "anything", *md.Address)
}

func TestRun_UnreachableProxy(t *testing.T) {
	cfg := testConfig("http://explorer.invalid/", "tok1", "tok2")
	cfg.Proxy = "http://127.0.0.1:1"

	var stderr bytes.Buffer
	r, err := New(cfg, WithOutput(io.Discard, &stderr))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 2, "every token is attempted")
	for _, res := range summary.Results {
		var tErr *explorer.TransportError
		assert.True(t, errors.As(res.Err, &tErr), "token %s", res.Token)
	}
	assert.Equal(t, 2, strings.Count(stderr.String(), "Error fetching metadata for token"))
}

func TestNew_MalformedProxyFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "tok1")
	cfg.Proxy = "::not-a-proxy"

	r, err := New(cfg)
	assert.Nil(t, r)

	var cfgErr *config.Error
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, explorer.ErrInvalidProxy)
	assert.Equal(t, int32(0), calls.Load())
}

type recordingFetcher struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	order    []string
}

func (f *recordingFetcher) FetchMetadata(_ context.Context, token string) (*explorer.Metadata, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	if n > f.maxSeen.Load() {
		f.maxSeen.Store(n)
	}
	f.order = append(f.order, token)
	if token == "bad" {
		return nil, &explorer.ParseError{Err: errors.New("unexpected EOF")}
	}
	return &explorer.Metadata{Address: &token}, nil
}

func TestRun_SequentialDespiteThreads(t *testing.T) {
	cfg := testConfig("http://unused/", "a", "bad", "c", "d")
	cfg.Threads = 8
	cfg.Verbose = true

	f := &recordingFetcher{}
	var stdout bytes.Buffer
	r, err := New(cfg, WithFetcher(f), WithOutput(&stdout, io.Discard))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "bad", "c", "d"}, f.order)
	assert.Equal(t, int32(1), f.maxSeen.Load())
	assert.Equal(t, 3, summary.Succeeded())
	assert.Equal(t, 3, strings.Count(stdout.String(), "Success: Retrieved token metadata:"))
}

func TestRun_ContextCancelled(t *testing.T) {
	cfg := testConfig("http://unused/", "a", "b")
	f := &recordingFetcher{}
	r, err := New(cfg, WithFetcher(f), WithOutput(io.Discard, io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
	assert.Empty(t, f.order)
}

func TestRun_RateLimited(t *testing.T) {
	cfg := testConfig("http://unused/", "a", "b", "c")
	cfg.RateLimit = 1000

	f := &recordingFetcher{}
	r, err := New(cfg, WithFetcher(f), WithOutput(io.Discard, io.Discard))
	require.NoError(t, err)
	require.NotNil(t, r.limiter)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded())
}

func TestSummary_Rows(t *testing.T) {
	tok := "a"
	s := &Summary{Results: []Result{
		{Token: "a", Metadata: &explorer.Metadata{Address: &tok}, Elapsed: 5 * time.Millisecond},
		{Token: "b", Err: errors.New("x")},
	}}

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Token)
	assert.NotNil(t, rows[0].Metadata)
	assert.Equal(t, 5*time.Millisecond, rows[0].Elapsed)
	assert.Error(t, rows[1].Err)
}

func TestNewResolver(t *testing.T) {
	cfg := config.Default()
	_, ok := NewResolver(cfg).(*dnsx.SystemResolver)
	assert.True(t, ok)

	cfg.DNSServer = "1.1.1.1"
	sr, ok := NewResolver(cfg).(*dnsx.ServerResolver)
	require.True(t, ok)
	assert.Equal(t, "1.1.1.1:53", sr.Server())
}
