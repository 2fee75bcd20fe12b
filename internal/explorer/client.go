// Package explorer fetches token metadata from a Solana explorer API.
package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dmagro/solmeta/internal/dnsx"
)

// DefaultAPIURL is used when API_URL is not set.
const DefaultAPIURL = "https://explorer-api.mainnet-beta.solana.com/"

// ClientConfig configures a Client. Only APIURL is required.
type ClientConfig struct {
	APIURL     string
	Proxy      string        // empty = direct connection
	Timeout    time.Duration // 0 = no client-side timeout
	Verbose    bool
	Resolver   dnsx.Resolver // nil = system resolver
	Logger     *zap.Logger   // nil = no-op
	HTTPClient *http.Client  // shared base client; nil = built from Timeout
}

// Client issues getAsset lookups. With a proxy configured, a fresh http.Client
// routed through that proxy is built for every call and the base client is not
// used.
type Client struct {
	apiURL   string
	proxy    *url.URL
	timeout  time.Duration
	verbose  bool
	base     *http.Client
	resolver dnsx.Resolver
	log      *zap.Logger

	proxyBuilds atomic.Int64
}

// NewClient fills defaults for unset fields and fails only on a malformed proxy.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	c := &Client{
		apiURL:   cfg.APIURL,
		timeout:  cfg.Timeout,
		verbose:  cfg.Verbose,
		base:     cfg.HTTPClient,
		resolver: cfg.Resolver,
		log:      cfg.Logger,
	}
	if c.base == nil {
		c.base = &http.Client{Timeout: cfg.Timeout}
	}
	if c.resolver == nil {
		c.resolver = dnsx.NewSystemResolver()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	if cfg.Proxy != "" {
		u, err := ParseProxyURL(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		c.proxy = u
	}

	return c, nil
}

// ParseProxyURL accepts http, https and socks5 proxy URLs with a host. Input
// without a scheme, such as "127.0.0.1:8080", is read as an http proxy.
func ParseProxyURL(raw string) (*url.URL, error) {
	u, err := parseProxy(raw)
	if err == nil {
		return u, nil
	}
	if !strings.Contains(raw, "://") {
		if u, ferr := parseProxy("http://" + raw); ferr == nil {
			return u, nil
		}
	}
	return nil, err
}

func parseProxy(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidProxy, raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w %q: unsupported scheme %q", ErrInvalidProxy, raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidProxy, raw)
	}
	return u, nil
}

// APIURL returns the endpoint requests are sent to.
func (c *Client) APIURL() string { return c.apiURL }

// ProxyClientsBuilt counts the per-call proxy clients created so far.
func (c *Client) ProxyClientsBuilt() int64 { return c.proxyBuilds.Load() }

func (c *Client) httpClient() *http.Client {
	if c.proxy == nil {
		return c.base
	}
	c.proxyBuilds.Add(1)
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = http.ProxyURL(c.proxy)
	return &http.Client{Timeout: c.timeout, Transport: t}
}

// FetchMetadata looks up one token. The returned error is a *TransportError,
// *APIError or *ParseError. DNS problems never fail the call; they leave the DNS
// fields of the result unset.
func (c *Client) FetchMetadata(ctx context.Context, token string) (*Metadata, error) {
	client := c.httpClient()

	if c.verbose {
		c.log.Debug("fetching token metadata",
			zap.String("api_url", c.apiURL),
			zap.String("token", token),
		)
	}

	body, err := json.Marshal(newAssetRequest(token))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Token: token, Err: err}
	}
	setBrowserHeaders(req.Header)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Token: token, Err: err}
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return nil, &TransportError{Token: token, Err: fmt.Errorf("read response: %w", err)}
	}

	if c.verbose {
		c.log.Debug("explorer response",
			zap.String("token", token),
			zap.String("status", resp.Status),
			zap.String("body", string(raw)),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(raw)}
	}

	md, err := parseAsset(raw)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	md.Address = &token

	if md.Website != nil {
		c.enrich(ctx, md)
	}

	return md, nil
}

// enrich resolves the website host. An unparsable website is looked up as an
// empty host so that it fails the same way as an unresolvable one.
func (c *Client) enrich(ctx context.Context, md *Metadata) {
	host, err := dnsx.ExtractDomain(*md.Website)
	if err != nil {
		host = ""
	}

	ips, err := c.resolver.LookupIPs(ctx, host)
	if err != nil {
		c.log.Warn("Error fetching DNS records",
			zap.String("website", *md.Website),
			zap.Error(err),
		)
		return
	}
	md.SetDNS(ips)
}
