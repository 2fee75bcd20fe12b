package dnsx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
)

// DefaultQueryTimeout bounds a single query made by ServerResolver.
const DefaultQueryTimeout = 5 * time.Second

var errEmptyHost = errors.New("empty hostname")

// Resolver looks up the addresses of a hostname.
type Resolver interface {
	LookupIPs(ctx context.Context, host string) ([]string, error)
}

// Error wraps any failure to resolve a host. It is never fatal to a token fetch.
type Error struct {
	Host string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to lookup IP for domain %q: %v", e.Host, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SystemResolver uses the platform resolver (A and AAAA).
type SystemResolver struct {
	r *net.Resolver
}

// NewSystemResolver uses the host's resolver configuration.
func NewSystemResolver() *SystemResolver {
	return &SystemResolver{r: net.DefaultResolver}
}

// LookupIPs returns every address the platform resolver reports for host.
func (s *SystemResolver) LookupIPs(ctx context.Context, host string) ([]string, error) {
	if host == "" {
		return nil, &Error{Host: host, Err: errEmptyHost}
	}
	addrs, err := s.r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, &Error{Host: host, Err: err}
	}
	ips := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP.String())
	}
	return ips, nil
}

// ServerResolver queries one nameserver directly. A and AAAA questions are sent
// concurrently; A answers are listed before AAAA answers.
type ServerResolver struct {
	server  string
	timeout time.Duration
}

// NewServerResolver accepts "host" or "host:port"; port 53 is assumed when absent.
func NewServerResolver(server string, timeout time.Duration) *ServerResolver {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(strings.Trim(server, "[]"), "53")
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &ServerResolver{server: server, timeout: timeout}
}

// Server returns the nameserver address in host:port form.
func (s *ServerResolver) Server() string { return s.server }

// LookupIPs queries A and AAAA concurrently and returns A answers first.
func (s *ServerResolver) LookupIPs(ctx context.Context, host string) ([]string, error) {
	if host == "" {
		return nil, &Error{Host: host, Err: errEmptyHost}
	}

	var (
		mu      sync.Mutex
		answers = make(map[uint16][]string, 2)
		errs    = make(map[uint16]error, 2)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		qtype := qtype
		g.Go(func() error {
			ips, err := s.query(gctx, host, qtype)
			mu.Lock()
			answers[qtype] = ips
			errs[qtype] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	ips := append(answers[dns.TypeA], answers[dns.TypeAAAA]...)
	if len(ips) > 0 {
		return ips, nil
	}
	if err := errs[dns.TypeA]; err != nil {
		return nil, &Error{Host: host, Err: err}
	}
	if err := errs[dns.TypeAAAA]; err != nil {
		return nil, &Error{Host: host, Err: err}
	}
	return nil, &Error{Host: host, Err: fmt.Errorf("no A or AAAA records from %s", s.server)}
}

func (s *ServerResolver) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	c := &dns.Client{Timeout: s.timeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	resp, _, err := c.ExchangeContext(ctx, msg, s.server)
	if err == nil && resp != nil && resp.Truncated {
		c.Net = "tcp"
		resp, _, err = c.ExchangeContext(ctx, msg, s.server)
	}
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s lookup: %s", dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}

	var ips []string
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				ips = append(ips, v.A.String())
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				ips = append(ips, v.AAAA.String())
			}
		}
	}
	return ips, nil
}

var (
	_ Resolver = (*SystemResolver)(nil)
	_ Resolver = (*ServerResolver)(nil)
)
