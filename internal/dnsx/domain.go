// Package dnsx resolves the hostnames of token websites.
//
// It provides the hostname extraction used before a lookup and two Resolver
// backends: the system resolver and a direct nameserver resolver built on
// miekg/dns.
package dnsx

import (
	"errors"
	"strings"
)

// ErrInvalidURL is returned by ExtractDomain when no hostname can be found.
var ErrInvalidURL = errors.New("invalid URL: domain not found")

// ExtractDomain returns the bare hostname of a URL: everything after the first
// "://" (if any) up to the next "/". Ports and query strings are kept as-is.
func ExtractDomain(rawURL string) (string, error) {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", ErrInvalidURL
	}
	return rest, nil
}
