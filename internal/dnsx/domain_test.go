package dnsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "https_with_path", in: "https://example.com/page", want: "example.com"},
		{name: "bare_host", in: "example.org", want: "example.org"},
		{name: "http_no_path", in: "http://foo.io", want: "foo.io"},
		{name: "trailing_slash", in: "https://bar.xyz/", want: "bar.xyz"},
		{name: "nested_path", in: "https://a.b.c/x/y/z?q=1", want: "a.b.c"},
		{name: "no_scheme_with_path", in: "token.site/about", want: "token.site"},
		{name: "port_kept", in: "https://localhost:8080/x", want: "localhost:8080"},
		{name: "other_scheme", in: "ipfs://bafy123/meta.json", want: "bafy123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDomain(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDomain_Invalid(t *testing.T) {
	for _, in := range []string{"", "https://", "https:///path", "/only/path"} {
		t.Run(in, func(t *testing.T) {
			got, err := ExtractDomain(in)
			assert.ErrorIs(t, err, ErrInvalidURL)
			assert.Empty(t, got)
		})
	}
}
