package explorer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomUserAgent(t *testing.T) {
	require.GreaterOrEqual(t, len(userAgents), 5)

	seen := make(map[string]int)
	for i := 0; i < 1000; i++ {
		ua := RandomUserAgent()
		require.Contains(t, userAgents, ua)
		seen[ua]++
	}
	assert.Greater(t, len(seen), 1, "expected more than one distinct user agent")
}

func TestUserAgents_ReturnsCopy(t *testing.T) {
	pool := UserAgents()
	pool[0] = "mutated"
	assert.NotEqual(t, "mutated", userAgents[0])
}

func TestSetBrowserHeaders(t *testing.T) {
	h := http.Header{}
	setBrowserHeaders(h)

	for _, bh := range browserHeaders {
		assert.Equal(t, bh.value, h.Get(bh.name), bh.name)
	}
	assert.NotEmpty(t, h.Get("User-Agent"))
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "wrapped_sol", token: "So11111111111111111111111111111111111111112"},
		{name: "usdc", token: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"},
		{name: "invalid_alphabet", token: "0OIl0OIl", wantErr: true},
		{name: "too_short", token: "abc", wantErr: true},
		{name: "empty", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
