package explorer

import (
	"math/rand"
	"net/http"
)

type header struct {
	name  string
	value string
}

// browserHeaders mirrors what explorer.solana.com sends. The API rejects some
// requests that do not look like they came from the explorer frontend.
var browserHeaders = []header{
	{"accept", "*/*"},
	{"accept-encoding", "gzip, deflate, br, zstd"},
	{"accept-language", "en-US,en;q=0.9"},
	{"content-type", "application/json"},
	{"origin", "https://explorer.solana.com"},
	{"referer", "https://explorer.solana.com/"},
	{"sec-ch-ua", `"Not)A;Brand";v="99", "Google Chrome";v="127", "Chromium";v="127"`},
	{"sec-ch-ua-mobile", "?0"},
	{"sec-ch-ua-platform", `"Windows"`},
	{"sec-fetch-dest", "empty"},
	{"sec-fetch-mode", "cors"},
	{"sec-fetch-site", "same-site"},
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:91.0) Gecko/20100101 Firefox/91.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:93.0) Gecko/20100101 Firefox/93.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:92.0) Gecko/20100101 Firefox/92.0",
}

// UserAgents returns a copy of the user-agent pool.
func UserAgents() []string {
	return append([]string(nil), userAgents...)
}

// RandomUserAgent picks a user agent uniformly at random. Repeats are allowed.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

func setBrowserHeaders(h http.Header) {
	for _, bh := range browserHeaders {
		h.Set(bh.name, bh.value)
	}
	h.Set("user-agent", RandomUserAgent())
}
