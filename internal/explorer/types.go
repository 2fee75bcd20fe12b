package explorer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Request is the JSON-RPC envelope sent for a getAsset lookup. The token doubles
// as the request id, which is what the explorer frontend does.
type Request struct {
	ID      string      `json:"id"`
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  AssetParams `json:"params"`
}

// AssetParams carries the token address being looked up.
type AssetParams struct {
	ID string `json:"id"`
}

func newAssetRequest(token string) Request {
	return Request{
		ID:      token,
		JSONRPC: "2.0",
		Method:  "getAsset",
		Params:  AssetParams{ID: token},
	}
}

// Metadata describes one token. Nil fields were absent upstream; they are never
// filled with zero values.
type Metadata struct {
	Name            *string  `json:"name,omitempty"`
	Symbol          *string  `json:"symbol,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Supply          *uint64  `json:"supply,omitempty"`
	Website         *string  `json:"website,omitempty"`
	UpdateAuthority *string  `json:"update_authority,omitempty"`
	DNSRecordCount  *int     `json:"dns_record_count,omitempty"`
	DNSRecords      []string `json:"dns_records,omitempty"`
}

// SetDNS records a successful resolution. Count and records are always set together.
func (m *Metadata) SetDNS(records []string) {
	count := len(records)
	if records == nil {
		records = []string{}
	}
	m.DNSRecordCount = &count
	m.DNSRecords = records
}

// HasDNS reports whether DNS data is present.
func (m *Metadata) HasDNS() bool {
	return m.DNSRecordCount != nil
}

// parseAsset pulls the optional fields out of a getAsset response. Missing or
// mistyped fields are left nil; only a body that is not a single JSON value fails.
func parseAsset(body []byte) (*Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value at offset %d", dec.InputOffset())
	}

	md := &Metadata{
		Name:    stringAt(doc, "result", "content", "metadata", "name"),
		Symbol:  stringAt(doc, "result", "content", "metadata", "symbol"),
		Supply:  uint64At(doc, "result", "supply", "print_current_supply"),
		Website: stringAt(doc, "result", "content", "links", "external_url"),
	}

	if auths, ok := lookup(doc, "result", "authorities").([]any); ok && len(auths) > 0 {
		md.UpdateAuthority = stringAt(auths[0], "address")
	}

	return md, nil
}

func lookup(v any, path ...string) any {
	for _, key := range path {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

func stringAt(v any, path ...string) *string {
	s, ok := lookup(v, path...).(string)
	if !ok {
		return nil
	}
	return &s
}

func uint64At(v any, path ...string) *uint64 {
	n, ok := lookup(v, path...).(json.Number)
	if !ok {
		return nil
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return nil
	}
	return &u
}
