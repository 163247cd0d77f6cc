// Package netx fetches documents referenced by on-ledger records.
package netx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxDocumentSize caps the body FetchJSON will read.
const MaxDocumentSize = 1 << 20

var httpClient = &http.Client{Timeout: 10 * time.Second}

// FetchJSON downloads the JSON document at url into v. Only http and https
// URLs are accepted.
func FetchJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("fetch %s: unsupported scheme %q", url, req.URL.Scheme)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch failed: %s; body: %s", resp.Status, string(body))
	}
	if len(body) > MaxDocumentSize {
		return fmt.Errorf("fetch %s: document exceeds %d bytes", url, MaxDocumentSize)
	}
	return json.Unmarshal(body, v)
}
