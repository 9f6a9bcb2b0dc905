package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	loadHTTPTimeout = 30 * time.Second
	maxManifestSize = 8 << 20
)

// LoadError marks a manifest that could not be fetched or parsed. The caller
// surfaces it once as a non-fatal banner and continues with an empty entry
// set; a failed load is terminal for the session, there is no retry.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load manifest %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load fetches the manifest from an http(s) URL or a local file path and
// adapts its records. It runs once at startup; the returned entries are the
// read-only working set for the rest of the session.
func Load(ctx context.Context, source string) ([]Entry, error) {
	data, err := read(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("decode manifest: %w", err)}
	}
	return Adapt(records), nil
}

func read(ctx context.Context, source string) ([]byte, error) {
	if parsed, err := url.Parse(source); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return readHTTP(ctx, source)
	}
	return os.ReadFile(source)
}

func readHTTP(ctx context.Context, source string) ([]byte, error) {
	client := &http.Client{Timeout: loadHTTPTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("manifest fetch failed: %s (%s)", resp.Status, string(body))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
}
