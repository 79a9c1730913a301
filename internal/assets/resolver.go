package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const maxFetchRetries = 3

// Resolver turns any image source reference into raw bytes: "asset:" refs
// hit the store, data URIs are decoded in place, and http(s) URLs are
// fetched with bounded retries.
type Resolver struct {
	store      *Store
	httpClient *http.Client
	maxBytes   int64
	log        *slog.Logger
}

func NewResolver(store *Store, fetchTimeout time.Duration, maxBytes int64, log *slog.Logger) *Resolver {
	return &Resolver{
		store: store,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		maxBytes: maxBytes,
		log:      log,
	}
}

// Resolve returns the raw bytes behind a source reference.
func (r *Resolver) Resolve(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, refPrefix):
		a := r.store.ByRef(ref)
		if a == nil {
			return nil, fmt.Errorf("asset not found: %s", ref)
		}
		return a.Data, nil

	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return r.fetch(ctx, ref)

	default:
		return nil, fmt.Errorf("unsupported source reference: %q", ref)
	}
}

// fetch retrieves a remote image with jittered exponential backoff on
// transient failures.
func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(attempt - 1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, retryable, err := r.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		r.log.Warn("image fetch failed, retrying", "url", url, "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (r *Resolver) fetchOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the error message.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		return nil, resp.StatusCode >= 500, err
	}

	limit := r.maxBytes
	if limit <= 0 {
		limit = 32 << 20
	}
	data, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(data)) > limit {
		return nil, false, fmt.Errorf("image exceeds max size (%d bytes)", limit)
	}
	return data, false, nil
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
	if base > 5*time.Second {
		base = 5 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// decodeDataURI extracts the payload of a base64 data URI.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return data, nil
}

// EncodeDataURI builds a self-contained data URI for image bytes.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
