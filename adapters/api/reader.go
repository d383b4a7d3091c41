package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"riskexplorer/internal"
	"riskexplorer/internal/errors"

	"golang.org/x/sync/semaphore"
)

// URLReader fetches CSV bodies over HTTP GET
type URLReader struct {
	httpClient   *http.Client
	sem          *semaphore.Weighted
	maxBodyBytes int64
	log          *internal.Logger
}

// ReaderConfig tunes the URL reader
type ReaderConfig struct {
	Timeout       time.Duration
	MaxConcurrent int64
	MaxBodyBytes  int64
}

// NewURLReader creates a reader whose concurrent fetches are bounded by MaxConcurrent
func NewURLReader(config ReaderConfig) *URLReader {
	return &URLReader{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		sem:          semaphore.NewWeighted(config.MaxConcurrent),
		maxBodyBytes: config.MaxBodyBytes,
		log:          internal.DefaultLogger.With("URLReader"),
	}
}

// Fetch performs a GET and returns the body. Transport failures, non-2xx
// statuses and oversized bodies are reported as FETCH_FAILED.
func (r *URLReader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.FetchFailed(rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.FetchFailed(rawURL, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme))
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.FetchFailed(rawURL, err)
	}
	defer r.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.FetchFailed(rawURL, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	reqStart := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warn("GET %s failed after %s: %v", rawURL, time.Since(reqStart), err)
		return nil, errors.FetchFailed(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.log.Warn("GET %s returned status %d", rawURL, resp.StatusCode)
		return nil, errors.FetchFailed(rawURL, fmt.Errorf("server returned %s: %s",
			resp.Status, strings.TrimSpace(string(snippet))))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodyBytes+1))
	if err != nil {
		return nil, errors.FetchFailed(rawURL, fmt.Errorf("read response: %w", err))
	}
	if int64(len(body)) > r.maxBodyBytes {
		return nil, errors.FetchFailed(rawURL, fmt.Errorf("response exceeds %d bytes", r.maxBodyBytes))
	}

	r.log.Info("GET %s returned %d bytes in %s", rawURL, len(body), time.Since(reqStart))
	return body, nil
}
