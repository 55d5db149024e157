package random

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when none is configured.
const DefaultTimeout = 5 * time.Second

// maxBodyBytes is the largest body accepted; a valid body is a few bytes.
const maxBodyBytes = 64

// HTTPSource fetches one decimal fraction per call from a plain-text endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource returns a source that GETs url with the given timeout.
//
// Precondition: url must be an absolute http(s) URL.
// Postcondition: A timeout <= 0 is replaced by DefaultTimeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{url: url, client: &http.Client{Timeout: timeout}}
}

// URL returns the endpoint this source reads from.
func (s *HTTPSource) URL() string { return s.url }

// NextRandom performs one request and parses the trimmed body strictly as a float.
//
// Postcondition: Returns a value in [0, 1), or an error wrapping
// ErrSourceUnavailable (transport, timeout, status) or ErrMalformedResponse (body).
func (s *HTTPSource) NextRandom(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: building request: %v", ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		var timeout interface{ Timeout() bool }
		if errors.As(err, &timeout) && timeout.Timeout() {
			return 0, fmt.Errorf("%w: request to %s timed out", ErrSourceUnavailable, s.url)
		}
		return 0, fmt.Errorf("%w: request to %s failed: %v", ErrSourceUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s answered %s", ErrSourceUnavailable, s.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return 0, fmt.Errorf("%w: reading response: %v", ErrSourceUnavailable, err)
	}
	if len(body) > maxBodyBytes {
		return 0, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxBodyBytes)
	}

	return ParseFraction(string(body))
}

// ParseFraction parses a whitespace-padded decimal in [0, 1).
//
// Postcondition: Returns the value or an error wrapping ErrMalformedResponse.
func ParseFraction(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedResponse, text)
	}
	if v < 0 || v >= 1 {
		return 0, fmt.Errorf("%w: %g is outside [0, 1)", ErrMalformedResponse, v)
	}
	return v, nil
}
