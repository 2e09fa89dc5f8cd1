package usgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

const (
	// DefaultBaseURL is the USGS FDSN event query endpoint.
	DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

	// DefaultTimeout bounds the whole request, body read included.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps the response size. 500 GeoJSON features are well under 2 MiB.
	maxBodyBytes = 32 << 20
)

// Client queries the USGS earthquake catalog. It makes exactly one request
// per Query call and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a catalog client with the given endpoint and timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Query fetches the most recent events matching filter. On failure the
// returned error is a *domain.FetchError classifying the failure, and the
// payload is the zero value.
func (c *Client) Query(ctx context.Context, filter domain.QueryFilter) (domain.RawCatalogPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(filter), nil)
	if err != nil {
		return domain.RawCatalogPayload{}, fail(domain.FailureUnknown, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawCatalogPayload{}, classifyTransport(fmt.Errorf("catalog request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.RawCatalogPayload{}, fail(domain.FailureHTTPStatus,
			fmt.Errorf("%s for url: %s", resp.Status, req.URL.Redacted()))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return domain.RawCatalogPayload{}, classifyTransport(fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return domain.RawCatalogPayload{}, fail(domain.FailureMalformedBody,
			fmt.Errorf("response body exceeds %d bytes", maxBodyBytes))
	}

	return DecodePayload(body)
}

func (c *Client) queryURL(filter domain.QueryFilter) string {
	params := url.Values{
		"format":       {"geojson"},
		"orderby":      {"time"},
		"minmagnitude": {strconv.FormatFloat(filter.MinMagnitude, 'f', -1, 64)},
		"limit":        {strconv.Itoa(filter.Limit)},
	}
	return c.baseURL + "?" + params.Encode()
}

// classifyTransport separates timeouts from other transport failures.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fail(domain.FailureTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fail(domain.FailureTimeout, err)
	}
	return fail(domain.FailureUnknown, err)
}

func fail(kind domain.FailureKind, err error) *domain.FetchError {
	return &domain.FetchError{Kind: kind, Err: err}
}
