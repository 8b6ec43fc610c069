package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/config"
)

const (
	retryBaseDelay     = 800 * time.Millisecond
	retryBackoffFactor = 1.7
	retryMaxDelay      = 8 * time.Second
	defaultMaxRetries  = 6

	maxErrorBodyBytes = 2048
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Transport owns the retry and pacing policy for every Shopify call.
type Transport struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	limiter    *RateLimiter
	sleep      func(ctx context.Context, delay time.Duration) error
}

func NewTransport(cfg config.ShopifyConfig, httpClient *http.Client) *Transport {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Transport{
		config:     cfg,
		httpClient: httpClient,
		limiter:    NewRateLimiter(),
		sleep:      sleepWithContext,
	}
}

func (t *Transport) maxRetries() int {
	if t.config.MaxRetries > 0 {
		return t.config.MaxRetries
	}
	return defaultMaxRetries
}

func (t *Transport) baseURL() string {
	domain := strings.TrimSpace(t.config.ShopDomain)
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/") + "/admin/api/" + t.config.APIVer
}

// Rest performs one REST call under the retry policy. path is relative
// to the admin API root, e.g. "/products/123.json".
func (t *Transport) Rest(ctx context.Context, class EndpointClass, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shopify: marshal %s %s: %w", method, path, err)
		}
		payload = b
	}

	raw, err := t.doWithRetry(ctx, class, method, t.baseURL()+path, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("shopify: decode %s %s: %w", method, path, err)
	}
	return nil
}

// GraphQL posts one document. A top-level errors array inside a 200 is
// terminal, callers interpret userErrors themselves.
func (t *Transport) GraphQL(ctx context.Context, class EndpointClass, query string, variables map[string]any, out any) error {
	const endpoint = "/graphql.json"

	payload, err := json.Marshal(graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("shopify: marshal graphql request: %w", err)
	}

	raw, err := t.doWithRetry(ctx, class, http.MethodPost, t.baseURL()+endpoint, endpoint, payload)
	if err != nil {
		return err
	}

	var resp dto.GraphQLResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("shopify: decode graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return newGraphQLError(endpoint, resp.Errors)
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 {
		return errors.New("shopify: graphql response missing data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("shopify: decode graphql data: %w", err)
	}
	return nil
}

func (t *Transport) doWithRetry(ctx context.Context, class EndpointClass, method, url, endpoint string, payload []byte) ([]byte, error) {
	attempts := t.maxRetries() + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := t.limiter.Wait(ctx, class); err != nil {
			return nil, err
		}

		status, header, body, err := t.doOnce(ctx, method, url, payload)
		if err != nil {
			lastErr = fmt.Errorf("shopify: %s %s: %w", method, endpoint, err)
		} else if status >= 200 && status < 300 {
			return body, nil
		} else {
			lastErr = &TransportError{
				Status:   status,
				Endpoint: endpoint,
				Body:     truncateBody(body),
			}
			if !retryableStatus(status) {
				return nil, lastErr
			}
		}

		if attempt == attempts-1 {
			break
		}
		delay := retryDelay(attempt)
		if ra := retryAfter(header); ra > 0 {
			delay = ra
		}
		if err := t.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (t *Transport) doOnce(ctx context.Context, method, url string, payload []byte) (int, http.Header, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", t.config.Token)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func retryDelay(attempt int) time.Duration {
	delay := float64(retryBaseDelay)
	for i := 0; i < attempt; i++ {
		delay *= retryBackoffFactor
	}
	d := time.Duration(delay)
	if d > retryMaxDelay {
		d = retryMaxDelay
	}
	return d
}

// retryAfter honors integral-second Retry-After headers, anything else
// falls back to the computed backoff.
func retryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		s = s[:maxErrorBodyBytes]
	}
	return s
}
