package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/util"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
	"go.uber.org/zap"
)

// Client issues read-only GETs against PokeAPI. It never retries; repeated
// transport or 5xx failures open a circuit breaker so callers fail fast.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = constants.APIConfig.PokeAPITimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

// ListResource fetches one page of the /pokemon index.
func (c *Client) ListResource(ctx context.Context, limit, offset int) (*NamedResourceList, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var list NamedResourceList
	if err := c.getJSON(ctx, c.resolve("/pokemon")+"?"+params.Encode(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetResource fetches /pokemon/{idOrName}.
func (c *Client) GetResource(ctx context.Context, idOrName string) (*RawPokemon, error) {
	var raw RawPokemon
	if err := c.getJSON(ctx, c.resolve("/pokemon/"+url.PathEscape(idOrName)), &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// GetByURL fetches a resource referenced by another record (species,
// evolution chain) and decodes it into dest.
func (c *Client) GetByURL(ctx context.Context, rawURL string, dest any) error {
	return c.getJSON(ctx, c.resolve(rawURL), dest)
}

// ListTypes fetches the /type index.
func (c *Client) ListTypes(ctx context.Context) (*NamedResourceList, error) {
	var list NamedResourceList
	if err := c.getJSON(ctx, c.resolve("/type"), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) IsCircuitOpen() bool {
	return !c.breaker.CanExecute()
}

// CircuitStatus reports the upstream breaker for health checks.
func (c *Client) CircuitStatus() util.CircuitBreakerStatus {
	return c.breaker.GetStatus()
}

// resolve leaves absolute URLs alone and joins anything else onto the base URL.
func (c *Client) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func (c *Client) getJSON(ctx context.Context, reqURL string, dest any) error {
	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("Malformed upstream payload",
			zap.String("url", reqURL),
			zap.Error(err),
		)
		return errors.NewValidationError(fmt.Sprintf("malformed payload from %s: %v", reqURL, err), "body", util.TruncateString(string(body), 256))
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if !c.breaker.CanExecute() {
		retryAfter := c.breaker.RetryAfter()
		c.logger.Warn("Circuit breaker is open", zap.Int64("retry_after_ms", retryAfter.Milliseconds()))
		return nil, errors.NewAPIError("Circuit breaker open", http.StatusServiceUnavailable, map[string]any{
			"retry_after_ms": retryAfter.Milliseconds(),
			"url":            reqURL,
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Malformed request", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewRequestError("could not build request", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
		c.logger.Warn("No response from upstream", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewTransportError("no response from upstream", reqURL, err)
	}

	// Read body and close immediately
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
		c.logger.Warn("Upstream response interrupted", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewTransportError("response body interrupted", reqURL, err)
	}

	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
		c.logger.Warn("Upstream server error",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewAPIError(fmt.Sprintf("Server error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url": reqURL,
		})
	}

	// a 4xx still proves the upstream is reachable
	c.breaker.RecordSuccess()

	if resp.StatusCode >= 400 {
		c.logger.Debug("Upstream client error",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", util.TruncateString(string(body), 256)),
		)
		return nil, errors.NewAPIError(fmt.Sprintf("Client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url":  reqURL,
			"body": util.TruncateString(string(body), 256),
		})
	}

	return body, nil
}
