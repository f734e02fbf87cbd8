package simgrid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skf-site/simgrid-proxy/internal/domain/championship"
	"github.com/skf-site/simgrid-proxy/internal/domain/rawdata"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
	"github.com/skf-site/simgrid-proxy/internal/platform/resilience"
	"github.com/skf-site/simgrid-proxy/internal/usecase"
)

const (
	DefaultBaseURL   = "https://www.thesimgrid.com"
	DefaultTimeout   = 30 * time.Second
	DefaultListLimit = 200

	maxResponseBytes = 8 << 20
)

var errSimGridTransient = crerr.New("simgrid transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	ListLimit      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the JSON API of The SimGrid.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	listLimit  int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[string, []byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = DefaultTimeout
	}

	listLimit := cfg.ListLimit
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("simgrid circuit breaker state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		listLimit:  listLimit,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(breakerCfg),
	}
}

func (c *Client) FetchChampionships(ctx context.Context) ([]championship.ListItem, rawdata.Payload, error) {
	query := map[string]string{
		"limit":  strconv.Itoa(c.listLimit),
		"offset": "0",
	}

	var items []championshipListItem
	raw, err := c.doJSON(ctx, "/api/v1/championships", query, &items)
	if err != nil {
		return nil, rawdata.Payload{}, crerr.Wrap(err, "fetch championships")
	}

	out := make([]championship.ListItem, 0, len(items))
	for _, item := range items {
		out = append(out, championship.ListItem{ID: item.ID, Name: strings.TrimSpace(item.Name)})
	}
	return out, buildAPIPayload("championships", raw), nil
}

func (c *Client) FetchChampionship(ctx context.Context, championshipID int64) (championship.Details, rawdata.Payload, error) {
	path := fmt.Sprintf("/api/v1/championships/%d", championshipID)

	var item championshipDetails
	raw, err := c.doJSON(ctx, path, nil, &item)
	if err != nil {
		return championship.Details{}, rawdata.Payload{}, crerr.Wrapf(err, "fetch championship id=%d", championshipID)
	}
	return item.toDomain(), buildAPIPayload(fmt.Sprintf("championships/%d", championshipID), raw), nil
}

// FetchStandings returns the decoded standings payload as generic JSON
// values. Its shape is interpreted by the standings parser.
func (c *Client) FetchStandings(ctx context.Context, championshipID int64) (any, rawdata.Payload, error) {
	path := fmt.Sprintf("/api/v1/championships/%d/standings", championshipID)

	var payload any
	raw, err := c.doJSON(ctx, path, nil, &payload)
	if err != nil {
		return nil, rawdata.Payload{}, crerr.Wrapf(err, "fetch standings championship=%d", championshipID)
	}
	return payload, buildAPIPayload(fmt.Sprintf("championships/%d/standings", championshipID), raw), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "simgrid circuit breaker rejected request", "path", path)
		return nil, upstreamUnavailable(crerr.Wrap(err, "simgrid api is temporarily unavailable"))
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		return c.executeRequest(ctx, fullURL)
	})
	// Every caller that passed Allow records, including those that shared a flight.
	c.breaker.Record(crerr.Is(err, errSimGridTransient))
	if err != nil {
		return nil, upstreamUnavailable(err)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, upstreamUnavailable(crerr.Wrap(err, "decode simgrid payload"))
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = crerr.Mark(crerr.Wrapf(err, "send request %s", fullURL), errSimGridTransient)
		c.logger.WarnContext(ctx, "simgrid request failed", "url", fullURL, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errSimGridTransient)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	err = crerr.Newf("simgrid status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	if isRetryableStatus(resp.StatusCode) {
		err = crerr.Mark(err, errSimGridTransient)
	}
	c.logger.WarnContext(ctx, "simgrid request failed", "url", fullURL, "status", resp.StatusCode)
	return nil, err
}

// upstreamUnavailable keeps the sentinel reachable by the standard errors.Is.
func upstreamUnavailable(err error) error {
	return fmt.Errorf("%w: %w", usecase.ErrUpstreamUnavailable, err)
}

func buildAPIPayload(cacheKey string, raw []byte) rawdata.Payload {
	return rawdata.Payload{
		CacheKey:    cacheKey,
		Source:      rawdata.SourceSimGrid,
		PayloadJSON: string(raw),
	}
}

func normalizeBaseURL(raw string) string {
	baseURL := strings.TrimRight(strings.TrimSpace(raw), "/")
	if baseURL == "" {
		return DefaultBaseURL
	}
	return baseURL
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type championshipListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type championshipDetails struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	StartDate              *string `json:"start_date"`
	EndDate                *string `json:"end_date"`
	Capacity               *int    `json:"capacity"`
	SpotsTaken             *int    `json:"spots_taken"`
	AcceptingRegistrations bool    `json:"accepting_registrations"`
	HostName               string  `json:"host_name"`
	GameName               string  `json:"game_name"`
	URL                    string  `json:"url"`
}

func (d championshipDetails) toDomain() championship.Details {
	return championship.Details{
		ID:                     d.ID,
		Name:                   strings.TrimSpace(d.Name),
		StartDate:              d.StartDate,
		EndDate:                d.EndDate,
		Capacity:               d.Capacity,
		SpotsTaken:             d.SpotsTaken,
		AcceptingRegistrations: d.AcceptingRegistrations,
		HostName:               d.HostName,
		GameName:               d.GameName,
		URL:                    d.URL,
	}
}
