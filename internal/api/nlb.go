package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/oboboa/nlb-api/internal/models"
)

const (
	defaultBaseURL = "https://openweb.nlb.gov.sg/api/v2/Catalogue"

	// The catalogue enforces an undocumented per-minute call budget and
	// answers HTTP 429 past it. A 1s delay between calls is usually safe;
	// on a 429 the client waits retryWait and tries again.
	defaultRequestDelay = 1 * time.Second
	defaultRetryWait    = 20 * time.Second
	defaultMaxRetries   = 3
	defaultTimeout      = 15 * time.Second

	defaultSearchLimit = 20
	maxLimit           = 100
)

// Config holds the credentials and pacing knobs for a Client.
// Zero pacing values fall back to the defaults above.
type Config struct {
	APIKey  string // X-Api-Key header
	AppCode string // X-App-Code header
	BaseURL string

	RequestDelay time.Duration // sleep after every successful call
	RetryWait    time.Duration // sleep after a 429 before retrying
	MaxRetries   int           // attempts before giving up on 429s
	Timeout      time.Duration // per-request HTTP timeout
}

// Client is a rate-limit-aware HTTP client for the NLB OpenWeb
// Catalogue API v2. All calls are synchronous; the pacing sleeps assume
// one in-flight request at a time.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	appCode      string
	requestDelay time.Duration
	retryWait    time.Duration
	maxRetries   int
	logger       *log.Logger
}

// NewClient creates a catalogue client with default pacing.
func NewClient(apiKey, appCode string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey, AppCode: appCode})
}

// NewClientWithConfig creates a catalogue client with explicit pacing.
func NewClientWithConfig(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = defaultRequestDelay
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = defaultRetryWait
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		appCode:      cfg.AppCode,
		requestDelay: cfg.RequestDelay,
		retryWait:    cfg.RetryWait,
		maxRetries:   cfg.MaxRetries,
	}
}

// NewClientWithLogging creates a catalogue client that logs every request
// to an api.log file in the same directory as the database.
func NewClientWithLogging(cfg Config, dbPath string) *Client {
	client := NewClientWithConfig(cfg)

	logFile := filepath.Join(filepath.Dir(dbPath), "api.log")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Fall back to a client without file logging
		return client
	}

	client.logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "NLB",
	})
	return client
}

// SearchTitles calls GetTitles and returns the raw candidate entries.
// A non-positive limit uses the default of 20; limits are capped at 100.
func (c *Client) SearchTitles(title, author, mediaCode string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("Title", title)
	params.Set("Limit", strconv.Itoa(clampLimit(limit)))
	if author != "" {
		params.Set("Author", author)
	}
	if mediaCode != "" {
		params.Set("MaterialTypes", mediaCode)
	}

	var resp struct {
		Titles []models.Candidate `json:"titles"`
	}
	if err := c.get("GetTitles", params, &resp); err != nil {
		return nil, err
	}
	return resp.Titles, nil
}

// GetAvailability calls GetAvailabilityInfo for one BRN and returns the
// raw copy entries. A non-positive limit uses the cap of 100.
func (c *Client) GetAvailability(brn, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = maxLimit
	}

	params := url.Values{}
	params.Set("BRN", strconv.Itoa(brn))
	params.Set("Limit", strconv.Itoa(clampLimit(limit)))

	var resp struct {
		Items []models.Item `json:"items"`
	}
	if err := c.get("GetAvailabilityInfo", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// get performs a GET with retry-on-429 and decodes the JSON response.
func (c *Client) get(endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("X-App-Code", c.appCode)
		req.Header.Set("Accept", "application/json")

		if c.logger != nil {
			c.logger.Info("GET", "endpoint", endpoint, "attempt", attempt)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport errors and timeouts are fatal for the call
			if c.logger != nil {
				c.logger.Error("Request failed", "endpoint", endpoint, "error", err)
			}
			return &RequestError{Endpoint: endpoint, Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if c.logger != nil {
				c.logger.Warn("Rate limited",
					"endpoint", endpoint, "attempt", attempt,
					"maxRetries", c.maxRetries, "wait", c.retryWait)
			}
			time.Sleep(c.retryWait)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if c.logger != nil {
				c.logger.Error("API error",
					"endpoint", endpoint, "status", resp.StatusCode,
					"response", string(body))
			}
			return &RequestError{
				Endpoint: endpoint,
				Status:   resp.StatusCode,
				Body:     strings.TrimSpace(string(body)),
			}
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}

		// Polite delay after every successful call, including the last
		// one in a batch, to stay under the call budget.
		time.Sleep(c.requestDelay)
		return nil
	}

	return &RateLimitError{Endpoint: endpoint, Attempts: c.maxRetries}
}

func clampLimit(limit int) int {
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
