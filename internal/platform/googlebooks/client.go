package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookbrowser/internal/entity"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

	// PageSize is the fixed maxResults sent with every search.
	PageSize = 20

	// DefaultQuery replaces a blank search term.
	DefaultQuery = "books"
)

// ErrEmptyID is returned by GetByID when no id is given.
var ErrEmptyID = errors.New("book id is required")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a catalog client. rps <= 0 disables the outbound limiter.
func NewClient(userAgent string, rps int, opts ...Option) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Every(time.Second / time.Duration(rps))
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   DefaultBaseURL,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchResult is one page of volumes.
type SearchResult struct {
	Items []entity.Book `json:"items"`
}

type searchResponse struct {
	TotalItems int             `json:"totalItems"`
	Items      json.RawMessage `json:"items"`
}

// Search issues a keyword search. Negative offsets clamp to 0 and a blank
// query is replaced with DefaultQuery. A success response without a usable
// items array yields an empty page, not an error.
func (c *Client) Search(ctx context.Context, query string, offset int) (SearchResult, error) {
	if offset < 0 {
		offset = 0
	}
	term := strings.TrimSpace(query)
	if term == "" {
		term = DefaultQuery
	}

	u := fmt.Sprintf("%s?q=%s&maxResults=%d&startIndex=%d",
		c.baseURL, url.QueryEscape(term), PageSize, offset)

	body, err := c.get(ctx, u)
	if err != nil {
		c.logger.Error("search failed", zap.String("query", term), zap.Int("offset", offset), zap.Error(err))
		return SearchResult{}, err
	}

	var res searchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		c.logger.Error("search response is not json", zap.String("query", term), zap.Error(err))
		return SearchResult{}, &RemoteError{StatusCode: http.StatusOK, Err: fmt.Errorf("decode search response: %w", err)}
	}

	return SearchResult{Items: c.decodeItems(res.Items)}, nil
}

func (c *Client) decodeItems(raw json.RawMessage) []entity.Book {
	items := []entity.Book{}

	var volumes []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &volumes) != nil {
		c.logger.Warn("invalid response format or no books found")
		return items
	}

	for _, rv := range volumes {
		var v Volume
		if err := json.Unmarshal(rv, &v); err != nil {
			c.logger.Warn("skipping malformed volume", zap.Error(err))
			continue
		}
		if v.ID == "" {
			continue
		}
		items = append(items, DecodeVolume(v))
	}
	return items
}

// GetByID fetches a single volume. Failures are returned as they are; the
// caller decides what to show.
func (c *Client) GetByID(ctx context.Context, id string) (entity.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.Book{}, ErrEmptyID
	}

	body, err := c.get(ctx, c.baseURL+"/"+url.PathEscape(id))
	if err != nil {
		c.logger.Error("fetch book failed", zap.String("id", id), zap.Error(err))
		return entity.Book{}, err
	}

	var v Volume
	if err := json.Unmarshal(body, &v); err != nil {
		return entity.Book{}, &RemoteError{StatusCode: http.StatusOK, Err: fmt.Errorf("decode volume %s: %w", id, err)}
	}
	if v.ID == "" {
		v.ID = id
	}
	return DecodeVolume(v), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RemoteError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RemoteError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}
