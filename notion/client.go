package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
)

// Client defines the Notion API operations used by groupstatus.
type Client interface {
	QueryDatabase(ctx context.Context, query DatabaseQuery) (QueryResult, error)
}

type ClientConfig struct {
	BaseURL   string
	Token     string
	Version   string
	UserAgent string
	Timeout   time.Duration
	// Transport replaces http.DefaultTransport, mainly for tests.
	Transport http.RoundTripper
}

// HTTPClient queries Notion through github.com/jomei/notionapi and converts
// its pages into Page values.
type HTTPClient struct {
	api     *notionapi.Client
	baseURL string
	version string
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("notion API token is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = DefaultVersion
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	transport := &apiTransport{userAgent: strings.TrimSpace(cfg.UserAgent), next: next}
	if baseURL != DefaultBaseURL {
		transport.base = parsedBase
	}

	api := notionapi.NewClient(
		notionapi.Token(token),
		notionapi.WithHTTPClient(&http.Client{Timeout: timeout, Transport: transport}),
		notionapi.WithVersion(version),
	)
	return &HTTPClient{api: api, baseURL: baseURL, version: version}, nil
}

// QueryDatabase returns the first page of results matching query. Further
// pages reported through QueryResult.HasMore are not requested. Errors from
// notionapi, including *notionapi.Error for API failures, are returned as is.
func (c *HTTPClient) QueryDatabase(ctx context.Context, query DatabaseQuery) (QueryResult, error) {
	databaseID := strings.TrimSpace(query.DatabaseID)
	if databaseID == "" {
		return QueryResult{}, errors.New("database id is required")
	}

	request := &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(query.StartCursor),
		PageSize:    query.PageSize,
	}
	if query.Filter != nil {
		request.Filter = apiFilter(*query.Filter)
	}

	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), request)
	if err != nil {
		return QueryResult{}, err
	}

	result := QueryResult{
		Results:    make([]Page, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, page := range resp.Results {
		result.Results = append(result.Results, pageFromAPI(page))
	}
	return result, nil
}

// apiTransport points notionapi requests at a non-default base URL and sets
// the User-Agent header.
type apiTransport struct {
	base      *url.URL
	userAgent string
	next      http.RoundTripper
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.base != nil {
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.URL.Path = strings.TrimRight(t.base.Path, "/") + req.URL.Path
		req.URL.RawPath = ""
		req.Host = ""
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(req)
}
