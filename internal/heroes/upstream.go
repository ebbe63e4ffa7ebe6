package heroes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// identityHeaders is sent on every directory and image request; the
// upstream blocks anonymous-looking clients.
var identityHeaders = map[string]string{
	"User-Agent":      "HeroLeagueHub/1.0 (+https://localhost)",
	"Accept":          "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.superherodb.com/",
}

// RawHero is the directory's wire shape. Field names and vocabularies
// differ from the canonical model; it is never persisted as-is.
type RawHero struct {
	ID          json.RawMessage `json:"id"` // string or number, parsed by Normalize
	Name        string          `json:"name"`
	Powerstats  json.RawMessage `json:"powerstats"`
	Biography   json.RawMessage `json:"biography"`
	Appearance  json.RawMessage `json:"appearance"`
	Work        json.RawMessage `json:"work"`
	Connections json.RawMessage `json:"connections"`
	Image       struct {
		URL string `json:"url"`
	} `json:"image"`
}

// Client talks to the third-party hero directory.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

type searchResponse struct {
	Response string    `json:"response"`
	Error    string    `json:"error"`
	Results  []RawHero `json:"results"`
}

type heroResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
	RawHero
}

// SearchByName runs a name search against the directory. An API-level
// "error" response (the directory reports misses with HTTP 200) yields an
// empty result set; transport and HTTP failures yield an UpstreamError.
func (c *Client) SearchByName(ctx context.Context, query string) ([]RawHero, error) {
	u := fmt.Sprintf("%s/%s/search/%s", c.BaseURL, c.APIKey, url.PathEscape(query))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if sr.Response == "error" {
		return nil, nil
	}
	return sr.Results, nil
}

// FetchByID fetches a single hero. A directory-level "error" response
// maps to ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id int) (*RawHero, error) {
	u := fmt.Sprintf("%s/%s/%d", c.BaseURL, c.APIKey, id)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var hr heroResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, fmt.Errorf("decode hero response: %w", err)
	}
	if hr.Response == "error" {
		return nil, ErrNotFound
	}
	return &hr.RawHero, nil
}

// FetchAsset downloads a binary asset (hero image) with the same
// identifying headers as directory calls. Returns the bytes and the
// upstream-reported content type.
func (c *Client) FetchAsset(ctx context.Context, assetURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build request: %v", ErrUpstreamImage, err)
	}
	setIdentityHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstreamImage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", ErrUpstreamImage, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrUpstreamImage, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrUpstreamImage)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	setIdentityHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// a timed-out or unreachable directory is never an empty result
		var ue *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
			return nil, &UpstreamError{Status: http.StatusGatewayTimeout}
		}
		return nil, &UpstreamError{Status: http.StatusBadGateway}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusBadGateway}
	}
	return body, nil
}

func setIdentityHeaders(req *http.Request) {
	for k, v := range identityHeaders {
		req.Header.Set(k, v)
	}
}
