package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
)

const defaultBaseURL = "https://api.figma.com"

// Client fetches design documents and preview-image maps from the design
// source service. Fetched files are cached in an expirable LRU keyed by
// file key, so repeated selections within a session hit the network once.
type Client struct {
	http    *http.Client
	baseURL string
	token   string

	files *expirable.LRU[string, *FileResponse]
}

// NewClient creates a client. If token is empty it falls back to the
// FIGMA_TOKEN env var.
func NewClient(token string, cacheSize int, cacheTTL time.Duration) *Client {
	if token == "" {
		token = os.Getenv("FIGMA_TOKEN")
	}
	if cacheSize <= 0 {
		cacheSize = 16
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
		files:   expirable.NewLRU[string, *FileResponse](cacheSize, nil, cacheTTL),
	}
}

// SetBaseURL overrides the service endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimSuffix(u, "/") }

// GetFile fetches the full document for fileKey, consulting the cache first.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	fileKey = strings.TrimSpace(fileKey)
	if fileKey == "" {
		return nil, apperr.New("figma.GetFile", apperr.KindValidation, fmt.Errorf("file key is empty"))
	}
	if f, ok := c.files.Get(fileKey); ok {
		return f, nil
	}
	var out FileResponse
	if err := c.get(ctx, "figma.GetFile", "/v1/files/"+url.PathEscape(fileKey), nil, &out); err != nil {
		return nil, err
	}
	c.files.Add(fileKey, &out)
	return &out, nil
}

// GetImages fetches rendered preview URLs for the given node IDs.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string) (map[string]string, error) {
	fileKey = strings.TrimSpace(fileKey)
	if fileKey == "" || len(nodeIDs) == 0 {
		return nil, apperr.New("figma.GetImages", apperr.KindValidation, fmt.Errorf("file key and node ids are required"))
	}
	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", "png")
	var out ImagesResponse
	if err := c.get(ctx, "figma.GetImages", "/v1/images/"+url.PathEscape(fileKey), q, &out); err != nil {
		return nil, err
	}
	if out.Err != "" {
		return nil, apperr.New("figma.GetImages", apperr.KindFetch, fmt.Errorf("image render failed: %s", out.Err))
	}
	return out.Images, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperr.New(op, apperr.KindValidation, err)
	}
	if c.token != "" {
		req.Header.Set("X-Figma-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.New(op, apperr.KindFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return statusError(op, resp, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.New(op, apperr.KindFetch, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func statusError(op string, resp *http.Response, body []byte) error {
	base := fmt.Errorf("unexpected status %s: %s", resp.Status, string(body))
	var e *apperr.Error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e = apperr.New(op, apperr.KindAuth, base)
	case resp.StatusCode == http.StatusNotFound:
		e = apperr.New(op, apperr.KindNotFound, base)
	case resp.StatusCode == http.StatusTooManyRequests:
		e = apperr.New(op, apperr.KindRateLimit, base)
		e.RetryAfter = retryAfter(resp)
	case resp.StatusCode >= 500:
		e = apperr.New(op, apperr.KindServerError, base)
	default:
		e = apperr.New(op, apperr.KindFetch, base)
	}
	e.Status = resp.StatusCode
	return e
}

func retryAfter(resp *http.Response) time.Duration {
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
