// Package backend is the typed HTTP client for the remote storefront
// API. The transport is opaque to the rest of the client; callers see
// request/response contracts only.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultTimeout = 30 * time.Second
	itemCacheTTL   = time.Minute
)

// Client talks to the storefront backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// items caches GetItem responses; create/update mutations evict.
	items *cache.Cache
}

// New creates a client for the given base URL. A non-positive timeout
// falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		items:      cache.New(itemCacheTTL, 2*itemCacheTTL),
	}
}

// CreateItem submits a new catalog item as a multipart payload.
func (c *Client) CreateItem(ctx context.Context, up ItemUpsert) (APIResponse, error) {
	resp, err := c.postItemForm(ctx, http.MethodPost, "/api/catalog-items", up)
	if err != nil {
		return APIResponse{}, err
	}
	if resp.IsSuccess {
		c.items.Flush()
	}
	return resp, nil
}

// UpdateItem submits changes to an existing catalog item. up.ID must be set.
func (c *Client) UpdateItem(ctx context.Context, up ItemUpsert) (APIResponse, error) {
	if up.ID == "" {
		return APIResponse{}, fmt.Errorf("update requires an item id")
	}
	resp, err := c.postItemForm(ctx, http.MethodPut, "/api/catalog-items/"+up.ID, up)
	if err != nil {
		return APIResponse{}, err
	}
	if resp.IsSuccess {
		c.items.Delete(up.ID)
	}
	return resp, nil
}

// GetItem fetches a catalog item by id. Responses are cached briefly;
// mutations through this client evict the cache.
func (c *Client) GetItem(ctx context.Context, id string) (CatalogItem, error) {
	if cached, ok := c.items.Get(id); ok {
		return cached.(CatalogItem), nil
	}

	resp, err := c.doJSON(ctx, http.MethodGet, "/api/catalog-items/"+id, nil)
	if err != nil {
		return CatalogItem{}, err
	}

	var item CatalogItem
	if err := json.Unmarshal(resp.Result, &item); err != nil {
		return CatalogItem{}, fmt.Errorf("decoding catalog item: %w", err)
	}
	c.items.Set(id, item, cache.DefaultExpiration)
	return item, nil
}

// ListItems fetches the full catalog listing.
func (c *Client) ListItems(ctx context.Context) ([]CatalogItem, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/catalog-items", nil)
	if err != nil {
		return nil, err
	}

	var items []CatalogItem
	if err := json.Unmarshal(resp.Result, &items); err != nil {
		return nil, fmt.Errorf("decoding catalog listing: %w", err)
	}
	return items, nil
}

// UpdateCart applies a quantity delta to the user's cart line for an item.
func (c *Client) UpdateCart(ctx context.Context, update CartUpdate) (APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, "/api/cart", update)
}

// Register creates a new user account. A failure payload comes back as
// a *Error carrying the backend's message list.
func (c *Client) Register(ctx context.Context, reg Registration) (APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", reg)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (APIResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return APIResponse{}, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return APIResponse{}, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

func (c *Client) postItemForm(ctx context.Context, method, path string, up ItemUpsert) (APIResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"Name":        up.Name,
		"Description": up.Description,
		"SpecialTag":  up.SpecialTag,
		"Category":    up.Category,
		"Price":       up.Price,
	}
	if up.ID != "" {
		fields["Id"] = up.ID
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return APIResponse{}, fmt.Errorf("writing form field %s: %w", name, err)
		}
	}
	if up.File != nil {
		part, err := w.CreateFormFile("File", up.File.Name)
		if err != nil {
			return APIResponse{}, fmt.Errorf("creating file part: %w", err)
		}
		if _, err := part.Write(up.File.Data); err != nil {
			return APIResponse{}, fmt.Errorf("writing file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return APIResponse{}, fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return APIResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req)
}

func (c *Client) send(req *http.Request) (APIResponse, error) {
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return APIResponse{}, fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return APIResponse{}, fmt.Errorf("reading response: %w", err)
	}

	var resp APIResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			if httpResp.StatusCode >= 400 {
				return APIResponse{}, &Error{Status: httpResp.StatusCode}
			}
			return APIResponse{}, fmt.Errorf("decoding response: %w", err)
		}
	}

	if httpResp.StatusCode >= 400 {
		return APIResponse{}, &Error{Status: httpResp.StatusCode, Messages: resp.ErrorMessages}
	}
	return resp, nil
}
