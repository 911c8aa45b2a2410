package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/scrawlapp/scrawl/internal/common"
)

// Request headers understood by the platform.
const (
	HeaderProject = "X-Scrawl-Project"
	HeaderSession = "X-Scrawl-Session"
)

// Options configures an HTTPClient. Endpoint is the versioned API root,
// e.g. "https://backend.example.com/v1". DatabaseID scopes every document
// call; collections are chosen per call.
type Options struct {
	Endpoint   string
	ProjectID  string
	DatabaseID string
	Timeout    time.Duration
}

// HTTPClient implements Client against the platform's REST API.
type HTTPClient struct {
	opts Options
	http *http.Client

	mu     sync.RWMutex
	secret string
}

func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	return &HTTPClient{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetSession(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.secret = secret
}

func (c *HTTPClient) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secret
}

// sessionPayload mirrors the wire shape of a session object.
type sessionPayload struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

func (p sessionPayload) token() *SessionToken {
	t := &SessionToken{ID: p.ID, UserID: p.UserID, Secret: p.Secret}
	if exp, err := time.Parse(time.RFC3339, p.Expire); err == nil {
		t.Expires = exp
	}
	return t
}

type accountPayload struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *HTTPClient) CreateSession(ctx context.Context, email, password string) (*SessionToken, error) {
	body := map[string]string{"email": email, "password": password}

	var p sessionPayload
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", body, &p); err != nil {
		return nil, err
	}

	c.SetSession(p.Secret)
	return p.token(), nil
}

func (c *HTTPClient) CurrentSession(ctx context.Context) (*SessionToken, error) {
	var p sessionPayload
	if err := c.do(ctx, http.MethodGet, "/account/sessions/current", nil, &p); err != nil {
		return nil, err
	}
	return p.token(), nil
}

// DeleteSession terminates the current remote session. The locally held
// secret is cleared even when the remote call fails; the caller decides what
// to do with the error.
func (c *HTTPClient) DeleteSession(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil)
	c.SetSession("")
	return err
}

func (c *HTTPClient) CreateIdentity(ctx context.Context, email, password, name string) (*IdentityRef, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var p accountPayload
	if err := c.do(ctx, http.MethodPost, "/account", body, &p); err != nil {
		return nil, err
	}
	return &IdentityRef{ID: p.ID, Email: p.Email, Name: p.Name}, nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, c.documentPath(collection, id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (c *HTTPClient) ListDocuments(ctx context.Context, collection string, q ListQuery) ([]Document, error) {
	path := c.documentPath(collection, "")

	params := url.Values{}
	for field, value := range q.Filters {
		params.Add("filter", field+":"+value)
	}
	if q.OrderBy != "" {
		params.Set("order", q.OrderBy)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Total     int              `json:"total"`
		Documents []map[string]any `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(resp.Documents))
	for _, raw := range resp.Documents {
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (c *HTTPClient) CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error) {
	body := map[string]any{"documentId": id, "data": fields}

	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, c.documentPath(collection, ""), body, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (c *HTTPClient) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error) {
	body := map[string]any{"data": fields}

	var raw map[string]any
	if err := c.do(ctx, http.MethodPatch, c.documentPath(collection, id), body, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (c *HTTPClient) documentPath(collection, id string) string {
	p := fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.opts.DatabaseID), url.PathEscape(collection))
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// do performs one round trip: marshal body, attach project and session
// headers, decode the response into out (when non-nil), and map any failure
// to a sentinel error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.opts.Endpoint, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderProject, c.opts.ProjectID)
	if s := c.Session(); s != "" {
		req.Header.Set(HeaderSession, s)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// errorPayload is the body the platform sends with non-2xx responses.
type errorPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// mapError converts a failed response into a sentinel error. The mapping is
// intentionally coarse; the caller only dispatches on the sentinel.
func mapError(resp *http.Response) error {
	var p errorPayload
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&p)
	if p.Message == "" {
		p.Message = resp.Status
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized && p.Type == "invalid_credentials":
		sentinel = common.ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = common.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		sentinel = common.ErrDuplicateIdentity
	case resp.StatusCode == http.StatusBadRequest:
		sentinel = common.ErrValidation
	case resp.StatusCode >= 500:
		sentinel = common.ErrNetwork
	default:
		return fmt.Errorf("platform error %d: %s", resp.StatusCode, p.Message)
	}
	return fmt.Errorf("%w: %s", sentinel, p.Message)
}

// decodeDocument splits a raw document object into system fields ($id,
// $createdAt, $updatedAt) and user data.
func decodeDocument(raw map[string]any) (*Document, error) {
	id, _ := raw["$id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: document without $id", common.ErrValidation)
	}

	doc := &Document{ID: id, Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		if strings.HasPrefix(k, "$") {
			continue
		}
		doc.Data[k] = v
	}

	if s, ok := raw["$createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			doc.CreatedAt = t
		}
	}
	if s, ok := raw["$updatedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			doc.UpdatedAt = t
		}
	}
	return doc, nil
}
