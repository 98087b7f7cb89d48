package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"manga_tracker/utils"
)

const cookiesKey = utils.SessionKeyCookies

// Envelope wraps every JSON response: a result marker plus data or an error.
// The create endpoint answers with "status" instead of "result".
type Envelope struct {
	Result  string          `json:"result"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e Envelope) OK() bool { return e.Result == "OK" || e.Status == "OK" }

// ErrorText prefers "error" and falls back to "message".
func (e Envelope) ErrorText() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// CookieStore persists the login session between runs.
type CookieStore interface {
	Get(key string, out any) (bool, error)
	Set(key string, v any) error
}

type Options struct {
	BaseURL   string
	APIPrefix string
	Timeout   time.Duration
	Cookies   CookieStore
	Logger    *zap.Logger
}

// Client talks to the tracker's REST API.
type Client struct {
	base    *url.URL
	prefix  string
	http    *http.Client
	cookies CookieStore
	log     *zap.Logger
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", opts.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		base:    base,
		prefix:  "/" + strings.Trim(opts.APIPrefix, "/"),
		http:    &http.Client{Timeout: opts.Timeout, Jar: jar},
		cookies: opts.Cookies,
		log:     logger.Named("api"),
	}
	if opts.APIPrefix == "" {
		c.prefix = ""
	}
	c.restoreCookies()
	return c, nil
}

// BaseURL is the server root, used to build thumbnail links.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) restoreCookies() {
	if c.cookies == nil {
		return
	}
	var stored []storedCookie
	ok, err := c.cookies.Get(cookiesKey, &stored)
	if err != nil {
		c.log.Warn("discarding stored cookies", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	jarCookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		jarCookies = append(jarCookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: sc.Path})
	}
	c.http.Jar.SetCookies(c.base, jarCookies)
}

func (c *Client) saveCookies() {
	if c.cookies == nil {
		return
	}
	var stored []storedCookie
	for _, ck := range c.http.Jar.Cookies(c.base) {
		stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	if err := c.cookies.Set(cookiesKey, stored); err != nil {
		c.log.Warn("failed to persist session cookies", zap.Error(err))
	}
}

type response struct {
	status   int
	envelope Envelope
	body     []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300 && r.envelope.OK()
}

func (r response) apiError() error {
	return &APIError{Status: r.status, Result: r.envelope.Result, Message: r.envelope.ErrorText()}
}

func (c *Client) endpoint(path, rawQuery string) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + c.prefix + path
	u.RawQuery = rawQuery
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, body io.Reader, contentType string) (response, error) {
	endpoint := c.endpoint(path, rawQuery)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return response{}, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return response{}, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &TransportError{Op: method + " " + path, Err: err}
	}

	c.log.Debug("request done",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	out := response{status: resp.StatusCode, body: data}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out.envelope); err != nil {
		if looksLikeHTML(resp.Header.Get("Content-Type"), data) {
			out.envelope.Error = messageFromHTML(data)
		} else {
			out.envelope.Error = strings.TrimSpace(string(data))
		}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return response{}, err
	}
	return c.do(ctx, method, path, "", bytes.NewReader(b), "application/json")
}

func decodeData(env Envelope, out any) error {
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// ------------------ Endpoints ------------------

// ListSeries fetches one page of the listing. rawQuery comes from filter.BuildQuery.
func (c *Client) ListSeries(ctx context.Context, rawQuery string) ([]Series, error) {
	resp, err := c.do(ctx, http.MethodGet, "/series", rawQuery, nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, resp.apiError()
	}
	var series []Series
	if err := decodeData(resp.envelope, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Login posts the password form and keeps the session cookie.
func (c *Client) Login(ctx context.Context, password string) error {
	form := url.Values{}
	form.Set("password", password)
	resp, err := c.do(ctx, http.MethodPost, "/login", "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.apiError()
	}
	c.saveCookies()
	return nil
}

// LookupExternal asks the backend to fetch series data from external providers.
func (c *Client) LookupExternal(ctx context.Context, rawQuery string) (Series, error) {
	var s Series
	resp, err := c.do(ctx, http.MethodGet, "/external/series/data", rawQuery, nil, "")
	if err != nil {
		return s, err
	}
	if !resp.ok() {
		return s, resp.apiError()
	}
	err = decodeData(resp.envelope, &s)
	return s, err
}

// CreateSeries posts a new series. A duplicate answers 409 (errors.Is ErrConflict).
func (c *Client) CreateSeries(ctx context.Context, payload any) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/series", payload)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.apiError()
	}
	return nil
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	resp, err := c.do(ctx, http.MethodGet, "/settings", "", nil, "")
	if err != nil {
		return s, err
	}
	if !resp.ok() {
		return s, resp.apiError()
	}
	err = decodeData(resp.envelope, &s)
	return s, err
}

// UpdateSettings sends a partial update. Success is 204 or an OK envelope.
func (c *Client) UpdateSettings(ctx context.Context, payload any) error {
	resp, err := c.doJSON(ctx, http.MethodPut, "/settings", payload)
	if err != nil {
		return err
	}
	success := resp.status >= 200 && resp.status < 300
	if success && (resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 || resp.envelope.OK()) {
		return nil
	}
	msg := resp.envelope.Message
	if msg == "" {
		msg = resp.envelope.Error
	}
	return &APIError{Status: resp.status, Result: resp.envelope.Result, Message: msg}
}

// Ping checks the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/ping", "", nil, "")
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return resp.apiError()
	}
	return nil
}
