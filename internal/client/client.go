// Package client is the typed HTTP client of the portal API. It authenticates
// with bearer tokens; cookies are left to browsers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ragrids/internal/auth"
	"ragrids/internal/model"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Fields  []string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Principal identifies whoever a token was issued to.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login is the outcome of a successful login.
type Login struct {
	Token     string
	Principal Principal
}

// AdminRegistration is the admin sign-up payload.
type AdminRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// UserRegistration is the customer sign-up payload.
type UserRegistration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	District    string `json:"district"`
}

// ProfileUpdate carries the profile fields to change. Nil fields are not sent.
type ProfileUpdate struct {
	Email       *string `json:"email,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	District    *string `json:"district,omitempty"`
}

// Client talks to one portal server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterAdmin creates an admin and returns its id.
func (c *Client) RegisterAdmin(ctx context.Context, in AdminRegistration) (string, error) {
	return c.register(ctx, auth.KindAdmin, in)
}

// RegisterUser creates a customer and returns its id.
func (c *Client) RegisterUser(ctx context.Context, in UserRegistration) (string, error) {
	return c.register(ctx, auth.KindUser, in)
}

func (c *Client) register(ctx context.Context, kind auth.Kind, body interface{}) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/"+kind.String()+"/register", "", body, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// Login authenticates a principal of kind.
func (c *Client) Login(ctx context.Context, kind auth.Kind, email, password string) (*Login, error) {
	var out struct {
		Token string    `json:"token"`
		Data  Principal `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/"+kind.String()+"/login", "", body, &out); err != nil {
		return nil, err
	}
	return &Login{Token: out.Token, Principal: out.Data}, nil
}

// Logout asks the server to clear the kind's session cookie.
func (c *Client) Logout(ctx context.Context, kind auth.Kind) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/"+kind.String()+"/logout", "", nil, nil)
}

// GetProfile fetches the caller's own profile.
func (c *Client) GetProfile(ctx context.Context, token, id string) (*model.User, error) {
	var out struct {
		Data model.User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/user/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateProfile changes the caller's own profile.
func (c *Client) UpdateProfile(ctx context.Context, token, id string, in ProfileUpdate) (*model.User, error) {
	var out struct {
		Data model.User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/auth/user/"+url.PathEscape(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Customers lists every customer. Admin token required.
func (c *Client) Customers(ctx context.Context, token string) ([]model.User, error) {
	var out struct {
		Count  int          `json:"count"`
		Result []model.User `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/customers", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Upload sends a document for the caller's own profile.
func (c *Client) Upload(ctx context.Context, token, id, filename string, r io.Reader) (*model.FileRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/upload/"+url.PathEscape(id), token, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Data model.FileRef `json:"data"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Download opens the document at rawURL. The caller closes the body.
func (c *Client) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return resp.Body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
