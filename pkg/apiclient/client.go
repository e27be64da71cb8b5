// Package apiclient is the HTTP client for the recipe API. Non-2xx responses
// are normalized into *Error; there are no retries and no built-in timeout.
package apiclient

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

	"github.com/recipebox/recipebox/internal/recipe"
)

// DefaultErrorMessage is used when an error response carries no message.
const DefaultErrorMessage = "An unexpected error occurred"

// Error is returned for every non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the recipe API rooted at BaseURL. An empty BaseURL means
// paths are used as-is.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client using http.DefaultClient.
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// ResolveURL turns a server-relative path returned by the API (such as an
// uploaded image URL) into an absolute one.
func (c *Client) ResolveURL(p string) string {
	if strings.HasPrefix(p, "/") {
		return c.url(p)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := handleResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// handleResponse converts a non-2xx response into *Error, preferring the
// body's "message" field.
func handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Message string `json:"message"`
	}
	msg := DefaultErrorMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

func recipePath(id string) string {
	return "/api/recipes/" + url.PathEscape(id)
}

// List fetches every recipe, newest first.
func (c *Client) List(ctx context.Context) ([]*recipe.Recipe, error) {
	var out []*recipe.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	var out recipe.Recipe
	if err := c.do(ctx, http.MethodGet, recipePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error) {
	var out recipe.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/recipes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error) {
	var out recipe.Recipe
	if err := c.do(ctx, http.MethodPut, recipePath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a recipe and returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, recipePath(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UploadImage stores an image and returns its absolute URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/images"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return c.ResolveURL(out.URL), nil
}
