// Package api is a thin HTTP client for the discnote review service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// Review mirrors the server's review payload.
type Review struct {
	ID            string    `json:"id"`
	AlbumID       string    `json:"albumId"`
	Username      string    `json:"username"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Score         int       `json:"score"`
	Likes         int64     `json:"likes"`
	PublishedDate time.Time `json:"publishedDate"`
	Album         *Album    `json:"album,omitempty"`
}

// Album mirrors the server's album metadata payload.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	TotalTracks int    `json:"totalTracks,omitempty"`
}

// ReviewPage mirrors one page of a server listing.
type ReviewPage struct {
	Content       []Review `json:"content"`
	PageNo        int      `json:"pageNo"`
	PageSize      int      `json:"pageSize"`
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	Last          bool     `json:"last"`
	Partial       bool     `json:"partial,omitempty"`
}

// ReviewInput carries the fields for creating or updating a review. For
// updates, zero-valued fields are sent as-is; the server treats an absent
// or zero score as "no change".
type ReviewInput struct {
	AlbumID string `json:"albumId,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Score   int    `json:"score,omitempty"`
}

// Client talks to the review API. It remembers the bearer token issued by
// Login and attaches it to subsequent mutating requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LoggedIn reports whether a bearer token is held.
func (c *Client) LoggedIn() bool { return c.token != "" }

// Logout discards the held bearer token.
func (c *Client) Logout() { c.token = "" }

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, nil)
}

// Login authenticates and stores the issued token on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &resp); err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

func (c *Client) CreateReview(ctx context.Context, input ReviewInput) (*Review, error) {
	var review Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, input ReviewInput) (*Review, error) {
	var review Review
	if err := c.do(ctx, http.MethodPut, "/api/reviews/"+id, input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reviews/"+id, nil, nil)
}

func (c *Client) GetReview(ctx context.Context, id string) (*Review, error) {
	var review Review
	if err := c.do(ctx, http.MethodGet, "/api/reviews/"+id, nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) ListByAlbum(ctx context.Context, albumID string, pageNo, pageSize int) (*ReviewPage, error) {
	path := fmt.Sprintf("/api/reviews/album/%s?pageNo=%d&pageSize=%d", albumID, pageNo, pageSize)
	var page ReviewPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) ListByUsername(ctx context.Context, username string, pageNo, pageSize int) (*ReviewPage, error) {
	path := fmt.Sprintf("/api/reviews/user/%s?pageNo=%d&pageSize=%d", username, pageNo, pageSize)
	var page ReviewPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
