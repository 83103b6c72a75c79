package albums

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/server/models"
)

// bearerSlack refreshes the client-credentials token slightly before the
// advertised expiry so in-flight requests never carry a stale bearer.
const bearerSlack = 30 * time.Second

// SpotifyClient implements Gateway against the Spotify Web API using the
// client-credentials flow. The bearer token is cached until shortly before
// expiry; access is guarded by a mutex so the client is safe for concurrent
// use.
type SpotifyClient struct {
	httpClient   *http.Client
	accountsURL  string
	apiURL       string
	clientID     string
	clientSecret string

	mu           sync.Mutex
	bearer       string
	bearerExpiry time.Time
}

// NewSpotifyClient constructs a client. accountsURL and apiURL are
// overridable so tests can point at a local server.
func NewSpotifyClient(accountsURL, apiURL, clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		accountsURL:  strings.TrimSuffix(accountsURL, "/"),
		apiURL:       strings.TrimSuffix(apiURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type spotifyAlbum struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	Artists     []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// GetAlbum fetches one album's metadata. Unknown ids yield common.ErrNotFound.
func (c *SpotifyClient) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	bearer, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.apiURL + "/v1/albums/" + url.PathEscape(albumID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("album lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, common.ErrNotFound
	default:
		return nil, fmt.Errorf("album lookup: unexpected status %s", resp.Status)
	}

	var payload spotifyAlbum
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("album lookup: decode: %w", err)
	}

	album := &models.Album{
		ID:          albumID,
		Name:        payload.Name,
		ReleaseDate: payload.ReleaseDate,
		TotalTracks: payload.TotalTracks,
	}
	if len(payload.Artists) > 0 {
		album.Artist = payload.Artists[0].Name
	}
	if len(payload.Images) > 0 {
		album.CoverURL = payload.Images[0].URL
	}

	return album, nil
}

func (c *SpotifyClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearer != "" && time.Now().Before(c.bearerExpiry.Add(-bearerSlack)) {
		return c.bearer, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: unexpected status %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("token request: decode: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token request: empty access token")
	}

	c.bearer = payload.AccessToken
	c.bearerExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)

	return c.bearer, nil
}
