package config

import (
	"encoding/json"
	"os"

	"github.com/mberzins/discnote/internal/flagx"
	"github.com/mberzins/discnote/internal/timex"
)

// jsonConfig mirrors Config for JSON unmarshalling. Duration fields use
// timex.Duration so files can say "24h" instead of nanosecond integers.
type jsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SpotifyClientID             *string         `json:"spotify_client_id"`
	SpotifyClientSecret         *string         `json:"spotify_client_secret"`
	SpotifyAccountsURL          *string         `json:"spotify_accounts_url"`
	SpotifyAPIURL               *string         `json:"spotify_api_url"`
	RedisAddr                   *string         `json:"redis_addr"`
	AlbumCacheTTL               *timex.Duration `json:"album_cache_ttl"`
}

// parseJson overlays values from the JSON file named by -c/-config onto the
// provided Config. Absent fields leave the current value in place. A file
// that cannot be read or parsed is a startup failure, so it panics.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SpotifyClientID != nil {
		config.SpotifyClientID = *c.SpotifyClientID
	}
	if c.SpotifyClientSecret != nil {
		config.SpotifyClientSecret = *c.SpotifyClientSecret
	}
	if c.SpotifyAccountsURL != nil {
		config.SpotifyAccountsURL = *c.SpotifyAccountsURL
	}
	if c.SpotifyAPIURL != nil {
		config.SpotifyAPIURL = *c.SpotifyAPIURL
	}
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.AlbumCacheTTL != nil {
		config.AlbumCacheTTL = c.AlbumCacheTTL.Duration
	}
}
