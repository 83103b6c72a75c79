package config

import (
	"encoding/json"
	"os"

	"github.com/mberzins/discnote/internal/flagx"
	"github.com/mberzins/discnote/internal/timex"
)

// jsonConfig mirrors Config for JSON unmarshalling.
type jsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config onto the
// provided Config. Absent fields leave the current value in place.
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

	if c.ServerURL != nil {
		config.ServerURL = *c.ServerURL
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}
