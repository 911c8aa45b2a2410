package config

import "time"

// Config holds runtime settings for the Scrawl CLI.
//
// Fields:
//   - Endpoint: versioned API root of the hosted backend, e.g. "https://host/v1".
//   - ProjectID: platform project the client belongs to.
//   - DatabaseID, PostsCollection, UsersCollection: document store addressing.
//   - PageLimit: page size for the feed fetch.
//   - RequestTimeout: per-request bound for platform calls.
//   - SessionFile: path for the durable session secret; empty disables
//     persistence across restarts.
type Config struct {
	Endpoint        string
	ProjectID       string
	DatabaseID      string
	PostsCollection string
	UsersCollection string
	PageLimit       int
	RequestTimeout  time.Duration
	SessionFile     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Endpoint = "http://127.0.0.1:8080/v1"
	c.ProjectID = "scrawl"
	c.DatabaseID = "blog"
	c.PostsCollection = "posts"
	c.UsersCollection = "users"
	c.PageLimit = 20
	c.RequestTimeout = 12 * time.Second
	c.SessionFile = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file, if present), a JSON file
// (if given via -c/-config), and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
