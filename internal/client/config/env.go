package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// after merging in a .env file when one exists in the working directory.
// Recognized keys:
//
//	SCRAWL_ENDPOINT          API root URL
//	SCRAWL_PROJECT           project id
//	SCRAWL_DATABASE          database id
//	SCRAWL_POSTS_COLLECTION  posts collection id
//	SCRAWL_USERS_COLLECTION  users collection id
//	SCRAWL_PAGE_LIMIT        feed page size (integer)
//	SCRAWL_TIMEOUT           request timeout (Go duration, e.g. "10s")
//	SCRAWL_SESSION_FILE      durable session path ("" keeps persistence off)
func parseEnv(cfg *Config) {
	// Absence of a .env file is the normal case.
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("SCRAWL_ENDPOINT"); ok {
		cfg.Endpoint = v
	}
	if v, ok := os.LookupEnv("SCRAWL_PROJECT"); ok {
		cfg.ProjectID = v
	}
	if v, ok := os.LookupEnv("SCRAWL_DATABASE"); ok {
		cfg.DatabaseID = v
	}
	if v, ok := os.LookupEnv("SCRAWL_POSTS_COLLECTION"); ok {
		cfg.PostsCollection = v
	}
	if v, ok := os.LookupEnv("SCRAWL_USERS_COLLECTION"); ok {
		cfg.UsersCollection = v
	}
	if v, ok := os.LookupEnv("SCRAWL_PAGE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageLimit = n
		}
	}
	if v, ok := os.LookupEnv("SCRAWL_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v, ok := os.LookupEnv("SCRAWL_SESSION_FILE"); ok {
		cfg.SessionFile = v
	}
}
