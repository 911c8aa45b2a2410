package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/scrawlapp/scrawl/internal/flagx"
	"github.com/scrawlapp/scrawl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config. Pointer fields distinguish "absent" from "zero" so a JSON
// file only overrides the keys it actually sets.
type JsonConfig struct {
	Endpoint        *string         `json:"endpoint"`
	ProjectID       *string         `json:"project_id"`
	DatabaseID      *string         `json:"database_id"`
	PostsCollection *string         `json:"posts_collection"`
	UsersCollection *string         `json:"users_collection"`
	PageLimit       *int            `json:"page_limit"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	SessionFile     *string         `json:"session_file"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is set, nothing is
// loaded. Read and unmarshal errors panic, matching the fail-fast behavior
// of flag parsing (config problems should stop startup).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Endpoint != nil {
		cfg.Endpoint = *jc.Endpoint
	}
	if jc.ProjectID != nil {
		cfg.ProjectID = *jc.ProjectID
	}
	if jc.DatabaseID != nil {
		cfg.DatabaseID = *jc.DatabaseID
	}
	if jc.PostsCollection != nil {
		cfg.PostsCollection = *jc.PostsCollection
	}
	if jc.UsersCollection != nil {
		cfg.UsersCollection = *jc.UsersCollection
	}
	if jc.PageLimit != nil {
		cfg.PageLimit = *jc.PageLimit
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
}
