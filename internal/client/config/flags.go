package config

import (
	"flag"
	"os"

	"github.com/scrawlapp/scrawl/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API root URL of the backend (default from Config)
//	-p string   project id
//	-l int      feed page size
//	-s string   durable session file path
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-l", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Endpoint, "a", cfg.Endpoint, "API root URL of the backend")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.IntVar(&cfg.PageLimit, "l", cfg.PageLimit, "feed page size")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "durable session file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
