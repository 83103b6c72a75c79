package config

import (
	"flag"
	"os"

	"github.com/mberzins/discnote/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   base URL of the review API
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "base URL of the review API")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
