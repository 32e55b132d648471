package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/cloudshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     backend API base URL
//	-u string     upload base URL
//	-t duration   request timeout
//	-d string     session database path
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// stages do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.UploadBaseURL, "u", cfg.UploadBaseURL, "upload base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
