package config

import (
	"flag"
	"os"
	"time"

	"github.com/signdesk/signdesk/internal/flagx"
)

// parseFlags populates selected CLI Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server endpoint base URL (e.g., "http://127.0.0.1:8080")
//	-t int      request timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "server endpoint base URL")
	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
