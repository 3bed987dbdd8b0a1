package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory
//	-r string   remote vault store kind
//	-l string   log level
//	-i int      code refresh interval in seconds
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (like -c) do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-r", "-l", "-i"})

	fs := flag.NewFlagSet("otpkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.RemoteKind, "r", cfg.RemoteKind, "remote vault store: none, s3, mongo, postgres")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	refresh := fs.Int("i", int(cfg.RefreshInterval.Seconds()), "code refresh interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.RefreshInterval = time.Duration(*refresh) * time.Second
		}
	})
	return nil
}
