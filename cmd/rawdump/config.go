package main

import (
	"flag"
	"fmt"
	"io"

	env "github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the rawdump settings. Environment variables carry the
// RAWDUMP_ prefix; command line flags override them.
type Config struct {
	Type       string `env:"TYPE"        envDefault:"point"`
	Offset     int64  `env:"OFFSET"      envDefault:"0"`
	Zstd       bool   `env:"ZSTD"`
	SingleRead bool   `env:"SINGLE_READ"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`
	Path       string
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "RAWDUMP_"}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseArgs applies command line flags on top of cfg.
func (c *Config) ParseArgs(args []string, output io.Writer) error {
	fs := flag.NewFlagSet("rawdump", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: rawdump [flags] FILE\n\nrecord types: %s\n\nflags:\n", recordNames())
		fs.PrintDefaults()
	}
	fs.StringVar(&c.Type, "type", c.Type, "record layout to decode")
	fs.Int64Var(&c.Offset, "offset", c.Offset, "bytes to skip before the record")
	fs.BoolVar(&c.Zstd, "zstd", c.Zstd, "input file is zstd compressed")
	fs.BoolVar(&c.SingleRead, "single-read", c.SingleRead, "issue a single Read instead of reading until full")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one input file, got %d", fs.NArg())
	}
	c.Path = fs.Arg(0)
	return c.Validate()
}

func (c *Config) Validate() error {
	if _, ok := records[c.Type]; !ok {
		return fmt.Errorf("unknown record type %q (have %s)", c.Type, recordNames())
	}
	if c.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", c.Offset)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// NewLogger builds a console logger writing to stderr at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}
