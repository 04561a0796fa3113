// Command rawdump decodes a fixed-layout record from the start of a file
// and prints it as YAML.
//
//	rawdump -type elf64-header /bin/ls
//	RAWDUMP_ZSTD=true rawdump -type wav-header sample.wav.zst
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/rawtype"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "rawdump:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ParseArgs(args, stderr); err != nil {
		return err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	v, err := dump(cfg, log)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// dump opens cfg.Path and decodes one cfg.Type record from it.
func dump(cfg *Config, log *zap.Logger) (any, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = bufio.NewReader(f)
	if cfg.Zstd {
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}
	if cfg.Offset > 0 {
		skipped, err := io.CopyN(io.Discard, src, cfg.Offset)
		if err != nil {
			return nil, fmt.Errorf("skip %d bytes (skipped %d): %w", cfg.Offset, skipped, err)
		}
	}

	mode := rawtype.StreamReadFull
	if cfg.SingleRead {
		mode = rawtype.StreamSingleRead
	}
	dec := rawtype.NewDecoder(rawtype.Options{StreamMode: mode, Logger: log})

	rec := records[cfg.Type]
	size, err := rec.size()
	if err != nil {
		return nil, err
	}
	log.Debug("decoding record",
		zap.String("file", cfg.Path),
		zap.String("type", cfg.Type),
		zap.Int("size", size),
		zap.Int64("offset", cfg.Offset),
		zap.Stringer("mode", mode),
		zap.Bool("zstd", cfg.Zstd))

	v, err := rec.read(dec, src)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", cfg.Type, err)
	}
	log.Info("record decoded", zap.String("type", cfg.Type), zap.Int("size", size))
	return v, nil
}
