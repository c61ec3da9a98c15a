// Command bufferpipe reads the files matching a pattern, buffers them whole
// through a named transform and writes the result to stdout.
//
// Usage:
//
//	bufferpipe [flags]
//
// Flags:
//
//	-config string     Path to a TOML config file
//	-root string       Directory to search (default ".")
//	-pattern string    Doublestar pattern selecting files (default "**/*")
//	-transform string  Transform name (default "identity")
//	-mode string       binary or items (default "binary")
//	-strict            Fail on errors arriving after the transform completed
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jacoelho/bufferstream"
	"github.com/jacoelho/bufferstream/internal/logging"
	"github.com/jacoelho/bufferstream/internal/source"
	"github.com/jacoelho/bufferstream/internal/transform"
)

func main() {
	if err := cli(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bufferpipe: %v\n", err)
		os.Exit(1)
	}
}

func cli(args []string) error {
	fs := flag.NewFlagSet("bufferpipe", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to a TOML config file")
		root       = fs.String("root", "", "Directory to search")
		pattern    = fs.String("pattern", "", "Doublestar pattern selecting files")
		name       = fs.String("transform", "", "Transform name")
		mode       = fs.String("mode", "", "binary or items")
		strict     = fs.Bool("strict", false, "Fail on errors arriving after the transform completed")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			cfg.Root = *root
		case "pattern":
			cfg.Pattern = *pattern
		case "transform":
			cfg.Transform = *name
		case "mode":
			cfg.Mode, flagErr = parseMode(*mode)
		case "strict":
			cfg.Strict = *strict
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := logging.New(os.Stderr, "bufferpipe", logging.Config{Level: cfg.LogLevel})
	return run(ctx, cfg, os.Stdout, logger)
}

func run(ctx context.Context, cfg config, out io.Writer, logger zerolog.Logger) error {
	fsys := os.DirFS(cfg.Root)
	paths, err := source.Match(fsys, cfg.Pattern)
	if err != nil {
		return err
	}
	logger.Info().Str("root", cfg.Root).Str("pattern", cfg.Pattern).Int("files", len(paths)).Msg("files selected")

	opts := []bufferstream.Option{
		bufferstream.WithLogger(logger),
		bufferstream.WithContext(ctx),
	}
	if cfg.Strict {
		opts = append(opts, bufferstream.WithStrictErrors())
	}

	if cfg.Mode == bufferstream.Items {
		return runItems(fsys, cfg, paths, out, opts)
	}
	return runBinary(fsys, cfg, paths, out, opts)
}

func runBinary(fsys iofs.FS, cfg config, paths []string, out io.Writer, opts []bufferstream.Option) error {
	fn, err := transform.Bytes(cfg.Transform)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(transform.Names(bufferstream.Binary), ", "))
	}
	s, err := bufferstream.New(fn, opts...)
	if err != nil {
		return err
	}
	go func() {
		if err := source.Bytes(fsys, paths, []byte(cfg.Separator), s); err != nil {
			s.CloseWithError(err)
			return
		}
		s.Close()
	}()
	if _, err := s.WriteTo(out); err != nil {
		s.CloseRead(err)
		return err
	}
	return nil
}

func runItems(fsys iofs.FS, cfg config, paths []string, out io.Writer, opts []bufferstream.Option) error {
	fn, err := transform.Files(cfg.Transform)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(transform.Names(bufferstream.Items), ", "))
	}
	s, err := bufferstream.NewItems[source.File](fn, opts...)
	if err != nil {
		return err
	}
	go func() {
		if err := source.Files(fsys, paths, s); err != nil {
			s.CloseWithError(err)
			return
		}
		s.Close()
	}()
	for f, err := range s.All() {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "==> %s <==\n%s%s", f.Path, f.Data, cfg.Separator); err != nil {
			s.CloseRead(err)
			return err
		}
	}
	return nil
}
