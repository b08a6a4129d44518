// Command soilcheck validates soil telemetry from the command line or over
// HTTP.
//
// Usage:
//
//	soilcheck check [-f file]   validate a reading batch (stdin by default)
//	soilcheck env NAME...       report which variables are set
//	soilcheck serve             run the HTTP API
//
// Configuration is read from SOILCHECK_* variables; see package config.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Gobd/soilcheck"
	"github.com/Gobd/soilcheck/config"
	"github.com/Gobd/soilcheck/internal/httpapi"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

const usage = `usage:
  soilcheck check [-f file]
  soilcheck env NAME...
  soilcheck serve
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log := cfg.Logger(stderr)
	v, err := cfg.Validator(log)
	if err != nil {
		log.Error("invalid configuration", "err", err)
		return exitUsage
	}
	soilcheck.SetDefaultValidator(v)

	switch args[0] {
	case "check":
		return runCheck(args[1:], stdin, stdout, stderr)
	case "env":
		return runEnv(v, args[1:], stdout, stderr)
	case "serve":
		return runServe(ctx, cfg, v, log)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return exitUsage
	}
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "read the batch from `file` instead of stdin")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	in := stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		defer f.Close()
		in = f
	}
	b, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if !soilcheck.ValidateAPIResponse(json.RawMessage(b), "field_name", "readings") {
		fmt.Fprintln(stdout, "invalid: input must be a JSON object with field_name and readings")
		return exitInvalid
	}

	var batch soilcheck.ReadingBatch
	if err := soilcheck.UnmarshalAndValidate(b, &batch); err != nil {
		fields := soilcheck.FieldErrors(err)
		if fields == nil {
			fmt.Fprintf(stdout, "invalid: %v\n", err)
			return exitInvalid
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(stdout, "%s: %s\n", k, fields[k])
		}
		return exitInvalid
	}

	fmt.Fprintf(stdout, "ok: %d readings for %q\n", len(batch.Readings), batch.FieldName)
	return exitOK
}

func runEnv(v *soilcheck.Validator, names []string, stdout, stderr io.Writer) int {
	if len(names) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}
	res := v.ValidateEnvironmentVariables(names)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if !res.IsValid {
		return exitInvalid
	}
	return exitOK
}

func runServe(ctx context.Context, cfg config.Config, v *soilcheck.Validator, log *slog.Logger) int {
	if res := v.ValidateEnvironmentVariables(cfg.RequiredEnv); !res.IsValid {
		if cfg.Production {
			log.Error("required environment variables are missing", "missing", res.Missing)
			return exitInvalid
		}
		log.Warn("required environment variables are missing; continuing outside production", "missing", res.Missing)
	}

	router, err := httpapi.NewRouter(httpapi.Options{
		Validator:      v,
		Logger:         log,
		AllowedDomains: cfg.AllowedDomains,
		RequiredEnv:    cfg.RequiredEnv,
	})
	if err != nil {
		log.Error("build router", "err", err)
		return exitInvalid
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		log.Error("server stopped", "err", err)
		return exitInvalid
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("shutdown", "err", err)
		return exitInvalid
	}
	log.Info("stopped")
	return exitOK
}
