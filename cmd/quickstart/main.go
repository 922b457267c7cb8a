package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-quickstart"
)

const shutdownTimeout = 10 * time.Second

var moduleBuilder = func(cfg quickstart.Config, base string) (*quickstart.Module, error) {
	return quickstart.New(cfg, quickstart.WithSourceFS(os.DirFS(base)))
}

// serveHTTP blocks serving handler on addr until ctx is done.
var serveHTTP = func(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("quickstart: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: quickstart <preview|sync|serve> [flags]")
	}
	switch args[0] {
	case "preview":
		return runPreview(ctx, args[1:], stdout)
	case "sync":
		return runSync(ctx, args[1:], stdout)
	case "serve":
		return runServe(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

type commonFlags struct {
	base         *string
	pathPrefix   *string
	repoURL      *string
	assetBaseURL *string
	logLevel     *string
	logFormat    *string
	recoverAll   *bool
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		base:         fs.String("base", ".", "Filesystem root that quickstart paths are relative to"),
		pathPrefix:   fs.String("path-prefix", "", "Prefix prepended to every loaded file path"),
		repoURL:      fs.String("repo-url", envOr("QUICKSTART_REPO_URL", quickstart.DefaultConfig().RepositoryURL), "Repository tree URL used to build pack URLs"),
		assetBaseURL: fs.String("asset-base-url", envOr("QUICKSTART_ASSET_BASE_URL", ""), "Base URL turning image paths into public URLs"),
		logLevel:     fs.String("log-level", "info", "Log level (trace, debug, info, warn, error)"),
		logFormat:    fs.String("log-format", "console", "Log output: console, or a go-logger format (json, pretty)"),
		recoverAll:   fs.Bool("recover", false, "Replace every unparsable file with placeholders instead of failing"),
	}
}

func (f commonFlags) config() quickstart.Config {
	cfg := quickstart.DefaultConfig()
	cfg.RepositoryURL = *f.repoURL
	cfg.Source.PathPrefix = *f.pathPrefix
	cfg.Source.AssetBaseURL = *f.assetBaseURL
	cfg.Logging.Level = *f.logLevel
	if *f.logFormat != "console" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = *f.logFormat
	}
	if *f.recoverAll {
		cfg.ParsePolicy = quickstart.ParsePolicy{
			quickstart.ParserConfigYAML:    quickstart.ActionRecover,
			quickstart.ParserDashboardJSON: quickstart.ActionRecover,
			quickstart.ParserAlertYAML:     quickstart.ActionRecover,
		}
	}
	cfg.Storage = quickstart.StorageConfig{}
	return cfg
}

func runPreview(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("quickstart-preview", flag.ContinueOnError)
	common := registerCommon(fs)
	dir := fs.String("dir", "", "Quickstart directory to preview, relative to -base")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("-dir is required")
	}

	module, err := moduleBuilder(common.config(), *common.base)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	record, err := module.IngestDirectory(ctx, *dir, false)
	if err != nil {
		return fmt.Errorf("preview %s: %w", *dir, err)
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}

func runSync(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("quickstart-sync", flag.ContinueOnError)
	common := registerCommon(fs)
	root := fs.String("root", "quickstarts", "Directory searched for quickstarts, relative to -base")
	storage := registerStorage(fs)
	dryRun := fs.Bool("dry-run", false, "Normalize every quickstart without writing the catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := common.config()
	if !*dryRun {
		if *storage.dsn == "" {
			return errors.New("-dsn is required unless -dry-run is set")
		}
		cfg.Storage = storage.config()
	}

	module, err := moduleBuilder(cfg, *common.base)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	report, err := module.Sync(ctx, *root, *dryRun)
	for _, failure := range report.Failures {
		fmt.Fprintf(stdout, "failed %s: %v\n", failure.Directory, failure.Err)
	}
	fmt.Fprintf(stdout, "discovered=%d stored=%d failed=%d\n", report.Discovered, report.Stored, len(report.Failures))
	return err
}

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("quickstart-serve", flag.ContinueOnError)
	common := registerCommon(fs)
	storage := registerStorage(fs)
	addr := fs.String("addr", envOr("QUICKSTART_ADDR", ":8080"), "Address the catalog API listens on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *storage.dsn == "" {
		return errors.New("-dsn is required")
	}

	cfg := common.config()
	cfg.Storage = storage.config()

	module, err := moduleBuilder(cfg, *common.base)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler, err := module.Handler()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "serving catalog on %s\n", *addr)
	return serveHTTP(ctx, *addr, handler)
}

type storageFlags struct {
	driver    *string
	dsn       *string
	cacheSize *int
}

func registerStorage(fs *flag.FlagSet) storageFlags {
	return storageFlags{
		driver:    fs.String("driver", envOr("QUICKSTART_DRIVER", "sqlite"), "Catalog driver (sqlite, postgres or pgx)"),
		dsn:       fs.String("dsn", envOr("QUICKSTART_DSN", ""), "Catalog data source name"),
		cacheSize: fs.Int("cache-size", quickstart.DefaultConfig().Storage.CacheSize, "Catalog read cache size, 0 disables it"),
	}
}

func (f storageFlags) config() quickstart.StorageConfig {
	return quickstart.StorageConfig{
		Driver:    *f.driver,
		DSN:       *f.dsn,
		CacheSize: *f.cacheSize,
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
