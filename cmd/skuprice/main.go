package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/skuprice/backend/config"
	"github.com/skuprice/backend/internal/delivery/cli"
	httpDelivery "github.com/skuprice/backend/internal/delivery/http"
	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/cache"
	"github.com/skuprice/backend/internal/infrastructure/exito"
	"github.com/skuprice/backend/internal/infrastructure/jsonl"
	"github.com/skuprice/backend/internal/infrastructure/logging"
	"github.com/skuprice/backend/internal/infrastructure/postgres"
	"github.com/skuprice/backend/internal/infrastructure/vtex"
	"github.com/skuprice/backend/internal/infrastructure/webclient"
	"github.com/skuprice/backend/internal/usecase"
)

const usage = `Usage: skuprice [flags] [ask|serve|sync]

Commands:
  ask    read one question from stdin and print the answer (default)
  serve  start the HTTP API
  sync   dump a store catalog to Postgres or JSON lines on stdout

Flags:
`

func main() {
	flags := pflag.NewFlagSet("skuprice", pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "path to config file")
	syncStore := flags.StringP("store", "s", string(domain.StoreMetro), "store to sync")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	command := flags.Arg(0)
	if command == "" {
		command = "ask"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, *configFile, *syncStore); err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		// ask always exits 0, like the interactive prompt
		if command == "ask" {
			fmt.Println(usecase.UserMessage(err))
			return
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, command, configFile, syncStore string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	web := webclient.NewClient(webclient.Options{
		Timeout:             cfg.HTTP.Timeout,
		Retries:             cfg.HTTP.Retries,
		Backoff:             cfg.HTTP.Backoff,
		InsecureTLSFallback: cfg.HTTP.InsecureTLSFallback,
		RequestsPerSecond:   cfg.HTTP.RequestsPerSecond,
		UserAgent:           cfg.HTTP.UserAgent,
		Accept:              cfg.HTTP.Accept,
		AcceptLanguage:      cfg.HTTP.AcceptLanguage,
	})
	if cfg.HTTP.InsecureTLSFallback {
		log.Warn().Msg("TLS verification fallback enabled for upstream stores")
	}

	switch command {
	case "ask":
		return runAsk(ctx, cfg, web)
	case "serve":
		return runServe(ctx, cfg, web)
	case "sync":
		return runSync(ctx, cfg, web, domain.StoreID(syncStore))
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// newPriceService wires one lookup strategy per configured store
func newPriceService(cfg *config.Config, web *webclient.Client) (*usecase.PriceService, func() error, error) {
	stores := make([]usecase.Store, 0, len(cfg.Stores))
	for _, info := range cfg.StoreTable() {
		var detail domain.DetailClient
		if info.Kind == domain.StoreKindExito {
			detail = exito.NewClient(web, info.DetailBaseURL)
		}
		store, err := usecase.NewStore(info, vtex.NewClient(web, info.BaseURL), detail)
		if err != nil {
			return nil, nil, err
		}
		stores = append(stores, store)
	}

	responseCache, err := cache.New(cfg.Cache.Type, cfg.Cache.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing cache: %w", err)
	}

	closeCache := func() error { return nil }
	var repo domain.CacheRepository
	if responseCache != nil {
		repo = responseCache
		closeCache = responseCache.Close
		log.Info().Str("type", cfg.Cache.Type).Dur("ttl", cfg.Cache.TTL).Msg("response cache enabled")
	}

	svc := usecase.NewPriceService(stores, repo, usecase.PriceServiceConfig{CacheTTL: cfg.Cache.TTL})
	return svc, closeCache, nil
}

func runAsk(ctx context.Context, cfg *config.Config, web *webclient.Client) error {
	svc, closeCache, err := newPriceService(cfg, web)
	if err != nil {
		return err
	}
	defer closeCache()

	return cli.Run(ctx, os.Stdin, os.Stdout, svc)
}

func runServe(ctx context.Context, cfg *config.Config, web *webclient.Client) error {
	svc, closeCache, err := newPriceService(cfg, web)
	if err != nil {
		return err
	}
	defer closeCache()

	router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(svc))
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("environment", cfg.Server.Environment).
			Int("stores", len(cfg.Stores)).
			Msg("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runSync(ctx context.Context, cfg *config.Config, web *webclient.Client, storeID domain.StoreID) error {
	var info *domain.Store
	for _, s := range cfg.StoreTable() {
		if s.ID == storeID {
			info = &s
			break
		}
	}
	if info == nil {
		return fmt.Errorf("%w: %s", domain.ErrStoreNotFound, storeID)
	}

	var repo domain.SnapshotRepository
	if cfg.Database.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = db
	} else {
		repo = jsonl.NewWriter(os.Stdout)
	}

	sync := usecase.NewCatalogSync(info.ID, vtex.NewClient(web, info.BaseURL), repo, usecase.CatalogSyncConfig{
		PageSize: cfg.Sync.PageSize,
		Pause:    cfg.Sync.Pause,
		MaxPages: cfg.Sync.MaxPages,
	})

	report, err := sync.Run(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Str("store", string(report.Store)).
		Int("pages", report.Pages).
		Int("products", report.Unique).
		Int("saved", report.Saved).
		Msg("sync complete")
	return nil
}
