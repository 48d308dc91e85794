package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productworker/config"
	"productworker/internal/render"
	"productworker/internal/scrape"
	"productworker/internal/siteconfig"
	"productworker/logger"
	"productworker/services/cache"
	"productworker/services/publisher"
	"productworker/services/task"
	"productworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	maxPages := flag.Int("max-pages", cfg.DefaultMaxPages, "pages to crawl per seed URL (0 uses the site profile's cap)")
	autoDetect := flag.Bool("auto-detect", false, "fall back to container auto-detection when selectors fail")
	flag.Parse()

	seeds := flag.Args()
	if len(seeds) == 0 {
		fmt.Fprintln(os.Stderr, "usage: productworker [flags] <seed-url> [<seed-url>...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("seeds", len(seeds)).
		Msg("Starting application")

	store := siteconfig.NewStore()
	if cfg.SiteConfigPath != "" {
		if err := store.LoadFile(cfg.SiteConfigPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.SiteConfigPath).Msg("Failed to load site configurations")
		}
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	engine := scrape.NewEngine(store, services.Renderer, scrape.Options{
		MaxWorkers:  cfg.MaxWorkers,
		PageDelay:   cfg.PageDelay,
		WaitTimeout: cfg.WaitTimeout,
	})

	runner := worker.NewRunner(engine, task.NewRegistry(), services.Publisher)

	req := scrape.ScrapeRequest{
		URLs:       seeds,
		MaxPages:   *maxPages,
		AutoDetect: *autoDetect,
	}

	id, result, err := runner.Run(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Str("task", id).Msg("Scrape failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to serialize result")
	}
	fmt.Println(string(out))

	log.Info().
		Str("task", id).
		Int("records", len(result.Records)).
		Bool("partial", result.Partial).
		Msg("Done")
}

// Services holds all the initialized services
type Services struct {
	Renderer  render.Renderer
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Renderer != nil {
		s.Renderer.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the cache, the rendering chain and the optional
// publisher from configuration.
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Cache backs per-host fetch blocking; memcache when configured,
	// otherwise in-process.
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
	}

	// Rendering: browser runtime when available, plain HTTP otherwise,
	// both behind an LRU snapshot cache.
	var base render.Renderer
	if cfg.ChromeDBAddr != "" {
		base = render.NewChromeDBRenderer(cfg.ChromeDBAddr, cfg.RenderWait, nil)
		logger.Info("Rendering via ChromeDB at %s", cfg.ChromeDBAddr)
	} else {
		base = render.NewHTTPRenderer(services.Cache, cfg.FetchBlockTime)
		logger.Info("Rendering via plain HTTP fetch")
	}

	cached, err := render.NewCachedRenderer(base, cfg.RenderCacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	services.Renderer = cached

	// Publisher is optional; without Redis the results only go to stdout.
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}
