package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"voicechef/internal/api"
	"voicechef/internal/config"
	"voicechef/internal/conversation"
	"voicechef/internal/database"
	"voicechef/internal/monitoring"
	"voicechef/internal/news"
	"voicechef/internal/recipes"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.MetricsConfig.Port = *metricsPort
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.Level())
	defer closeLog()
	slog.SetDefault(logger)
	if cfg.Level() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize recipes
	repo, closeRepo, err := initializeRecipes(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize recipes", "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	logger.Info("Recipes loaded", "source", cfg.Recipes.Source, "count", len(repo.All()))

	monitor := monitoring.NewMonitor(logger)

	// Initialize conversations
	ctrl := conversation.NewController(repo,
		conversation.WithLifetimes(conversation.Lifetimes{
			ChosenRecipe: cfg.Lifetimes.ChosenRecipe,
			Progress:     cfg.Lifetimes.Progress,
			Marker:       cfg.Lifetimes.Marker,
		}),
		conversation.WithBrand(cfg.Brand.Name, cfg.Brand.Link),
		conversation.WithLogger(logger.With("project", "recipes")),
		conversation.WithObserver(monitor),
	)
	newsAction := news.NewAction(
		news.NewScraper(cfg.News.URL, cfg.News.Timeout, cfg.News.UserAgent),
		logger.With("project", "ewn-news"),
	)
	projects := map[string]*conversation.Conversation{
		"ewn-news": conversation.NewConversation("ewn-news", newsAction.Routes(), []string{news.Welcome}, nil, logger),
		"recipes":  conversation.NewConversation("recipes", ctrl.Routes(), nil, nil, logger),
	}

	// Initialize API server
	apiServer := api.NewServer(projects,
		api.WithAuth(cfg.Auth.Secret),
		api.WithMonitor(monitor),
		api.WithLogger(logger),
	)
	if cfg.Auth.Secret == "" {
		logger.Warn("Webhook authentication disabled, set auth.secret to enable it")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: apiServer.Router,
	}

	// Start metrics server
	var metricsServer *http.Server
	if cfg.MetricsConfig.Enabled {
		metricsServer = newMetricsServer(cfg.MetricsConfig.Port, cfg.MetricsConfig.Path, monitor)
		go func() {
			logger.Info("Starting metrics server", "port", cfg.MetricsConfig.Port, "path", cfg.MetricsConfig.Path)
			if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown error", "error", err)
			}
		}

		cancel()
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

// initializeRecipes builds the recipe repository from the configured
// source. With the database source a configured recipe book file is
// imported first.
func initializeRecipes(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*recipes.Repository, func(), error) {
	noop := func() {}
	switch cfg.Recipes.Source {
	case config.SourceFile:
		repo, err := recipes.LoadFile(cfg.Recipes.File)
		return repo, noop, err

	case config.SourceDatabase:
		db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() { db.Close() }
		store := recipes.NewStore(db, logger)

		if cfg.Recipes.File != "" {
			book, err := recipes.LoadFile(cfg.Recipes.File)
			if err != nil {
				closeDB()
				return nil, noop, err
			}
			if err := store.Save(ctx, book.All()); err != nil {
				closeDB()
				return nil, noop, err
			}
			logger.Info("Imported recipe book", "file", cfg.Recipes.File)
		}

		repo, err := recipes.LoadRepository(ctx, store)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return repo, closeDB, nil

	default:
		return recipes.Default(), noop, nil
	}
}

func newMetricsServer(port int, path string, monitor *monitoring.Monitor) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(path, gin.WrapH(monitor.Collector().Handler()))
	metricsRouter.GET("/debug/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, monitor.GetMetrics())
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}
}
