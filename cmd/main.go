package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/martinuiga/french-auctions-clauding/cmd/controllers"
	"github.com/martinuiga/french-auctions-clauding/internal/config"
	"github.com/martinuiga/french-auctions-clauding/internal/logging"
	"github.com/martinuiga/french-auctions-clauding/internal/metrics"
	"github.com/martinuiga/french-auctions-clauding/internal/parser"
	"github.com/martinuiga/french-auctions-clauding/internal/repo"
	"github.com/martinuiga/french-auctions-clauding/internal/scheduler"
	"github.com/martinuiga/french-auctions-clauding/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "eex-auctions",
		Usage: "collects EEX French Guarantees of Origin auction results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				Aliases: []string{"file"},
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "run a single scrape and exit",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enables debug logging, if set",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ctx.Bool("debug") {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	db, err := repo.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			logger.Error("close database", "reason", err)
		}
	}()

	if err := repo.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	app, err := newApplication(cfg, db, logger)
	if err != nil {
		return err
	}

	if ctx.Bool("once") {
		added, err := app.pipeline.Run(ctx.Context)
		if err != nil {
			return fmt.Errorf("scrape: %w", err)
		}
		logger.Info("scrape finished", "records_added", added)
		return nil
	}

	return app.serve(ctx.Context, cfg)
}

type application struct {
	db        *gorm.DB
	logger    *slog.Logger
	auctions  *services.AuctionService
	scrapeLog *services.ScrapeLogService
	pipeline  *services.PipelineService
	metrics   *metrics.Collector
}

func newApplication(cfg config.Config, db *gorm.DB, logger *slog.Logger) (*application, error) {
	auctionService, err := services.NewAuctionService(db)
	if err != nil {
		return nil, fmt.Errorf("create auction service: %w", err)
	}

	scrapeLogService, err := services.NewScrapeLogService(db)
	if err != nil {
		return nil, fmt.Errorf("create scrape log service: %w", err)
	}

	fetchService, err := services.NewFetchService(nil, services.FetchConfig{
		BaseURL:      cfg.EEX.BaseURL,
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout,
		RequestDelay: cfg.HTTP.RequestDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("create fetch service: %w", err)
	}

	workbookParser, err := parser.NewWorkbookParser(logger)
	if err != nil {
		return nil, fmt.Errorf("create workbook parser: %w", err)
	}

	collector := metrics.New()

	pipelineService, err := services.NewPipelineService(
		auctionService,
		scrapeLogService,
		fetchService,
		workbookParser,
		collector,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("create pipeline service: %w", err)
	}

	return &application{
		db:        db,
		logger:    logger,
		auctions:  auctionService,
		scrapeLog: scrapeLogService,
		pipeline:  pipelineService,
		metrics:   collector,
	}, nil
}

// serve runs the scheduler and the HTTP API until SIGINT or SIGTERM.
func (a *application) serve(parent context.Context, cfg config.Config) error {
	location, err := cfg.Scrape.Location()
	if err != nil {
		return err
	}

	sched, err := scheduler.New(a.pipeline, cfg.Scrape.CronSpec(), location, a.logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	router, err := a.router(sched)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	sched.Start(ctx)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("run server: %w", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown http server", "reason", err)
	}
	sched.Stop()

	return runErr
}

func (a *application) router(sched *scheduler.Scheduler) (*gin.Engine, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	auctionsController, err := controllers.NewAuctionsController(a.auctions)
	if err != nil {
		return nil, fmt.Errorf("create auctions controller: %w", err)
	}

	filesController, err := controllers.NewFilesController(a.auctions)
	if err != nil {
		return nil, fmt.Errorf("create files controller: %w", err)
	}

	runsController, err := controllers.NewRunsController(a.scrapeLog)
	if err != nil {
		return nil, fmt.Errorf("create runs controller: %w", err)
	}

	refreshController, err := controllers.NewRefreshController(sched)
	if err != nil {
		return nil, fmt.Errorf("create refresh controller: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if err := controllers.RegisterHealthRoutes(router, sqlDB); err != nil {
		return nil, fmt.Errorf("register health routes: %w", err)
	}
	if err := controllers.RegisterMetricsRoutes(router, a.metrics.Handler()); err != nil {
		return nil, fmt.Errorf("register metrics routes: %w", err)
	}
	if err := auctionsController.RegisterRoutes(router); err != nil {
		return nil, fmt.Errorf("register auctions routes: %w", err)
	}
	if err := filesController.RegisterRoutes(router); err != nil {
		return nil, fmt.Errorf("register files routes: %w", err)
	}
	if err := runsController.RegisterRoutes(router); err != nil {
		return nil, fmt.Errorf("register runs routes: %w", err)
	}
	if err := refreshController.RegisterRoutes(router); err != nil {
		return nil, fmt.Errorf("register refresh routes: %w", err)
	}

	return router, nil
}
