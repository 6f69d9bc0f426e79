package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/handler/httpapi"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

var version = "dev"

// runTimeout bounds a run triggered over HTTP.
const runTimeout = 30 * time.Minute

type runOptions struct {
	dryRun bool
	outDir string
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	opts := &runOptions{}

	root := &cobra.Command{
		Use:           "gktodaypostpdf",
		Short:         "Bilingual GKToday current affairs digest",
		Long:          `Scrapes new GKToday current affairs articles, translates them, assembles a DOCX from a template, renders it to PDF and posts it to Telegram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cfgFile, opts)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cfgFile, opts)
		},
	}
	run.Flags().BoolVar(&opts.dryRun, "dry-run", false, "write the PDF locally instead of sending it; the seen-set is not updated")
	run.Flags().StringVar(&opts.outDir, "out", ".", "output directory for --dry-run")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveAPI(cmd.Context(), cfgFile)
		},
	}

	root.AddCommand(run, serve, &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gktodaypostpdf version %s\n", version)
		},
	})
	return root
}

func setup(cfgFile string) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Logging.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return nil, nil, err
	}
	return cfg, log, nil
}

func runPipeline(parent context.Context, cfgFile string, opts *runOptions) error {
	cfg, log, err := setup(cfgFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting run", logger.String("config", cfg.String()), logger.Bool("dry_run", opts.dryRun))

	a, err := buildApp(ctx, cfg, log, !opts.dryRun)
	if err != nil {
		log.Error("failed to initialize", logger.Error(err))
		return err
	}
	defer a.Close(context.Background(), log)

	res, err := a.pipeline.Run(ctx)
	if err != nil {
		log.Error("run failed", logger.Error(err))
		return err
	}

	if opts.dryRun && res.PDF != nil {
		path := filepath.Join(opts.outDir, res.FileName)
		if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
			log.Error("failed to write pdf", logger.String("path", path), logger.Error(err))
			return err
		}
		log.Info("pdf written", logger.String("path", path))
	}
	return nil
}

func serveAPI(parent context.Context, cfgFile string) error {
	cfg, log, err := setup(cfgFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log, true)
	if err != nil {
		log.Error("failed to initialize", logger.Error(err))
		return err
	}
	defer a.Close(context.Background(), log)

	handler := httpapi.NewRunHandler(a.pipeline, runTimeout, log.With(logger.String("component", "httpapi")))
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("trigger api listening", logger.String("addr", cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", logger.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down trigger api")
	return srv.Shutdown(shutdownCtx)
}
