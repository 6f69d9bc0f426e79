package main

import (
	"context"
	"fmt"

	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/gdocs"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/gktoday"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/httpclient"
	mongoAdapter "github.com/ajambaliya/gktodaypostpdf/internal/adapter/mongo"
	redisAdapter "github.com/ajambaliya/gktodaypostpdf/internal/adapter/redis"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/render"
	s3Adapter "github.com/ajambaliya/gktodaypostpdf/internal/adapter/s3"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/telegram"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/translate"
	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
	"github.com/ajambaliya/gktodaypostpdf/internal/usecase"
)

// app holds a wired pipeline and the connections it owns.
type app struct {
	pipeline *usecase.Pipeline
	closers  []func(context.Context) error
}

func (a *app) Close(ctx context.Context, log logger.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn("failed to close resource", logger.Error(err))
		}
	}
}

// buildApp wires every adapter from cfg. With deliver false no Telegram
// sender is created and runs are dry runs that leave the seen-set untouched.
func buildApp(ctx context.Context, cfg *config.Config, log logger.Logger, deliver bool) (*app, error) {
	a := &app{}
	client := httpclient.NewClient(cfg.HTTP.Timeout)

	store, err := openStore(ctx, cfg.Store, a)
	if err != nil {
		a.Close(ctx, log)
		return nil, err
	}

	translator := translate.NewGoogleTranslator(client, translate.Options{
		Endpoint:    cfg.Translate.Endpoint,
		Target:      cfg.Translate.Target,
		MaxAttempts: cfg.Translate.MaxAttempts,
		Backoff:     cfg.Translate.Backoff,
		UserAgent:   cfg.HTTP.UserAgent,
	}, log.With(logger.String("component", "translator")))

	scraper := gktoday.NewGKTodayScraper(client, translator, cfg.Source, cfg.HTTP.UserAgent,
		log.With(logger.String("component", "scraper")))

	renderer, err := render.New(cfg.Render, log.With(logger.String("component", "renderer")))
	if err != nil {
		a.Close(ctx, log)
		return nil, err
	}

	var deliverer *usecase.Deliverer
	if deliver {
		if err := cfg.ValidateDelivery(); err != nil {
			a.Close(ctx, log)
			return nil, err
		}
		uploadClient := httpclient.NewClient(cfg.Delivery.Timeout)
		sender, err := telegram.NewSender(uploadClient, cfg.Delivery.BotToken, "", cfg.Delivery.ChannelID,
			log.With(logger.String("component", "telegram")))
		if err != nil {
			a.Close(ctx, log)
			return nil, err
		}
		deliverer = usecase.NewDeliverer(sender, cfg.Delivery.MaxAttempts, cfg.Delivery.Backoff, log)
	}

	var archiver repository.Archiver
	if cfg.Archive.Bucket != "" {
		arc, err := s3Adapter.NewArchiver(ctx, s3Adapter.Config{
			Bucket:       cfg.Archive.Bucket,
			Region:       cfg.Archive.Region,
			Prefix:       cfg.Archive.Prefix,
			UsePathStyle: cfg.Archive.UsePathStyle,
		})
		if err != nil {
			a.Close(ctx, log)
			return nil, err
		}
		archiver = arc
	}

	if !deliver {
		store = usecase.NewDryRunStore(store)
	}

	a.pipeline = usecase.NewPipeline(usecase.Deps{
		Scraper:   scraper,
		Gate:      usecase.NewDedupGate(store, log),
		Templates: gdocs.NewTemplateSource(client, cfg.Template.URL, cfg.HTTP.UserAgent),
		Assembler: usecase.NewAssembler(cfg.Template.StartMarker, cfg.Template.EndMarker),
		Renderer:  renderer,
		Deliverer: deliverer,
		Archiver:  archiver,
		Logger:    log,
	})
	return a, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, a *app) (repository.SeenStore, error) {
	switch cfg.Backend {
	case "mongo":
		client, err := mongoAdapter.NewClient(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		store := mongoAdapter.NewSeenStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := store.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := redisAdapter.NewSeenStore(ctx, redisAdapter.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStoreBackend, cfg.Backend)
	}
}
