package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/gktoday"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/httpclient"
	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/translate"
	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

// passthrough leaves text untranslated.
type passthrough struct{}

func (passthrough) Translate(_ context.Context, text string) string { return text }

func main() {
	_ = godotenv.Load()

	cfg := config.Default()
	if v := os.Getenv("TARGET_LANGUAGE"); v != "" {
		cfg.Translate.Target = v
	}
	var noTranslate, verbose bool

	cmd := &cobra.Command{
		Use:          "scraper-cli <article-url>",
		Short:        "Extract one GKToday article and print its bilingual entries",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewNop()
			if verbose {
				log = logger.Must(logger.Config{Level: "debug", Development: true})
			}

			client := httpclient.NewClient(10 * time.Second)
			var translator repository.Translator = passthrough{}
			if !noTranslate {
				translator = translate.NewGoogleTranslator(client, translate.Options{
					Endpoint:    cfg.Translate.Endpoint,
					Target:      cfg.Translate.Target,
					MaxAttempts: cfg.Translate.MaxAttempts,
					Backoff:     cfg.Translate.Backoff,
				}, log)
			}
			scraper := gktoday.NewGKTodayScraper(client, translator, cfg.Source, cfg.HTTP.UserAgent, log)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			list, err := scraper.Extract(ctx, args[0])
			if err != nil {
				return err
			}

			entries := list.Entries()
			if len(entries) == 0 {
				fmt.Println("No content extracted.")
				return nil
			}
			for _, e := range entries {
				marker := " "
				if e.Translated {
					marker = "*"
				}
				fmt.Printf("%s [%-11s] %s\n", marker, e.Kind, e.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Translate.Target, "lang", cfg.Translate.Target, "target language code")
	cmd.Flags().BoolVar(&noTranslate, "no-translate", false, "skip translation")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
