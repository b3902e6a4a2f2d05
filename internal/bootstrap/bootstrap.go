// Package bootstrap builds the runtime dependencies shared by the server and
// civicctl from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/ai"
	"github.com/civicresolve/backend/internal/config"
	"github.com/civicresolve/backend/internal/db"
	"github.com/civicresolve/backend/internal/geocode"
	"github.com/civicresolve/backend/internal/service"
)

const (
	defaultGroqURL        = "https://api.groq.com/openai/v1"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultAnthropicModel = "claude-sonnet-4-5"
)

// OpenStore connects to the configured backend and applies the schema.
func OpenStore(ctx context.Context, cfg config.Config) (service.Store, error) {
	var (
		store service.Store
		err   error
	)
	switch strings.ToLower(cfg.DBDriver) {
	case config.DriverPostgres, "":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		store, err = db.New(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		store, err = db.NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// Analyzer picks the analysis provider. Nil means fallback only.
func Analyzer(cfg config.Config, logger zerolog.Logger) ai.Analyzer {
	switch strings.ToLower(cfg.AIProvider) {
	case "http":
		if cfg.AIURL == "" {
			logger.Warn().Msg("AI_PROVIDER=http without AI_URL, using fallback analysis")
			return nil
		}
		return ai.HTTPAdapter{BaseURL: cfg.AIURL}
	case "openai", "groq":
		baseURL, model := cfg.AIURL, cfg.AIModel
		if baseURL == "" {
			baseURL = defaultGroqURL
		}
		if model == "" {
			model = defaultGroqModel
		}
		return ai.OpenAICompatAnalyzer{BaseURL: baseURL, Model: model, APIKey: cfg.AIAPIKey}
	case "anthropic":
		model := cfg.AIModel
		if model == "" {
			model = defaultAnthropicModel
		}
		return ai.AnthropicAnalyzer{APIKey: cfg.AIAPIKey, Model: model}
	case "":
		logger.Info().Msg("no AI provider configured, using fallback analysis")
		return nil
	default:
		logger.Warn().Str("provider", cfg.AIProvider).Msg("unknown AI provider, using fallback analysis")
		return nil
	}
}

func Geocoder(cfg config.Config) geocode.Geocoder {
	if !cfg.GeocodeEnabled {
		return nil
	}
	return &geocode.NominatimGeocoder{BaseURL: cfg.GeocoderURL}
}
