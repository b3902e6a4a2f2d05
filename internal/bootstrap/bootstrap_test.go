package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/ai"
	"github.com/civicresolve/backend/internal/config"
)

func TestOpenStoreSQLite(t *testing.T) {
	cfg := config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "civic.db")}
	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStoreRejectsBadConfig(t *testing.T) {
	_, err := OpenStore(context.Background(), config.Config{DBDriver: "mongo"})
	assert.Error(t, err)
	_, err = OpenStore(context.Background(), config.Config{DBDriver: config.DriverPostgres})
	assert.Error(t, err)
}

func TestAnalyzerSelection(t *testing.T) {
	log := zerolog.Nop()
	assert.Nil(t, Analyzer(config.Config{}, log))
	assert.Nil(t, Analyzer(config.Config{AIProvider: "http"}, log))
	assert.IsType(t, ai.HTTPAdapter{}, Analyzer(config.Config{AIProvider: "http", AIURL: "http://ai"}, log))
	assert.IsType(t, ai.OpenAICompatAnalyzer{}, Analyzer(config.Config{AIProvider: "openai"}, log))
	assert.IsType(t, ai.AnthropicAnalyzer{}, Analyzer(config.Config{AIProvider: "anthropic"}, log))
}

func TestGeocoderDisabledByDefault(t *testing.T) {
	assert.Nil(t, Geocoder(config.Config{}))
	assert.NotNil(t, Geocoder(config.Config{GeocodeEnabled: true}))
}
