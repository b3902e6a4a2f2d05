package voteguard

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFormat(t *testing.T) {
	assert.Equal(t, "vote:c1:v1", key("c1", "v1"))
}

func TestRedisGuardClaimOnce(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	g, err := New(ctx, url, time.Minute)
	require.NoError(t, err)
	defer g.Close()

	complaint := uuid.NewString()
	ok, err := g.Claim(ctx, complaint, "voter")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, complaint, "voter")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, complaint, "voter"))
	ok, err = g.Claim(ctx, complaint, "voter")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, g.Release(ctx, complaint, "voter"))
}
