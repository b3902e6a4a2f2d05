package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/models"
)

type recorder struct {
	got []models.Contractor
}

func (r *recorder) UpsertContractor(_ context.Context, c models.Contractor) error {
	r.got = append(r.got, c)
	return nil
}

func TestLoadBundledSeed(t *testing.T) {
	d, err := Load(filepath.Join("..", "..", "seed", "seed.yaml"))
	require.NoError(t, err)
	require.Len(t, d.RoadProjects, 8)
	assert.Equal(t, "R001", d.RoadProjects[0].ID)
	assert.Equal(t, "2025-03-01", d.RoadProjects[0].StartDate)
	assert.Equal(t, 65, d.RoadProjects[0].Progress)
	assert.NotEmpty(t, d.Contractors)
}

func TestLoadMissingFile(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, d.Contractors)
	assert.Empty(t, d.RoadProjects)
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("contractors:\n  - {id: C1, name: A}\n  - {id: C1, name: B}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("contractors:\n  - {id: C1}\n"))
	assert.Error(t, err)
}

func TestApplyContractors(t *testing.T) {
	d, err := Parse([]byte("contractors:\n  - {id: C1, name: A, quality_rating: 4.5}\n"))
	require.NoError(t, err)
	r := &recorder{}
	n, err := ApplyContractors(context.Background(), r, d)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4.5, r.got[0].QualityRating)
}
