// ABOUTME: Tests for sample export and import.
// ABOUTME: Covers JSON round trip into a fresh store and YAML grouping.
package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportJSON(t *testing.T) {
	src := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, src.SaveSamples(ctx, []*models.Sample{
		sampleAt(models.MetricSteps, 1200, testDay.Add(10*time.Hour)),
		sampleAt(models.MetricSleepDuration, 27000, testDay.Add(7*time.Hour)),
	}))

	data, err := Export(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "vitals", data.Tool)
	assert.Len(t, data.Samples, 2)

	raw, err := data.JSON()
	require.NoError(t, err)

	parsed, err := ParseJSON(raw)
	require.NoError(t, err)

	dst, err := Open(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	defer dst.Close()

	require.NoError(t, Import(ctx, dst, parsed))

	sum, err := dst.Aggregate(ctx, models.MetricSteps, testDay, testDay.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1200.0, sum)
}

func TestExportYAMLGroupsByType(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SaveSamples(ctx, []*models.Sample{
		sampleAt(models.MetricHRV, 44, testDay),
		sampleAt(models.MetricHRV, 46, testDay.Add(time.Hour)),
	}))

	data, err := Export(ctx, db)
	require.NoError(t, err)
	out, err := data.YAML()
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.Contains(s, "hrv:"), "expected hrv group in %s", s)
	assert.Contains(t, s, "tool: vitals")
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}
