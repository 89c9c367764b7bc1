package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHistory(t *testing.T) {
	store := newTestStore(t)
	m := NewQueryMetricsWithConfig(store, QueryMetricsConfig{})

	now := time.Now()
	m.Record(QueryEvent{Query: "harry potter", Tier: TierIndexed, ResultCount: 4, Latency: 2 * time.Millisecond, Timestamp: now})
	m.Record(QueryEvent{Query: "harry potter", Tier: TierIndexed, ResultCount: 4, Latency: 3 * time.Millisecond, Timestamp: now})
	m.Record(QueryEvent{Query: "xyzzy", Tier: TierFuzzy, ResultCount: 0, Latency: 80 * time.Millisecond, Timestamp: now})
	require.NoError(t, m.Close())

	snap, err := LoadHistory(store, 7, 5, now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), snap.TotalQueries)
	assert.Equal(t, int64(2), snap.TierCounts[TierIndexed])
	assert.Equal(t, int64(1), snap.TierCounts[TierFuzzy])
	assert.Equal(t, int64(1), snap.ZeroResultCount)
	assert.Equal(t, int64(1), snap.ExactRepeatCount)
	assert.Equal(t, []string{"xyzzy"}, snap.ZeroResultQueries)
	assert.Equal(t, int64(2), snap.LatencyDistribution[BucketP10])
	assert.Equal(t, int64(1), snap.LatencyDistribution[BucketP100])
	require.NotEmpty(t, snap.TopTerms)
	assert.Equal(t, int64(2), snap.TopTerms[0].Count)
	assert.True(t, snap.Since.Before(now))
}

func TestLoadHistory_EmptyStore(t *testing.T) {
	snap, err := LoadHistory(newTestStore(t), 0, 0, time.Now())
	require.NoError(t, err)

	assert.Zero(t, snap.TotalQueries)
	assert.Empty(t, snap.TopTerms)
	assert.Zero(t, snap.ZeroResultPercentage())
}
