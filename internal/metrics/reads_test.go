package metrics

import (
	"testing"
	"time"

	"tasklist/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestReader(t *testing.T) (*Reader, *CounterStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	counters := NewCounterStoreFromClient(client)
	return NewReader(counters), counters
}

func TestStatusBreakdown_AbsentCountersReadZero(t *testing.T) {
	reader, counters := setupTestReader(t)

	require.NoError(t, counters.Incr(statusKey("u1", models.StatusPending)))
	require.NoError(t, counters.Incr(statusKey("u1", models.StatusPending)))

	breakdown, err := reader.StatusBreakdown("u1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), breakdown[models.StatusPending])
	assert.Equal(t, int64(0), breakdown[models.StatusInProgress])
	assert.Equal(t, int64(0), breakdown[models.StatusCompleted])
}

func TestTopTags_DescendingAndBounded(t *testing.T) {
	reader, counters := setupTestReader(t)

	set := tagsKey("u1")
	require.NoError(t, counters.ZIncrBy(set, 5, "work"))
	require.NoError(t, counters.ZIncrBy(set, 3, "home"))
	require.NoError(t, counters.ZIncrBy(set, 1, "errand"))

	tags, err := reader.TopTags("u1", 2)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, "work", tags[0].Tag)
	assert.Equal(t, float64(5), tags[0].Count)
	assert.Equal(t, "home", tags[1].Tag)
}

func TestAverageCompletionTime_NoData(t *testing.T) {
	reader, _ := setupTestReader(t)

	average, err := reader.AverageCompletionTime("u1")
	require.NoError(t, err)

	assert.False(t, average.HasData)
	assert.Zero(t, average.AverageSeconds)
}

func TestAverageCompletionTime_Mean(t *testing.T) {
	reader, counters := setupTestReader(t)

	require.NoError(t, counters.IncrByFloat(completionSumKey("u1"), 30))
	require.NoError(t, counters.IncrByFloat(completionSumKey("u1"), 90))
	require.NoError(t, counters.Incr(completedCountKey("u1")))
	require.NoError(t, counters.Incr(completedCountKey("u1")))

	average, err := reader.AverageCompletionTime("u1")
	require.NoError(t, err)

	assert.True(t, average.HasData)
	assert.Equal(t, int64(2), average.CompletedCount)
	assert.InDelta(t, 60.0, average.AverageSeconds, 0.001)
}

func TestWeeklyCompletionRate_NoData(t *testing.T) {
	reader, _ := setupTestReader(t)

	rate, err := reader.WeeklyCompletionRate("u1")
	require.NoError(t, err)

	assert.False(t, rate.HasData)
	assert.Zero(t, rate.Rate)
}

func TestWeeklyCompletionRate_TrailingWindow(t *testing.T) {
	reader, counters := setupTestReader(t)

	today := time.Now().UTC()
	require.NoError(t, counters.Incr(createdKey("u1", today)))
	require.NoError(t, counters.Incr(createdKey("u1", today.AddDate(0, 0, -3))))
	require.NoError(t, counters.Incr(createdKey("u1", today.AddDate(0, 0, -6))))
	require.NoError(t, counters.Incr(completedKey("u1", today.AddDate(0, 0, -1))))

	// Outside the window, must not count.
	require.NoError(t, counters.Incr(createdKey("u1", today.AddDate(0, 0, -7))))

	rate, err := reader.WeeklyCompletionRate("u1")
	require.NoError(t, err)

	assert.True(t, rate.HasData)
	assert.Equal(t, int64(3), rate.Created)
	assert.Equal(t, int64(1), rate.Completed)
	assert.InDelta(t, 1.0/3.0, rate.Rate, 0.001)
}

func TestCompletedByDay_OldestFirst(t *testing.T) {
	reader, counters := setupTestReader(t)

	today := time.Now().UTC()
	require.NoError(t, counters.Incr(completedKey("u1", today)))
	require.NoError(t, counters.Incr(completedKey("u1", today.AddDate(0, 0, -2))))

	series, err := reader.CompletedByDay("u1", 3)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, today.AddDate(0, 0, -2).Format(dayFormat), series[0].Day)
	assert.Equal(t, int64(1), series[0].Count)
	assert.Equal(t, int64(0), series[1].Count)
	assert.Equal(t, today.Format(dayFormat), series[2].Day)
	assert.Equal(t, int64(1), series[2].Count)
}

func TestCreatedToday(t *testing.T) {
	reader, counters := setupTestReader(t)

	require.NoError(t, counters.Incr(createdKey("u1", time.Now().UTC())))

	count, err := reader.CreatedToday("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
