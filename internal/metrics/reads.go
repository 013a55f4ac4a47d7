package metrics

import (
	"time"

	"tasklist/backend/internal/models"
)

// Reader is the read-side façade over the counter store. It translates raw
// counter reads into response shapes and treats absent keys as zero.
type Reader struct {
	counters *CounterStore
}

func NewReader(counters *CounterStore) *Reader {
	return &Reader{counters: counters}
}

type TagCount struct {
	Tag   string  `json:"tag"`
	Count float64 `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AverageCompletion carries the derived mean. HasData distinguishes "no
// completed tasks yet" from a genuine zero-second average.
type AverageCompletion struct {
	AverageSeconds float64 `json:"average_seconds"`
	CompletedCount int64   `json:"completed_count"`
	HasData        bool    `json:"has_data"`
}

// WeeklyRate reports completed/created over a trailing 7-day window, today
// inclusive. HasData is false when nothing was created in the window.
type WeeklyRate struct {
	Created   int64   `json:"created"`
	Completed int64   `json:"completed"`
	Rate      float64 `json:"rate"`
	HasData   bool    `json:"has_data"`
}

// StatusBreakdown returns the live counts for all three statuses, zero for
// counters that were never written.
func (r *Reader) StatusBreakdown(userID string) (map[string]int64, error) {
	breakdown := make(map[string]int64, len(models.Statuses))
	for _, status := range models.Statuses {
		count, err := r.counters.GetInt(statusKey(userID, status))
		if err != nil {
			return nil, err
		}
		breakdown[status] = count
	}
	return breakdown, nil
}

func (r *Reader) CreatedToday(userID string) (int64, error) {
	return r.counters.GetInt(createdKey(userID, time.Now().UTC()))
}

// TopTags returns the n highest-scoring tags, descending. Tie order is
// whatever the counter store returns.
func (r *Reader) TopTags(userID string, n int) ([]TagCount, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := r.counters.ZRevRange(tagsKey(userID), 0, int64(n-1))
	if err != nil {
		return nil, err
	}
	tags := make([]TagCount, 0, len(members))
	for _, member := range members {
		name, _ := member.Member.(string)
		tags = append(tags, TagCount{Tag: name, Count: member.Score})
	}
	return tags, nil
}

// CompletedByDay returns the completed-task counts for the trailing `days`
// calendar days, oldest first, today inclusive.
func (r *Reader) CompletedByDay(userID string, days int) ([]DayCount, error) {
	if days <= 0 {
		return nil, nil
	}
	today := time.Now().UTC()
	series := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		count, err := r.counters.GetInt(completedKey(userID, day))
		if err != nil {
			return nil, err
		}
		series = append(series, DayCount{Day: day.Format(dayFormat), Count: count})
	}
	return series, nil
}

func (r *Reader) AverageCompletionTime(userID string) (AverageCompletion, error) {
	count, err := r.counters.GetInt(completedCountKey(userID))
	if err != nil {
		return AverageCompletion{}, err
	}
	if count <= 0 {
		return AverageCompletion{}, nil
	}
	sum, err := r.counters.GetFloat(completionSumKey(userID))
	if err != nil {
		return AverageCompletion{}, err
	}
	return AverageCompletion{
		AverageSeconds: sum / float64(count),
		CompletedCount: count,
		HasData:        true,
	}, nil
}

func (r *Reader) WeeklyCompletionRate(userID string) (WeeklyRate, error) {
	today := time.Now().UTC()
	var rate WeeklyRate
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, -i)
		created, err := r.counters.GetInt(createdKey(userID, day))
		if err != nil {
			return WeeklyRate{}, err
		}
		completed, err := r.counters.GetInt(completedKey(userID, day))
		if err != nil {
			return WeeklyRate{}, err
		}
		rate.Created += created
		rate.Completed += completed
	}
	if rate.Created == 0 {
		return rate, nil
	}
	rate.Rate = float64(rate.Completed) / float64(rate.Created)
	rate.HasData = true
	return rate, nil
}
