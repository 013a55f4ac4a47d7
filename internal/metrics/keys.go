package metrics

import (
	"fmt"
	"time"
)

// Counter key convention, v1. These strings are a contract between the
// update engine and the counter store; changing them invalidates every
// counter until the next recompute.
//
//	user:<user_id>:tasks:status:<status>        live task count per status
//	user:<user_id>:tasks:created_today:<date>   tasks created on <date>
//	user:<user_id>:tasks:completed:<date>       tasks completed on <date>
//	user:<user_id>:tags:top                     zset: tag -> live task count
//	user:<user_id>:stats:completion_time_sum    running latency sum, seconds
//	user:<user_id>:stats:completed_count        running completed count
//
// Dates are UTC YYYY-MM-DD.
const dayFormat = "2006-01-02"

func statusKey(userID, status string) string {
	return fmt.Sprintf("user:%s:tasks:status:%s", userID, status)
}

func createdKey(userID string, day time.Time) string {
	return fmt.Sprintf("user:%s:tasks:created_today:%s", userID, day.UTC().Format(dayFormat))
}

func completedKey(userID string, day time.Time) string {
	return fmt.Sprintf("user:%s:tasks:completed:%s", userID, day.UTC().Format(dayFormat))
}

func tagsKey(userID string) string {
	return fmt.Sprintf("user:%s:tags:top", userID)
}

func completionSumKey(userID string) string {
	return fmt.Sprintf("user:%s:stats:completion_time_sum", userID)
}

func completedCountKey(userID string) string {
	return fmt.Sprintf("user:%s:stats:completed_count", userID)
}

// resetPatterns matches every key the engine ever writes, for the
// delete-everything phase of a recompute.
var resetPatterns = []string{
	"user:*:tasks:*",
	"user:*:stats:*",
	"user:*:tags:top",
}
