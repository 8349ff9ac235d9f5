package scheduler

import "time"

// The queue's sort-key space is shared by every writer, so key generation
// lives here and nowhere else. Back-of-queue keys are positive and dense;
// front-of-queue keys are negative and derived from the clock, so newer
// front insertions sort before older ones and both sort before every
// back-of-queue entry.

// FrontKey generates a front-of-queue sort key from the wall clock and a
// jitter value. The key is -(unixMillis*1000 + jitter) with jitter
// sanitized into [0,1000): two calls within the same millisecond still
// produce distinct keys, and a later call always produces a smaller
// (more negative) key than an earlier one.
func FrontKey(now time.Time, jitter int64) int64 {
	j := jitter % 1000
	if j < 0 {
		j = -j
	}
	return -(now.UnixMilli()*1000 + j)
}

// BackKey generates a back-of-queue sort key given the current maximum.
func BackKey(maxSortKey int64) int64 {
	if maxSortKey < 0 {
		return 1
	}
	return maxSortKey + 1
}
