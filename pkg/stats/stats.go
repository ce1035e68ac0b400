package stats

import (
	"sync/atomic"
)

// Process-local operation counters for the metrics subsystem. These are
// informational only; the authoritative numbers live in the ledgers.
type Stats struct {
	votesProcessed int64
	viewsRecorded  int64
	rankingRuns    int64
}

var global = &Stats{}

func IncrementVotes() {
	atomic.AddInt64(&global.votesProcessed, 1)
}

func IncrementViews() {
	atomic.AddInt64(&global.viewsRecorded, 1)
}

func IncrementRankingRuns() {
	atomic.AddInt64(&global.rankingRuns, 1)
}

func GetVotes() int64 {
	return atomic.LoadInt64(&global.votesProcessed)
}

func GetViews() int64 {
	return atomic.LoadInt64(&global.viewsRecorded)
}

func GetRankingRuns() int64 {
	return atomic.LoadInt64(&global.rankingRuns)
}

func Reset() {
	atomic.StoreInt64(&global.votesProcessed, 0)
	atomic.StoreInt64(&global.viewsRecorded, 0)
	atomic.StoreInt64(&global.rankingRuns, 0)
}
