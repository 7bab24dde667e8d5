package obs

import (
	"sync/atomic"
	"time"

	"bondpipe/internal/hub"
)

// Stage identifies a pipeline stage whose published values are counted.
type Stage uint8

const (
	_stage_beg Stage = iota
	StageOrderBook
	StageExecution
	StageTrade
	StagePosition
	StageInquiry
	StagePrice
	StageHistorical
	_stage_end
)

func (s Stage) IsAvailable() bool {
	return s > _stage_beg && s < _stage_end
}

func (s Stage) String() string {
	switch s {
	case StageOrderBook:
		return "orderbook"
	case StageExecution:
		return "execution"
	case StageTrade:
		return "trade"
	case StagePosition:
		return "position"
	case StageInquiry:
		return "inquiry"
	case StagePrice:
		return "price"
	case StageHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

// Feed identifies an input file replayed into the pipeline.
type Feed uint8

const (
	_feed_beg Feed = iota
	FeedPrices
	FeedMarketData
	FeedTrades
	FeedInquiries
	_feed_end
)

func (f Feed) IsAvailable() bool {
	return f > _feed_beg && f < _feed_end
}

func (f Feed) String() string {
	switch f {
	case FeedPrices:
		return "prices"
	case FeedMarketData:
		return "marketdata"
	case FeedTrades:
		return "trades"
	case FeedInquiries:
		return "inquiries"
	default:
		return "unknown"
	}
}

// Metrics collects lightweight counters and latency stats.
type Metrics struct {
	stageCounts [_stage_end]uint64
	feedErrors  [_feed_end]uint64
	feedLatency [_feed_end]LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	StageCounts map[Stage]uint64
	FeedErrors  map[Feed]uint64
	FeedLatency map[Feed]LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveStage counts one value published by stage.
func (m *Metrics) ObserveStage(stage Stage) {
	if m == nil || !stage.IsAvailable() {
		return
	}
	atomic.AddUint64(&m.stageCounts[stage], 1)
}

// ObserveFeed records how long one feed took to replay.
func (m *Metrics) ObserveFeed(feed Feed, d time.Duration) {
	if m == nil || !feed.IsAvailable() {
		return
	}
	m.feedLatency[feed].Observe(d)
}

// IncFeedError records a failed feed replay.
func (m *Metrics) IncFeedError(feed Feed) {
	if m == nil || !feed.IsAvailable() {
		return
	}
	atomic.AddUint64(&m.feedErrors[feed], 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	stageCounts := make(map[Stage]uint64)
	for i := range m.stageCounts {
		if v := atomic.LoadUint64(&m.stageCounts[i]); v > 0 {
			stageCounts[Stage(i)] = v
		}
	}
	feedErrors := make(map[Feed]uint64)
	feedLatency := make(map[Feed]LatencySnapshot)
	for i := range m.feedLatency {
		if v := atomic.LoadUint64(&m.feedErrors[i]); v > 0 {
			feedErrors[Feed(i)] = v
		}
		if snap := m.feedLatency[i].Snapshot(); snap.Count > 0 {
			feedLatency[Feed(i)] = snap
		}
	}
	return Snapshot{
		StageCounts: stageCounts,
		FeedErrors:  feedErrors,
		FeedLatency: feedLatency,
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		cur := atomic.LoadUint64(&l.min)
		if cur != 0 && nanos >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, cur, nanos) {
			break
		}
	}

	for {
		cur := atomic.LoadUint64(&l.max)
		if nanos <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, cur, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(atomic.LoadUint64(&l.sum) / count),
	}
}

// StageListener counts every value stage publishes.
func StageListener[V any](m *Metrics, stage Stage) hub.Listener[V] {
	return hub.AddFunc[V](func(V) error {
		m.ObserveStage(stage)
		return nil
	})
}
