package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	CasesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCasesOpened,
			Help: HelpTextCasesOpened,
		},
		[]string{LabelCase},
	)

	CaseOpenFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCaseOpenFailures,
			Help: HelpTextCaseOpenFailures,
		},
		[]string{LabelReason},
	)

	DailyRewardsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDailyRewardsTotal,
			Help: HelpTextDailyRewardsTotal,
		},
	)

	DailyRewardAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameDailyRewardAmount,
			Help:    HelpTextDailyRewardAmount,
			Buckets: RewardBuckets,
		},
	)

	ItemsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsGranted,
			Help: HelpTextItemsGranted,
		},
	)

	ItemsRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsRevoked,
			Help: HelpTextItemsRevoked,
		},
	)

	ItemsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsImported,
			Help: HelpTextItemsImported,
		},
		[]string{LabelRarity},
	)

	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFeedRequestsTotal,
			Help: HelpTextFeedRequestsTotal,
		},
		[]string{LabelOutcome},
	)

	FeedCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFeedCacheHitsTotal,
			Help: HelpTextFeedCacheHitsTotal,
		},
	)
)
