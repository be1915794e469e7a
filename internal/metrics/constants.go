package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "casevault_http_requests_total"
	MetricNameHTTPRequestDuration  = "casevault_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "casevault_http_requests_in_flight"

	MetricNameCasesOpened        = "casevault_cases_opened_total"
	MetricNameCaseOpenFailures   = "casevault_case_open_failures_total"
	MetricNameDailyRewardsTotal  = "casevault_daily_rewards_claimed_total"
	MetricNameDailyRewardAmount  = "casevault_daily_reward_amount"
	MetricNameItemsGranted       = "casevault_items_granted_total"
	MetricNameItemsRevoked       = "casevault_items_revoked_total"
	MetricNameItemsImported      = "casevault_items_imported_total"
	MetricNameFeedRequestsTotal  = "casevault_feed_requests_total"
	MetricNameFeedCacheHitsTotal = "casevault_feed_cache_hits_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextCasesOpened        = "Total number of cases opened"
	HelpTextCaseOpenFailures   = "Total number of failed case openings by reason"
	HelpTextDailyRewardsTotal  = "Total number of daily rewards claimed"
	HelpTextDailyRewardAmount  = "Distribution of daily reward amounts"
	HelpTextItemsGranted       = "Total number of items granted"
	HelpTextItemsRevoked       = "Total number of items revoked"
	HelpTextItemsImported      = "Total number of items imported from the feed by rarity"
	HelpTextFeedRequestsTotal  = "Total number of upstream feed requests by outcome"
	HelpTextFeedCacheHitsTotal = "Total number of feed cache hits"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelCase    = "case"
	LabelReason  = "reason"
	LabelRarity  = "rarity"
	LabelOutcome = "outcome"
)

// HTTPLatencyBuckets covers the expected latency range for API requests
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// RewardBuckets covers the possible daily reward range (base 1000 up to
// base + capped bonus)
var RewardBuckets = prometheus.LinearBuckets(1000, 1000, 11)
