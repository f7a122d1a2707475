package domain

import "time"

// CheckResult is the outcome of a single probe against the target.
type CheckResult struct {
	CheckedAt      time.Time `json:"checked_at"`
	StatusCode     *int      `json:"status_code"` // nil when no response was received
	ResponseTimeMS int64     `json:"response_time_ms"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
}

// Summary aggregates a log of check results. The formatted fields carry
// two decimals; "N/A" when the underlying ratio is undefined.
type Summary struct {
	TotalChecks           int    `json:"total_checks"`
	Successful            int    `json:"successful"`
	Failed                int    `json:"failed"`
	UptimePercentage      string `json:"uptime_percentage"`
	AverageResponseTimeMS string `json:"average_response_time_ms"`
}
