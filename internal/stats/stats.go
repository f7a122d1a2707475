package stats

import (
	"fmt"

	"github.com/pulsemon/pulsemon/internal/domain"
)

// Sentinel marks ratio fields that are undefined for the given log
// (uptime on an empty log, average latency with zero successes).
const Sentinel = "N/A"

// Summarize computes the aggregate view of a check log. It is pure:
// the same log always yields the same Summary. Average response time
// covers successful checks only.
func Summarize(log []domain.CheckResult) domain.Summary {
	s := domain.Summary{
		UptimePercentage:      Sentinel,
		AverageResponseTimeMS: Sentinel,
	}

	var sumMS int64
	for _, r := range log {
		s.TotalChecks++
		if r.Success {
			s.Successful++
			sumMS += r.ResponseTimeMS
		} else {
			s.Failed++
		}
	}

	if s.TotalChecks > 0 {
		s.UptimePercentage = fmt.Sprintf("%.2f", float64(s.Successful)/float64(s.TotalChecks)*100)
	}
	if s.Successful > 0 {
		s.AverageResponseTimeMS = fmt.Sprintf("%.2f", float64(sumMS)/float64(s.Successful))
	}
	return s
}
