package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/pulsemon/pulsemon/internal/domain"
)

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one GET against the target and measures wall-clock elapsed
// time from dispatch to completion. 2xx/3xx counts as up; anything else,
// including transport errors and timeouts, produces a failed record with
// the cause in Error.
func (h *HTTPChecker) Check(ctx context.Context, target string) domain.CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.CheckResult{
			CheckedAt: time.Now().UTC(),
			Success:   false,
			Error:     err.Error(),
		}
	}

	resp, err := h.Client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return domain.CheckResult{
			CheckedAt:      time.Now().UTC(),
			ResponseTimeMS: elapsed,
			Success:        false,
			Error:          err.Error(),
		}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	out := domain.CheckResult{
		CheckedAt:      time.Now().UTC(),
		StatusCode:     &code,
		ResponseTimeMS: elapsed,
		Success:        code >= 200 && code < 400,
	}
	if !out.Success {
		out.Error = resp.Status
	}
	return out
}
