package probe

import (
	"context"

	"github.com/pulsemon/pulsemon/internal/domain"
)

// Checker performs a single availability check against the target URL.
// Implementations never return an error: every failure mode is captured
// inside the result record.
type Checker interface {
	Check(ctx context.Context, target string) domain.CheckResult
}
