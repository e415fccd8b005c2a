package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is implemented by every connection wrapper in this package.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each dependency with its own timeout and reports the first
// failure per name.
func CheckAll(ctx context.Context, timeout time.Duration, deps ...Pinger) map[string]error {
	failures := make(map[string]error)
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := dep.Ping(pingCtx); err != nil {
			failures[dep.Name()] = fmt.Errorf("%s: %w", dep.Name(), err)
		}
		cancel()
	}
	return failures
}
