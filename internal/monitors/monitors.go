// Package monitors checks the health of the service's backing stores.
package monitors

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const DefaultTimeout = 2 * time.Second

const (
	StatusUp       = "ok"
	StatusDown     = "unavailable"
	StatusDisabled = "disabled"
)

// Check is one named dependency probe. A nil Probe means the dependency is
// not configured.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Result struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"-"`
	Err     error         `json:"-"`
}

func (r Result) Healthy() bool {
	return r.Status != StatusDown
}

func CheckDatabase(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()

	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func CheckRedis(ctx context.Context, client *goredis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Dependencies builds the standard checks. redis may be nil.
func Dependencies(conn *gorm.DB, redis *goredis.Client) []Check {
	checks := []Check{{
		Name:  "database",
		Probe: func(ctx context.Context) error { return CheckDatabase(ctx, conn) },
	}}

	redisCheck := Check{Name: "redis"}
	if redis != nil {
		redisCheck.Probe = func(ctx context.Context) error { return CheckRedis(ctx, redis) }
	}

	return append(checks, redisCheck)
}

// Run executes every check with timeout applied to each probe.
func Run(ctx context.Context, timeout time.Duration, checks []Check) map[string]Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := make(map[string]Result, len(checks))

	for _, c := range checks {
		if c.Probe == nil {
			results[c.Name] = Result{Status: StatusDisabled}
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := c.Probe(probeCtx)
		cancel()

		result := Result{Status: StatusUp, Latency: time.Since(start), Err: err}
		if err != nil {
			result.Status = StatusDown
		}
		results[c.Name] = result
	}

	return results
}
