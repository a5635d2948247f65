package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/monitors"
	"github.com/taskhive-dev/taskhive/internal/services"
)

// DependencyHealthJob probes every check and publishes taskhive_dependency_up.
func DependencyHealthJob(checks []monitors.Check, interval time.Duration) Job {
	return Job{
		Name:     "dependency-health",
		Interval: interval,
		Run: func(ctx context.Context) error {
			var failed []string

			for name, result := range monitors.Run(ctx, monitors.DefaultTimeout, checks) {
				switch result.Status {
				case monitors.StatusUp:
					metrics.DependencyUp.WithLabelValues(name).Set(1)
				case monitors.StatusDown:
					metrics.DependencyUp.WithLabelValues(name).Set(0)
					failed = append(failed, name)
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("dependencies unavailable: %v", failed)
			}
			return nil
		},
	}
}

// TaskStatsJob publishes task counts per status.
func TaskStatsJob(tasks *services.TaskService, interval time.Duration) Job {
	return Job{
		Name:     "task-stats",
		Interval: interval,
		Run: func(ctx context.Context) error {
			counts, err := tasks.CountByStatus(ctx)
			if err != nil {
				return err
			}

			for status, n := range counts {
				metrics.TasksByStatus.WithLabelValues(string(status)).Set(float64(n))
			}
			return nil
		},
	}
}
