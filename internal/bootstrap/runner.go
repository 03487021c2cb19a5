// Package bootstrap runs one-off startup work once the service's dependencies answer.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/Rithari/url-shortener/internal/health"
	"go.uber.org/zap"
)

// maxBackoff caps the wait between tries of required work.
const maxBackoff = 30 * time.Second

var (
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnknownDependency     = errors.New("unknown dependency")
)

// Task is a named piece of startup work.
//
// A task runs once every dependency named in Requires answers its ping. Optional
// tasks give up after the runner's attempt limit and are skipped. Required tasks
// wait for their dependencies and retry their own failures until they succeed or
// the context ends.
type Task struct {
	Name     string
	Requires []string
	Required bool
	Run      func(ctx context.Context) error
}

// Runner waits for dependencies and then runs its tasks exactly once, in order.
type Runner struct {
	dependencies map[string]health.Checker
	tasks        []Task
	logger       *zap.Logger
	attempts     uint
	backoff      time.Duration

	// availability of dependencies already awaited with the attempt limit
	awaited map[string]error

	once sync.Once
	err  error
}

// NewRunner creates a runner that pings each dependency up to attempts times,
// waiting a Fibonacci multiple of backoff between tries.
func NewRunner(dependencies []health.Component, tasks []Task, attempts uint, backoff time.Duration, logger *zap.Logger) *Runner {
	deps := make(map[string]health.Checker, len(dependencies))
	for _, dep := range dependencies {
		deps[dep.Name] = dep.Checker
	}

	return &Runner{
		dependencies: deps,
		tasks:        tasks,
		logger:       logger,
		attempts:     max(attempts, 1),
		backoff:      backoff,
		awaited:      make(map[string]error),
	}
}

// Run executes the startup sequence on the first call and returns its outcome on every call.
// Failures are logged and reported, never fatal.
func (r *Runner) Run(ctx context.Context) error {
	r.once.Do(func() {
		r.err = r.run(ctx)
	})

	return r.err
}

func (r *Runner) run(ctx context.Context) error {
	var errs []error

	for _, task := range r.tasks {
		start := time.Now()

		if err := r.runTask(ctx, task); err != nil {
			r.logger.Error("startup task failed",
				zap.String("task", task.Name),
				zap.Bool("required", task.Required),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))

			continue
		}

		r.logger.Info("startup task done",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return errors.Join(errs...)
}

func (r *Runner) runTask(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, name := range task.Requires {
		if err := r.await(ctx, name, task.Required); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, name, err)
		}
	}

	if !task.Required {
		return task.Run(ctx)
	}

	err := retry.Retry(func(attempt uint) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := task.Run(ctx)
		if err != nil {
			r.logger.Warn("required startup task failed, retrying",
				zap.String("task", task.Name),
				zap.Uint("attempt", attempt),
				zap.Error(err),
			)
		}

		return err
	}, r.strategies(ctx, true)...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// await pings the named dependency until it answers. Bounded outcomes are
// remembered so later optional tasks do not wait on the same outage again.
func (r *Runner) await(ctx context.Context, name string, required bool) error {
	checker, ok := r.dependencies[name]
	if !ok {
		return ErrUnknownDependency
	}

	if err, done := r.awaited[name]; done && (err == nil || !required) {
		return err
	}

	// the retry loop never runs its first attempt once ctx is done
	if err := ctx.Err(); err != nil {
		return err
	}

	err := retry.Retry(func(attempt uint) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := checker.Ping(ctx)
		if err != nil {
			r.logger.Warn("dependency not ready",
				zap.String("dependency", name),
				zap.Uint("attempt", attempt),
				zap.Error(err),
			)
		}

		return err
	}, r.strategies(ctx, required)...)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	if err == nil || !required {
		r.awaited[name] = err
	}

	return err
}

// strategies bounds optional work by the attempt limit and required work by ctx.
func (r *Runner) strategies(ctx context.Context, required bool) []strategy.Strategy {
	limit := strategy.Limit(r.attempts)
	if required {
		limit = func(uint) bool {
			return ctx.Err() == nil
		}
	}

	return []strategy.Strategy{limit, strategy.Backoff(r.wait)}
}

func (r *Runner) wait(attempt uint) time.Duration {
	return min(backoff.Fibonacci(r.backoff)(attempt), maxBackoff)
}
