// Package worker binds a scrape request to the engine: it tracks the task,
// forwards progress, and publishes the resulting records downstream.
package worker

import (
	"context"

	"productworker/helpers"
	"productworker/internal/scrape"
	"productworker/logger"
	"productworker/services/publisher"
	"productworker/services/task"
)

// Runner executes scrape requests end to end.
type Runner struct {
	engine   *scrape.Engine
	registry *task.Registry
	pub      publisher.Publisher
	log      *logger.Logger
}

// NewRunner creates a runner. pub may be nil when no downstream consumer
// is configured; records are then only returned, not published.
func NewRunner(engine *scrape.Engine, registry *task.Registry, pub publisher.Publisher) *Runner {
	return &Runner{
		engine:   engine,
		registry: registry,
		pub:      pub,
		log:      logger.ForComponent("worker"),
	}
}

// Run registers the request as a task, runs the crawl and publishes the
// outcome. The task id is returned even when the crawl fails; the failure
// is recorded on the task.
func (r *Runner) Run(ctx context.Context, req scrape.ScrapeRequest) (string, *scrape.Result, error) {
	id := r.registry.Create(req)

	result, err := r.Execute(ctx, id)
	return id, result, err
}

// Execute runs an already-registered task by id.
func (r *Runner) Execute(ctx context.Context, id string) (*scrape.Result, error) {
	t, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}

	if err := r.registry.Start(id); err != nil {
		return nil, err
	}

	result, err := r.engine.Run(ctx, t.Request, func(done, total int) {
		if uerr := r.registry.UpdateProgress(id, done, total); uerr != nil {
			r.log.Warn().Str("task", id).Err(uerr).Msg("Progress update failed")
		}
	})
	if err != nil {
		r.registry.Fail(id, err)
		return nil, err
	}

	r.publish(result)

	if cerr := r.registry.Complete(id, result); cerr != nil {
		r.log.Warn().Str("task", id).Err(cerr).Msg("Completion update failed")
	}

	r.log.Info().
		Str("task", id).
		Int("records", len(result.Records)).
		Bool("partial", result.Partial).
		Msg("Task finished")
	return result, nil
}

// publish groups records by their source host and ships one batch per host.
func (r *Runner) publish(result *scrape.Result) {
	if r.pub == nil || len(result.Records) == 0 {
		return
	}

	byHost := make(map[string][]scrape.ProductRecord)
	for _, rec := range result.Records {
		host := "unknown"
		if rec.URL != nil {
			if h, err := helpers.RegisteredDomain(*rec.URL); err == nil {
				host = h
			}
		}
		byHost[host] = append(byHost[host], rec)
	}

	for host, batch := range byHost {
		if err := r.pub.PublishProducts(host, batch); err != nil {
			r.log.Error().Str("host", host).Err(err).Msg("Publish failed")
		}
	}

	if err := r.pub.TrimStreams(); err != nil {
		r.log.Error().Err(err).Msg("Stream trimming failed")
	}
}
