package logic

import (
	"fed_core/dal"
	"fed_core/shared"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_job_queue.go -package mocks fed_core/logic IJobQueue

type IJobQueue interface {
	// Enqueue persists a job for the activity. Failures are logged, never returned.
	Enqueue(name string, activityId int64)
	// Wakeup fires after a job was enqueued.
	Wakeup() <-chan struct{}
}

type jobQueue struct {
	logger  shared.ILogger
	repo    dal.IRepo
	metrics IMetrics
	wakeup  chan struct{}
}

func NewJobQueue(logger shared.ILogger, repo dal.IRepo, metrics IMetrics) IJobQueue {
	return &jobQueue{
		logger:  logger,
		repo:    repo,
		metrics: metrics,
		wakeup:  make(chan struct{}, 1),
	}
}

func (jq *jobQueue) Enqueue(name string, activityId int64) {
	job := dal.Job{Name: name, ActivityId: activityId}
	if err := jq.repo.AddJob(&job); err != nil {
		jq.logger.Errorf("Failed to enqueue job %s for activity %d: %v", name, activityId, err)
		return
	}
	jq.logger.Debugf("Enqueued job %s for activity %d", name, activityId)
	if count, err := jq.repo.GetJobCount(); err == nil {
		jq.metrics.JobQueueLength(count)
	}
	// A pending signal already covers this job
	select {
	case jq.wakeup <- struct{}{}:
	default:
	}
}

func (jq *jobQueue) Wakeup() <-chan struct{} {
	return jq.wakeup
}

// runHooks executes post-commit callbacks in order.
func runHooks(hooks []func()) {
	for _, hook := range hooks {
		hook()
	}
}
