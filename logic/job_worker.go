package logic

import (
	"context"
	"errors"
	"fed_core/dal"
	"fed_core/shared"
	"fmt"
	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

const jobBatchSize = 64

type IJobWorker interface {
	Start()
	Stop()
	// RunDueJobs runs every job that is due now, and returns once they are all done.
	RunDueJobs(ctx context.Context) error
}

type jobWorker struct {
	cfg        *shared.Config
	logger     shared.ILogger
	repo       dal.IRepo
	queue      IJobQueue
	inbox      IInboxRouter
	deliverer  IDeliverer
	metrics    IMetrics
	now        func() time.Time
	mu         sync.Mutex
	inProgress map[int64]struct{}
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewJobWorker(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	queue IJobQueue,
	inbox IInboxRouter,
	deliverer IDeliverer,
	metrics IMetrics,
) IJobWorker {
	return &jobWorker{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		queue:      queue,
		inbox:      inbox,
		deliverer:  deliverer,
		metrics:    metrics,
		now:        time.Now,
		inProgress: map[int64]struct{}{},
	}
}

func (w *jobWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		if err := w.run(ctx); err != nil {
			w.logger.Errorf("Job worker stopped: %v", err)
		}
	}()
}

func (w *jobWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// laneOf keeps every run of the same job on the same lane.
func (w *jobWorker) laneOf(job *dal.Job, lanes int) int {
	key := fmt.Sprintf("%s:%d", job.Name, job.ActivityId)
	return int(murmur3.Sum32([]byte(key)) % uint32(lanes))
}

func (w *jobWorker) laneCount() int {
	return max(w.cfg.DeliveryWorkers, 1)
}

func (w *jobWorker) run(ctx context.Context) error {

	g, gctx := errgroup.WithContext(ctx)
	lanes := make([]chan *dal.Job, w.laneCount())
	for i := range lanes {
		lane := make(chan *dal.Job)
		lanes[i] = lane
		g.Go(func() error {
			for job := range lane {
				w.runJob(job)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, lane := range lanes {
				close(lane)
			}
		}()
		ticker := time.NewTicker(time.Duration(w.cfg.JobPollIntervalSec) * time.Second)
		defer ticker.Stop()
		for {
			if err := w.feedLanes(gctx, lanes); err != nil {
				w.logger.Errorf("Failed to poll job queue: %v", err)
			}
			select {
			case <-gctx.Done():
				return nil
			case <-w.queue.Wakeup():
			case <-ticker.C:
			}
		}
	})

	return g.Wait()
}

// feedLanes hands every due job that is not already running to its lane.
func (w *jobWorker) feedLanes(ctx context.Context, lanes []chan *dal.Job) error {
	jobs, err := w.repo.GetDueJobs(w.now(), jobBatchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if !w.claim(job.Id) {
			continue
		}
		select {
		case lanes[w.laneOf(job, len(lanes))] <- job:
		case <-ctx.Done():
			w.release(job.Id)
			return nil
		}
	}
	return nil
}

func (w *jobWorker) claim(jobId int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, running := w.inProgress[jobId]; running {
		return false
	}
	w.inProgress[jobId] = struct{}{}
	return true
}

func (w *jobWorker) release(jobId int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inProgress, jobId)
}

func (w *jobWorker) RunDueJobs(ctx context.Context) error {
	jobs, err := w.repo.GetDueJobs(w.now(), jobBatchSize)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.laneCount())
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		if !w.claim(job.Id) {
			continue
		}
		job := job
		g.Go(func() error {
			w.runJob(job)
			return nil
		})
	}
	return g.Wait()
}

func (w *jobWorker) runJob(job *dal.Job) {

	defer w.release(job.Id)

	var err error
	switch job.Name {
	case dal.JobDispatchInbox:
		err = w.inbox.DispatchActivity(job.ActivityId)
	case dal.JobDispatchOutbox:
		err = w.deliverer.DeliverActivity(job.ActivityId)
	default:
		w.logger.Errorf("Dropping job %d with unknown name '%s'", job.Id, job.Name)
	}

	if err == nil {
		if err = w.repo.DeleteJob(job.Id); err != nil {
			w.logger.Errorf("Failed to delete finished job %d: %v", job.Id, err)
		}
		w.updateQueueLength()
		return
	}

	// Deliveries count their own attempts; the job just comes back when the next one is due
	var pending *DeliveriesPending
	if errors.As(err, &pending) {
		if err = w.repo.RescheduleJob(job.Id, job.Attempts, pending.RetryAt); err != nil {
			w.logger.Errorf("Failed to reschedule job %d: %v", job.Id, err)
		}
		return
	}

	attempts := job.Attempts + 1
	w.logger.Warnf("Job %s for activity %d failed (attempt %d): %v", job.Name, job.ActivityId, attempts, err)
	if attempts >= w.cfg.DeliveryMaxAttempts {
		w.logger.Errorf("Giving up on job %s for activity %d after %d attempts", job.Name, job.ActivityId, attempts)
		if err = w.repo.DeleteJob(job.Id); err != nil {
			w.logger.Errorf("Failed to delete dead job %d: %v", job.Id, err)
		}
		w.updateQueueLength()
		return
	}
	next := w.now().Add(backoffAfter(attempts))
	if err = w.repo.RescheduleJob(job.Id, attempts, next); err != nil {
		w.logger.Errorf("Failed to reschedule job %d: %v", job.Id, err)
	}
}

func (w *jobWorker) updateQueueLength() {
	if count, err := w.repo.GetJobCount(); err == nil {
		w.metrics.JobQueueLength(count)
	}
}
