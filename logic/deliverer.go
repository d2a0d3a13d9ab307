package logic

import (
	"fed_core/dal"
	"fed_core/shared"
	"fmt"
	"golang.org/x/sync/errgroup"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_deliverer.go -package mocks fed_core/logic IDeliverer

const maxParallelSends = 5

// DeliveriesPending means some inboxes could not be reached yet. The earliest retry is due at RetryAt.
type DeliveriesPending struct {
	RetryAt time.Time
}

func (e *DeliveriesPending) Error() string {
	return fmt.Sprintf("deliveries pending until %s", e.RetryAt.Format(time.RFC3339))
}

var retryBackoff = []time.Duration{
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	time.Hour,
	4 * time.Hour,
	24 * time.Hour,
}

// backoffAfter is the wait before the next attempt, after the given number of failed attempts.
func backoffAfter(attempts int) time.Duration {
	ix := attempts - 1
	if ix < 0 {
		ix = 0
	}
	if ix >= len(retryBackoff) {
		ix = len(retryBackoff) - 1
	}
	return retryBackoff[ix]
}

type IDeliverer interface {
	// DeliverActivity sends an outbox activity to every remote inbox that has not received it yet.
	DeliverActivity(activityId int64) error
}

type deliverer struct {
	cfg      *shared.Config
	logger   shared.ILogger
	repo     dal.IRepo
	keyStore IKeyStore
	sender   IActivitySender
	metrics  IMetrics
	idb      shared.IdBuilder
	now      func() time.Time
}

func NewDeliverer(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	keyStore IKeyStore,
	sender IActivitySender,
	metrics IMetrics,
) IDeliverer {
	return &deliverer{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		keyStore: keyStore,
		sender:   sender,
		metrics:  metrics,
		idb:      shared.IdBuilder{Host: cfg.Host},
		now:      time.Now,
	}
}

func (d *deliverer) DeliverActivity(activityId int64) error {

	act, err := d.repo.GetActivity(activityId)
	if err != nil {
		return err
	}
	if act == nil {
		d.logger.Warnf("Activity to deliver not found: %d", activityId)
		return nil
	}
	author, err := d.repo.GetActorById(act.ActorId)
	if err != nil {
		return err
	}
	if author == nil || !author.IsLocal {
		d.logger.Errorf("Activity %d does not have a local author; not delivering", activityId)
		return nil
	}
	pending, err := d.repo.GetDeliveries(activityId, true)
	if err != nil {
		return err
	}

	now := d.now()
	var due []*dal.Delivery
	var retryAt time.Time
	laterAt := func(t time.Time) {
		if retryAt.IsZero() || t.Before(retryAt) {
			retryAt = t
		}
	}
	for _, dlv := range pending {
		if dlv.Attempts >= d.cfg.DeliveryMaxAttempts {
			continue
		}
		if !dlv.NextAttemptAt.IsZero() && dlv.NextAttemptAt.After(now) {
			laterAt(dlv.NextAttemptAt)
			continue
		}
		due = append(due, dlv)
	}
	if len(due) == 0 {
		if !retryAt.IsZero() {
			return &DeliveriesPending{retryAt}
		}
		return nil
	}

	privKey, err := d.keyStore.GetPrivKey(author.Id)
	if err != nil {
		return err
	}
	keyId := d.idb.ActorKeyId(author.PreferredUsername)

	// Each goroutine only touches its own delivery
	var g errgroup.Group
	g.SetLimit(maxParallelSends)
	for _, dlv := range due {
		dlv := dlv
		g.Go(func() error {
			sendErr := d.sender.Send(privKey, keyId, dlv.InboxUrl, act.Payload)
			dlv.Attempts += 1
			dlv.LastAttemptAt = now
			if sendErr == nil {
				dlv.IsDelivered = true
				dlv.NextAttemptAt = time.Time{}
				d.metrics.DeliveryAttempted("success")
				return nil
			}
			d.logger.Infof("Delivery of activity %d to %s failed (attempt %d): %v",
				activityId, dlv.InboxUrl, dlv.Attempts, sendErr)
			if dlv.Attempts >= d.cfg.DeliveryMaxAttempts {
				d.logger.Warnf("Giving up on delivery of activity %d to %s", activityId, dlv.InboxUrl)
				dlv.NextAttemptAt = time.Time{}
				d.metrics.DeliveryAttempted("dead")
			} else {
				dlv.NextAttemptAt = now.Add(backoffAfter(dlv.Attempts))
				d.metrics.DeliveryAttempted("failure")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, dlv := range due {
		if err = d.repo.UpdateDelivery(dlv); err != nil {
			return err
		}
		if !dlv.IsDelivered && !dlv.NextAttemptAt.IsZero() {
			laterAt(dlv.NextAttemptAt)
		}
	}
	if !retryAt.IsZero() {
		return &DeliveriesPending{retryAt}
	}
	return nil
}
