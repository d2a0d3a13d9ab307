package logic

import (
	"encoding/json"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/shared"
	"fmt"
	"github.com/google/uuid"
)

type IActivityStore interface {
	Receive(payload []byte, onBehalfOf *dal.Actor) (*dal.Activity, error)
	GetLocalActivity(actUuid string, viewer *dal.Actor) (*dal.Activity, error)
}

type activityStore struct {
	idb      shared.IdBuilder
	logger   shared.ILogger
	repo     dal.IRepo
	audience IAudienceResolver
	jobs     IJobQueue
	metrics  IMetrics
}

func NewActivityStore(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	audience IAudienceResolver,
	jobs IJobQueue,
	metrics IMetrics,
) IActivityStore {
	return &activityStore{shared.IdBuilder{Host: cfg.Host}, logger, repo, audience, jobs, metrics}
}

func validateActivity(payload []byte, onBehalfOf *dal.Actor) (*dto.ActivityInBase, error) {
	var base dto.ActivityInBase
	if err := json.Unmarshal(payload, &base); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if base.Id == "" {
		return nil, &ValidationError{Field: "id", Reason: "this field is required"}
	}
	if base.Type == "" {
		return nil, &ValidationError{Field: "type", Reason: "this field is required"}
	}
	if !IsActivityType(base.Type) {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("'%s' is not a valid activity type", base.Type)}
	}
	if onBehalfOf == nil || base.Actor != onBehalfOf.Fid {
		return nil, &ValidationError{Field: "actor", Reason: "does not match the authenticated actor"}
	}
	return &base, nil
}

// Receive stores an incoming activity along with the inbox items of its local recipients,
// then enqueues its dispatch. A duplicate is discarded and yields nil, nil.
func (as *activityStore) Receive(payload []byte, onBehalfOf *dal.Actor) (*dal.Activity, error) {

	base, err := validateActivity(payload, onBehalfOf)
	if err != nil {
		as.metrics.ActivityReceived("invalid")
		return nil, err
	}

	tx, err := as.repo.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	act := &dal.Activity{
		Uuid:    uuid.NewString(),
		Fid:     base.Id,
		Type:    base.Type,
		ActorId: onBehalfOf.Id,
		Payload: payload,
	}
	isNew, err := tx.InsertActivity(act)
	if err != nil {
		return nil, err
	}
	if !isNew {
		as.logger.Warnf("Discarding already delivered activity %s", base.Id)
		as.metrics.ActivityReceived("duplicate")
		return nil, nil
	}

	var items []*dal.InboxItem
	audiences := []struct {
		urls []string
		kind string
	}{
		{base.To, dal.AddressedTo},
		{base.Cc, dal.AddressedCc},
	}
	for _, aud := range audiences {
		actors, err := as.audience.GetActorsFromAudience(tx, aud.urls)
		if err != nil {
			return nil, err
		}
		for _, actor := range actors {
			if !actor.HasUser() {
				continue
			}
			items = append(items, &dal.InboxItem{ActivityId: act.Id, ActorId: actor.Id, Type: aud.kind})
		}
	}
	if err = tx.InsertInboxItems(items); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	as.metrics.ActivityReceived("new")
	as.jobs.Enqueue(dal.JobDispatchInbox, act.Id)
	return act, nil
}

// GetLocalActivity returns the activity this instance published under actUuid, if viewer may see it.
// Public activities are visible to anyone, viewer included when nil. Others only to their author
// and to the actors they are addressed to, followers collections expanded.
// It returns nil if there is no such activity or viewer may not see it.
func (as *activityStore) GetLocalActivity(actUuid string, viewer *dal.Actor) (*dal.Activity, error) {

	act, err := as.repo.GetActivityByUuid(actUuid)
	if err != nil || act == nil {
		return nil, err
	}
	// Received activities, and local ones published under another id, are not ours to serve here
	if act.Fid != "" {
		return nil, nil
	}
	var base dto.ActivityInBase
	if err = json.Unmarshal(act.Payload, &base); err != nil {
		return nil, fmt.Errorf("stored activity %d has an invalid payload: %w", act.Id, err)
	}
	if base.Id != as.idb.ActivityUrl(act.Uuid) {
		return nil, nil
	}

	addressed := append(append([]string{}, base.To...), base.Cc...)
	for _, url := range addressed {
		if shared.IsPublicAddress(url) {
			return act, nil
		}
	}
	if viewer == nil {
		return nil, nil
	}
	if viewer.Id == act.ActorId {
		return act, nil
	}
	actors, err := as.audience.GetActorsFromAudience(as.repo, addressed)
	if err != nil {
		return nil, err
	}
	for _, actor := range actors {
		if actor.Id == viewer.Id {
			return act, nil
		}
	}
	as.logger.Infof("Activity %s is not visible to %s", actUuid, viewer.Fid)
	return nil, nil
}
