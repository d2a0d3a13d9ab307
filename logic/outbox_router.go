package logic

import (
	"encoding/json"
	"fed_core/dal"
	"fed_core/shared"
	"github.com/google/uuid"
)

// OutboxContext carries the business objects a local event is about.
type OutboxContext struct {
	Follow  *dal.Follow
	Library *dal.Library
	Upload  *dal.Upload
	Uploads []*dal.Upload
}

// Outgoing describes one activity an outbox handler wants to publish.
type Outgoing struct {
	Payload       map[string]any
	Actor         *dal.Actor
	To            []Recipient
	Cc            []Recipient
	Object        dal.ObjectRef
	Target        dal.ObjectRef
	RelatedObject dal.ObjectRef
}

type OutboxHandler func(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)

type outboxRoute struct {
	route   Route
	handler OutboxHandler
}

type IOutboxRouter interface {
	// Dispatch publishes the activities produced for a local event in its own transaction.
	Dispatch(routing Route, octx *OutboxContext) ([]*dal.Activity, error)
	// DispatchTx is Dispatch inside the caller's transaction. The caller runs the returned
	// callbacks once tx has committed.
	DispatchTx(tx dal.ITx, routing Route, octx *OutboxContext) ([]*dal.Activity, []func(), error)
}

type outboxRouter struct {
	logger   shared.ILogger
	repo     dal.IRepo
	audience IAudienceResolver
	jobs     IJobQueue
	metrics  IMetrics
	idb      shared.IdBuilder
	routes   []outboxRoute
}

func NewOutboxRouter(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	audience IAudienceResolver,
	jobs IJobQueue,
	metrics IMetrics,
	handlers IOutboxHandlers,
) IOutboxRouter {
	or := outboxRouter{
		logger:   logger,
		repo:     repo,
		audience: audience,
		jobs:     jobs,
		metrics:  metrics,
		idb:      shared.IdBuilder{Host: cfg.Host},
	}
	or.connect(Route{"type": "Accept"}, handlers.Accept)
	or.connect(Route{"type": "Follow"}, handlers.Follow)
	or.connect(Route{"type": "Create", "object.type": "Audio"}, handlers.CreateAudio)
	or.connect(Route{"type": "Delete", "object.type": "Library"}, handlers.DeleteLibrary)
	or.connect(Route{"type": "Delete", "object.type": "Audio"}, handlers.DeleteAudio)
	or.connect(Route{"type": "Undo", "object.type": "Follow"}, handlers.UndoFollow)
	return &or
}

func (or *outboxRouter) connect(route Route, handler OutboxHandler) {
	or.routes = append(or.routes, outboxRoute{route, handler})
}

func (or *outboxRouter) Dispatch(routing Route, octx *OutboxContext) ([]*dal.Activity, error) {

	tx, err := or.repo.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acts, hooks, err := or.DispatchTx(tx, routing, octx)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	runHooks(hooks)
	return acts, nil
}

type stagedActivity struct {
	act        *dal.Activity
	inboxItems []*dal.InboxItem
	deliveries []*dal.Delivery
}

func (or *outboxRouter) DispatchTx(tx dal.ITx, routing Route, octx *OutboxContext) ([]*dal.Activity, []func(), error) {

	routingPayload := routing.Payload()
	for _, r := range or.routes {
		if !MatchRoute(r.route, routingPayload) {
			continue
		}
		outgoing, err := r.handler(tx, octx)
		if err != nil {
			return nil, nil, err
		}
		return or.persist(tx, outgoing)
	}
	return []*dal.Activity{}, nil, nil
}

// stage resolves the audience of an outgoing activity. It returns nil if nobody would receive it.
func (or *outboxRouter) stage(store dal.IStore, out *Outgoing) (*stagedActivity, error) {

	toItems, toDeliveries, newTo, err := or.audience.PrepareDeliveriesAndInboxItems(store, out.To, dal.AddressedTo)
	if err != nil {
		return nil, err
	}
	ccItems, ccDeliveries, newCc, err := or.audience.PrepareDeliveriesAndInboxItems(store, out.Cc, dal.AddressedCc)
	if err != nil {
		return nil, err
	}
	if len(toItems)+len(toDeliveries)+len(ccItems)+len(ccDeliveries) == 0 {
		return nil, nil
	}

	actUuid := uuid.NewString()
	payload := out.Payload
	payload["actor"] = out.Actor.Fid
	if _, hasId := payload["id"]; !hasId {
		payload["id"] = or.idb.ActivityUrl(actUuid)
	}
	delete(payload, "to")
	delete(payload, "cc")
	if len(newTo) != 0 {
		payload["to"] = newTo
	}
	if len(newCc) != 0 {
		payload["cc"] = newCc
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	actType, _ := payload["type"].(string)

	return &stagedActivity{
		act: &dal.Activity{
			Uuid:          actUuid,
			Type:          actType,
			ActorId:       out.Actor.Id,
			Payload:       payloadJson,
			Object:        out.Object,
			Target:        out.Target,
			RelatedObject: out.RelatedObject,
		},
		inboxItems: append(toItems, ccItems...),
		deliveries: mergeDeliveries(toDeliveries, ccDeliveries),
	}, nil
}

// mergeDeliveries joins delivery lists keeping one delivery per inbox URL, in first-seen order.
func mergeDeliveries(lists ...[]*dal.Delivery) []*dal.Delivery {
	var res []*dal.Delivery
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, d := range list {
			if _, dup := seen[d.InboxUrl]; dup {
				continue
			}
			seen[d.InboxUrl] = struct{}{}
			res = append(res, d)
		}
	}
	return res
}

func (or *outboxRouter) persist(tx dal.ITx, outgoing []*Outgoing) ([]*dal.Activity, []func(), error) {

	var staged []*stagedActivity
	for _, out := range outgoing {
		if out == nil {
			continue
		}
		sa, err := or.stage(tx, out)
		if err != nil {
			return nil, nil, err
		}
		if sa == nil {
			or.logger.Debugf("Dropping outgoing %v activity with empty audience", out.Payload["type"])
			continue
		}
		staged = append(staged, sa)
	}

	acts := make([]*dal.Activity, 0, len(staged))
	stagedByUuid := make(map[string]*stagedActivity, len(staged))
	for _, sa := range staged {
		acts = append(acts, sa.act)
		stagedByUuid[sa.act.Uuid] = sa
	}
	if err := tx.InsertActivities(acts); err != nil {
		return nil, nil, err
	}

	// Children bind to the activity with their own correlation uuid
	var inboxItems []*dal.InboxItem
	var deliveries []*dal.Delivery
	for _, act := range acts {
		sa := stagedByUuid[act.Uuid]
		for _, ii := range sa.inboxItems {
			ii.ActivityId = act.Id
			inboxItems = append(inboxItems, ii)
		}
		for _, d := range sa.deliveries {
			d.ActivityId = act.Id
			deliveries = append(deliveries, d)
		}
	}
	if err := tx.InsertInboxItems(inboxItems); err != nil {
		return nil, nil, err
	}
	if err := tx.InsertDeliveries(deliveries); err != nil {
		return nil, nil, err
	}

	var hooks []func()
	for _, act := range acts {
		activityId := act.Id
		or.metrics.ActivityDispatched("outbox")
		hooks = append(hooks, func() { or.jobs.Enqueue(dal.JobDispatchOutbox, activityId) })
	}
	return acts, hooks, nil
}
