package logic

import (
	"encoding/json"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/shared"
	"fmt"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_inbox_router.go -package mocks fed_core/logic IInboxRouter

// InboxHandlerContext is what an inbox handler knows about the activity it processes.
type InboxHandlerContext struct {
	Tx         dal.ITx
	Actor      *dal.Actor       // The activity's authenticated author
	Activity   *dal.Activity    // Nil if the payload was not stored
	InboxItems []*dal.InboxItem // Local recipients of the stored activity
	hooks      []func()
}

// OnCommit registers callbacks to run once the handler's transaction has committed.
func (ctx *InboxHandlerContext) OnCommit(hooks ...func()) {
	ctx.hooks = append(ctx.hooks, hooks...)
}

// InboxHandler runs the business logic of one kind of incoming activity.
// The links it returns are stored on the activity.
type InboxHandler func(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)

type inboxRoute struct {
	route   Route
	handler InboxHandler
}

type IInboxRouter interface {
	Dispatch(tx dal.ITx, payload map[string]any, ctx *InboxHandlerContext) ([]func(), error)
	DispatchActivity(activityId int64) error
}

type inboxRouter struct {
	logger   shared.ILogger
	repo     dal.IRepo
	notifier INotifier
	metrics  IMetrics
	routes   []inboxRoute
}

func NewInboxRouter(
	logger shared.ILogger,
	repo dal.IRepo,
	notifier INotifier,
	metrics IMetrics,
	handlers IInboxHandlers,
) IInboxRouter {
	ir := inboxRouter{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
	}
	ir.connect(Route{"type": "Follow"}, handlers.Follow)
	ir.connect(Route{"type": "Accept"}, handlers.Accept)
	ir.connect(Route{"type": "Create", "object.type": "Audio"}, handlers.CreateAudio)
	ir.connect(Route{"type": "Delete", "object.type": "Library"}, handlers.DeleteLibrary)
	ir.connect(Route{"type": "Delete", "object.type": "Audio"}, handlers.DeleteAudio)
	ir.connect(Route{"type": "Undo", "object.type": "Follow"}, handlers.UndoFollow)
	return &ir
}

func (ir *inboxRouter) connect(route Route, handler InboxHandler) {
	ir.routes = append(ir.routes, inboxRoute{route, handler})
}

// Dispatch runs the first handler whose route matches the payload. Unmatched payloads are ignored.
// The returned callbacks must be run after tx commits.
func (ir *inboxRouter) Dispatch(tx dal.ITx, payload map[string]any, ctx *InboxHandlerContext) ([]func(), error) {

	ctx.Tx = tx
	for _, r := range ir.routes {
		if !MatchRoute(r.route, payload) {
			continue
		}
		ir.metrics.ActivityDispatched("inbox")
		links, err := r.handler(payload, ctx)
		if err != nil {
			return nil, err
		}
		if ctx.Activity != nil && len(links) != 0 {
			if err = tx.UpdateActivityLinks(ctx.Activity.Id, links); err != nil {
				return nil, err
			}
			setActivityLinks(ctx.Activity, links)
		}
		actType, _ := payload["type"].(string)
		if _, broadcast := broadcastToUserTypes[actType]; broadcast {
			if err = ir.prepareNotifications(ctx); err != nil {
				return nil, err
			}
		}
		return ctx.hooks, nil
	}
	return nil, nil
}

func setActivityLinks(act *dal.Activity, links map[string]dal.ObjectRef) {
	for name, ref := range links {
		switch name {
		case dal.LinkObject:
			act.Object = ref
		case dal.LinkTarget:
			act.Target = ref
		case dal.LinkRelatedObject:
			act.RelatedObject = ref
		}
	}
}

// prepareNotifications serializes the inbox items of users and sends them once the transaction commits.
func (ir *inboxRouter) prepareNotifications(ctx *InboxHandlerContext) error {
	if ctx.Activity == nil {
		return nil
	}
	for _, ii := range ctx.InboxItems {
		actor, err := ctx.Tx.GetActorById(ii.ActorId)
		if err != nil {
			return err
		}
		if actor == nil || !actor.HasUser() {
			continue
		}
		item, err := serializeInboxItem(ctx.Tx, ii, ctx.Activity, ctx.Actor)
		if err != nil {
			return err
		}
		group := fmt.Sprintf("user.%d.inbox", actor.UserId)
		event := &dto.StreamEvent{
			Type: "event.send",
			Text: "",
			Data: &dto.InboxItemAdded{Type: "inbox.item_added", Item: item},
		}
		ctx.OnCommit(func() { ir.notifier.GroupSend(group, event) })
	}
	return nil
}

func serializeLink(store dal.IStore, ref dal.ObjectRef) (*dto.LinkedObject, error) {
	if ref.IsZero() {
		return nil, nil
	}
	fid, err := objectFid(store, ref)
	if err != nil {
		return nil, err
	}
	return &dto.LinkedObject{Kind: string(ref.Kind), Id: ref.Id, Fid: fid}, nil
}

func serializeInboxItem(store dal.IStore, ii *dal.InboxItem, act *dal.Activity, author *dal.Actor) (*dto.InboxItem, error) {
	res := dto.InboxItem{
		Id:     ii.Id,
		Type:   ii.Type,
		IsRead: ii.IsRead,
		Activity: dto.ActivityInfo{
			Id:        act.Id,
			Uuid:      act.Uuid,
			Fid:       act.Fid,
			Type:      act.Type,
			Actor:     author.Fid,
			CreatedAt: act.CreatedAt,
		},
	}
	var err error
	if res.Activity.Object, err = serializeLink(store, act.Object); err != nil {
		return nil, err
	}
	if res.Activity.Target, err = serializeLink(store, act.Target); err != nil {
		return nil, err
	}
	if res.Activity.RelatedObject, err = serializeLink(store, act.RelatedObject); err != nil {
		return nil, err
	}
	return &res, nil
}

// DispatchActivity loads a stored activity and dispatches it in its own transaction.
func (ir *inboxRouter) DispatchActivity(activityId int64) error {

	tx, err := ir.repo.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	act, err := tx.GetActivity(activityId)
	if err != nil {
		return err
	}
	if act == nil {
		ir.logger.Warnf("Activity to dispatch not found: %d", activityId)
		return nil
	}
	actor, err := tx.GetActorById(act.ActorId)
	if err != nil {
		return err
	}
	items, err := tx.GetInboxItems(act.Id)
	if err != nil {
		return err
	}
	var payload map[string]any
	if err = json.Unmarshal(act.Payload, &payload); err != nil {
		ir.logger.Errorf("Stored activity %d has invalid payload: %v", activityId, err)
		return nil
	}

	ctx := &InboxHandlerContext{Actor: actor, Activity: act, InboxItems: items}
	hooks, err := ir.Dispatch(tx, payload, ctx)
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	runHooks(hooks)
	return nil
}
