package logic

import (
	"encoding/json"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/shared"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"html"
	"time"
)

type IInboxHandlers interface {
	Follow(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
	Accept(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
	CreateAudio(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
	DeleteLibrary(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
	DeleteAudio(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
	UndoFollow(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error)
}

type inboxHandlers struct {
	logger    shared.ILogger
	outbox    IOutboxRouter
	sanitizer *bluemonday.Policy
}

func NewInboxHandlers(logger shared.ILogger, outbox IOutboxRouter) IInboxHandlers {
	return &inboxHandlers{
		logger:    logger,
		outbox:    outbox,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func decodePayload[T any](payload map[string]any) (*T, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var res T
	if err = json.Unmarshal(data, &res); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return &res, nil
}

// Follow records a follow of a local library or actor. Follows of a library open to everyone
// are approved right away, and an Accept goes back to the follower.
func (ih *inboxHandlers) Follow(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	followFid, _ := payload["id"].(string)
	targetFid := objectId(payload)

	kind := dal.KindLibraryFollow
	var target dal.ObjectRef
	autoApprove := false
	lib, err := ctx.Tx.GetLibraryByFid(targetFid)
	if err != nil {
		return nil, err
	}
	if lib != nil {
		target = lib.Ref()
		autoApprove = lib.PrivacyLevel == dal.PrivacyEveryone
	} else {
		actor, err := ctx.Tx.GetActorByFid(targetFid)
		if err != nil {
			return nil, err
		}
		if actor == nil || !actor.IsLocal {
			ih.logger.Infof("Ignoring follow of unknown object %s", targetFid)
			return nil, nil
		}
		kind = dal.KindFollow
		target = actor.Ref()
	}

	follow, err := ctx.Tx.GetFollowBetween(kind, ctx.Actor.Id, target.Id)
	if err != nil {
		return nil, err
	}
	if follow == nil {
		follow = &dal.Follow{
			Kind:     kind,
			Uuid:     uuid.NewString(),
			Fid:      followFid,
			ActorId:  ctx.Actor.Id,
			TargetId: target.Id,
			Approved: dal.ApprovePending,
		}
		if err = ctx.Tx.CreateFollow(follow); err != nil {
			return nil, err
		}
	}

	if autoApprove && follow.Approved != dal.ApproveAccepted {
		follow.Approved = dal.ApproveAccepted
		if err = ctx.Tx.SetFollowApproved(follow.Ref(), dal.ApproveAccepted, time.Now()); err != nil {
			return nil, err
		}
		_, hooks, err := ih.outbox.DispatchTx(ctx.Tx, Route{"type": "Accept"}, &OutboxContext{Follow: follow})
		if err != nil {
			return nil, err
		}
		ctx.OnCommit(hooks...)
	}

	return map[string]dal.ObjectRef{
		dal.LinkObject:        target,
		dal.LinkRelatedObject: follow.Ref(),
	}, nil
}

// findFollow looks up a follow by fid among library follows first, then actor follows.
func findFollow(store dal.IStore, fid string) (*dal.Follow, error) {
	if fid == "" {
		return nil, nil
	}
	follow, err := store.GetFollowByFid(dal.KindLibraryFollow, fid)
	if err != nil || follow != nil {
		return follow, err
	}
	return store.GetFollowByFid(dal.KindFollow, fid)
}

// followTargetOwner returns the id of the actor who decides on a follow.
func followTargetOwner(store dal.IStore, follow *dal.Follow) (int64, error) {
	if follow.Kind != dal.KindLibraryFollow {
		return follow.TargetId, nil
	}
	lib, err := store.GetLibraryById(follow.TargetId)
	if err != nil || lib == nil {
		return 0, err
	}
	return lib.ActorId, nil
}

// Accept approves a follow we sent, if the sender owns the followed object.
func (ih *inboxHandlers) Accept(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	follow, err := findFollow(ctx.Tx, objectId(payload))
	if err != nil {
		return nil, err
	}
	if follow == nil {
		ih.logger.Infof("Ignoring Accept of unknown follow %s", objectId(payload))
		return nil, nil
	}
	ownerId, err := followTargetOwner(ctx.Tx, follow)
	if err != nil {
		return nil, err
	}
	if ownerId != ctx.Actor.Id {
		ih.logger.Warnf("Ignoring Accept of follow %d by %s, who is not the followed party", follow.Id, ctx.Actor.Fid)
		return nil, nil
	}
	if err = ctx.Tx.SetFollowApproved(follow.Ref(), dal.ApproveAccepted, time.Now()); err != nil {
		return nil, err
	}
	return map[string]dal.ObjectRef{
		dal.LinkObject:        follow.Ref(),
		dal.LinkRelatedObject: follow.TargetRef(),
	}, nil
}

// CreateAudio stores an upload that a remote actor published in its own library.
func (ih *inboxHandlers) CreateAudio(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	act, err := decodePayload[dto.ActivityIn[dto.Audio]](payload)
	if err != nil {
		return nil, err
	}
	audio := &act.Object
	lib, err := ctx.Tx.GetLibraryByFid(audio.Library)
	if err != nil {
		return nil, err
	}
	if lib == nil {
		ih.logger.Infof("Ignoring audio %s in unknown library %s", audio.Id, audio.Library)
		return nil, nil
	}
	if lib.ActorId != ctx.Actor.Id {
		ih.logger.Warnf("Ignoring audio %s: %s does not own library %s", audio.Id, ctx.Actor.Fid, lib.Fid)
		return nil, nil
	}

	upload, err := ctx.Tx.GetUploadByFid(audio.Id)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		upload = &dal.Upload{
			Uuid:      uuid.NewString(),
			Fid:       audio.Id,
			LibraryId: lib.Id,
			Name:      html.UnescapeString(ih.sanitizer.Sanitize(audio.Name)),
			Mimetype:  audio.Url.MediaType,
			Size:      audio.Size,
			Duration:  audio.Duration,
			Bitrate:   audio.Bitrate,
			SourceUrl: audio.Url.Href,
		}
		if err = ctx.Tx.CreateUpload(upload); err != nil {
			return nil, err
		}
	}
	return map[string]dal.ObjectRef{
		dal.LinkObject: upload.Ref(),
		dal.LinkTarget: lib.Ref(),
	}, nil
}

// DeleteLibrary removes libraries owned by the sender. Others are left alone.
func (ih *inboxHandlers) DeleteLibrary(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	act, err := decodePayload[dto.ActivityIn[dto.DeletedObject]](payload)
	if err != nil {
		return nil, err
	}
	for _, fid := range act.Object.Ids {
		lib, err := ctx.Tx.GetLibraryByFid(fid)
		if err != nil {
			return nil, err
		}
		if lib == nil {
			continue
		}
		if lib.ActorId != ctx.Actor.Id {
			ih.logger.Warnf("Ignoring deletion of library %s by impostor %s", fid, ctx.Actor.Fid)
			continue
		}
		if err = ctx.Tx.DeleteLibrary(lib.Id); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// DeleteAudio removes uploads from libraries owned by the sender. Others are left alone.
func (ih *inboxHandlers) DeleteAudio(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	act, err := decodePayload[dto.ActivityIn[dto.DeletedObject]](payload)
	if err != nil {
		return nil, err
	}
	for _, fid := range act.Object.Ids {
		upload, err := ctx.Tx.GetUploadByFid(fid)
		if err != nil {
			return nil, err
		}
		if upload == nil {
			continue
		}
		lib, err := ctx.Tx.GetLibraryById(upload.LibraryId)
		if err != nil {
			return nil, err
		}
		if lib == nil || lib.ActorId != ctx.Actor.Id {
			ih.logger.Warnf("Ignoring deletion of audio %s by impostor %s", fid, ctx.Actor.Fid)
			continue
		}
		if err = ctx.Tx.DeleteUpload(upload.Id); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// UndoFollow deletes a follow, provided the sender is the follower.
func (ih *inboxHandlers) UndoFollow(payload map[string]any, ctx *InboxHandlerContext) (map[string]dal.ObjectRef, error) {

	act, err := decodePayload[dto.ActivityIn[dto.FollowObject]](payload)
	if err != nil {
		return nil, err
	}
	follow, err := findFollow(ctx.Tx, act.Object.Id)
	if err != nil {
		return nil, err
	}
	if follow == nil {
		ih.logger.Infof("Ignoring Undo of unknown follow %s", act.Object.Id)
		return nil, nil
	}
	if follow.ActorId != ctx.Actor.Id {
		ih.logger.Warnf("Ignoring Undo of follow %d by %s, who is not the follower", follow.Id, ctx.Actor.Fid)
		return nil, nil
	}
	if err = ctx.Tx.DeleteFollow(follow.Ref()); err != nil {
		return nil, err
	}
	return nil, nil
}
