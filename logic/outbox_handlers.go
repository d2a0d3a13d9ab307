package logic

import (
	"errors"
	"fed_core/dal"
	"fed_core/shared"
	"fmt"
	"time"
)

type IOutboxHandlers interface {
	Accept(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
	Follow(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
	CreateAudio(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
	DeleteLibrary(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
	DeleteAudio(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
	UndoFollow(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error)
}

type outboxHandlers struct {
	logger shared.ILogger
}

func NewOutboxHandlers(logger shared.ILogger) IOutboxHandlers {
	return &outboxHandlers{logger}
}

var errMissingContext = errors.New("outbox context lacks the object of the event")

// followParties loads the follower, the followed object's owner, and the followed object's fid.
func followParties(store dal.IStore, follow *dal.Follow) (follower, owner *dal.Actor, targetFid string, err error) {
	if follower, err = store.GetActorById(follow.ActorId); err != nil {
		return
	}
	if follower == nil {
		err = fmt.Errorf("follower not found: %d", follow.ActorId)
		return
	}
	ownerId := follow.TargetId
	if follow.Kind == dal.KindLibraryFollow {
		var lib *dal.Library
		if lib, err = store.GetLibraryById(follow.TargetId); err != nil {
			return
		}
		if lib == nil {
			err = fmt.Errorf("followed library not found: %d", follow.TargetId)
			return
		}
		ownerId = lib.ActorId
		targetFid = lib.Fid
	}
	if owner, err = store.GetActorById(ownerId); err != nil {
		return
	}
	if owner == nil {
		err = fmt.Errorf("followed actor not found: %d", ownerId)
		return
	}
	if follow.Kind == dal.KindFollow {
		targetFid = owner.Fid
	}
	return
}

func followObject(follow *dal.Follow, follower *dal.Actor, targetFid string) map[string]any {
	return map[string]any{
		"type":   "Follow",
		"id":     follow.Fid,
		"actor":  follower.Fid,
		"object": targetFid,
	}
}

func (oh *outboxHandlers) Accept(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	if octx.Follow == nil {
		return nil, errMissingContext
	}
	follower, owner, targetFid, err := followParties(store, octx.Follow)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"@context": shared.ActivityStreamsContext,
		"type":     "Accept",
		"id":       octx.Follow.Fid + "/accept",
		"object":   followObject(octx.Follow, follower, targetFid),
	}
	return []*Outgoing{{
		Payload: payload,
		Actor:   owner,
		To:      []Recipient{ToActor(follower)},
		Object:  octx.Follow.Ref(),
	}}, nil
}

func (oh *outboxHandlers) Follow(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	if octx.Follow == nil {
		return nil, errMissingContext
	}
	follower, owner, targetFid, err := followParties(store, octx.Follow)
	if err != nil {
		return nil, err
	}
	payload := followObject(octx.Follow, follower, targetFid)
	payload["@context"] = shared.ActivityStreamsContext
	return []*Outgoing{{
		Payload: payload,
		Actor:   follower,
		To:      []Recipient{ToActor(owner)},
		Object:  octx.Follow.TargetRef(),
	}}, nil
}

func libraryOwner(store dal.IStore, libraryId int64) (*dal.Library, *dal.Actor, error) {
	lib, err := store.GetLibraryById(libraryId)
	if err != nil {
		return nil, nil, err
	}
	if lib == nil {
		return nil, nil, fmt.Errorf("library not found: %d", libraryId)
	}
	owner, err := store.GetActorById(lib.ActorId)
	if err != nil {
		return nil, nil, err
	}
	if owner == nil {
		return nil, nil, fmt.Errorf("library owner not found: %d", lib.ActorId)
	}
	return lib, owner, nil
}

func audioObject(upload *dal.Upload, lib *dal.Library) map[string]any {
	return map[string]any{
		"type":      "Audio",
		"id":        upload.Fid,
		"name":      upload.Name,
		"library":   lib.Fid,
		"published": upload.CreatedAt.UTC().Format(time.RFC3339),
		"bitrate":   upload.Bitrate,
		"size":      upload.Size,
		"duration":  upload.Duration,
		"url": map[string]any{
			"type":      "Link",
			"href":      upload.SourceUrl,
			"mediaType": upload.Mimetype,
		},
	}
}

func (oh *outboxHandlers) CreateAudio(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	if octx.Upload == nil {
		return nil, errMissingContext
	}
	lib, owner, err := libraryOwner(store, octx.Upload.LibraryId)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"@context": shared.ActivityStreamsContext,
		"type":     "Create",
		"object":   audioObject(octx.Upload, lib),
	}
	return []*Outgoing{{
		Payload: payload,
		Actor:   owner,
		To:      []Recipient{ToFollowersOf(lib.Ref())},
		Object:  octx.Upload.Ref(),
		Target:  lib.Ref(),
	}}, nil
}

func (oh *outboxHandlers) DeleteLibrary(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	if octx.Library == nil {
		return nil, errMissingContext
	}
	lib, owner, err := libraryOwner(store, octx.Library.Id)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"@context": shared.ActivityStreamsContext,
		"type":     "Delete",
		"object":   map[string]any{"type": "Library", "id": lib.Fid},
	}
	return []*Outgoing{{
		Payload: payload,
		Actor:   owner,
		To:      []Recipient{ToFollowersOf(lib.Ref())},
	}}, nil
}

// DeleteAudio announces the deletion of uploads, one activity per library they belong to.
func (oh *outboxHandlers) DeleteAudio(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	uploads := octx.Uploads
	if len(uploads) == 0 && octx.Upload != nil {
		uploads = []*dal.Upload{octx.Upload}
	}
	if len(uploads) == 0 {
		return nil, errMissingContext
	}
	var libOrder []int64
	fidsByLib := map[int64][]string{}
	for _, upload := range uploads {
		if _, seen := fidsByLib[upload.LibraryId]; !seen {
			libOrder = append(libOrder, upload.LibraryId)
		}
		fidsByLib[upload.LibraryId] = append(fidsByLib[upload.LibraryId], upload.Fid)
	}
	var res []*Outgoing
	for _, libId := range libOrder {
		lib, owner, err := libraryOwner(store, libId)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"@context": shared.ActivityStreamsContext,
			"type":     "Delete",
			"object":   map[string]any{"type": "Audio", "id": fidsByLib[libId]},
		}
		res = append(res, &Outgoing{
			Payload: payload,
			Actor:   owner,
			To:      []Recipient{ToFollowersOf(lib.Ref())},
		})
	}
	return res, nil
}

func (oh *outboxHandlers) UndoFollow(store dal.IStore, octx *OutboxContext) ([]*Outgoing, error) {
	if octx.Follow == nil {
		return nil, errMissingContext
	}
	follower, owner, targetFid, err := followParties(store, octx.Follow)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"@context": shared.ActivityStreamsContext,
		"type":     "Undo",
		"id":       octx.Follow.Fid + "/undo",
		"object":   followObject(octx.Follow, follower, targetFid),
	}
	return []*Outgoing{{
		Payload:       payload,
		Actor:         follower,
		To:            []Recipient{ToActor(owner)},
		Object:        octx.Follow.Ref(),
		RelatedObject: octx.Follow.TargetRef(),
	}}, nil
}
