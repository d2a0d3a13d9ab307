package logic_test

import (
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/test"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func followPayload(id string, follower *dal.Actor, targetFid, to string) map[string]any {
	return map[string]any{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       id,
		"type":     "Follow",
		"actor":    follower.Fid,
		"object":   targetFid,
		"to":       []string{to},
	}
}

func Test_Inbox_FollowOpenLibraryIsAccepted(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, alice, "Demos", "everyone")

	followFid := "https://remote.example/follows/1"
	act := h.receive(t, bob, followPayload(followFid, bob, lib.Fid, alice.Fid))

	follow, err := h.repo.GetFollowBetween(dal.KindLibraryFollow, bob.Id, lib.Id)
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.Equal(t, followFid, follow.Fid)
	assert.Equal(t, dal.ApproveAccepted, follow.Approved)

	assert.Equal(t, lib.Ref(), act.Object)
	assert.Equal(t, follow.Ref(), act.RelatedObject)
	assert.True(t, act.Target.IsZero())

	// The Accept is only queued for delivery once the follow has committed
	require.Len(t, h.jobs.Jobs, 2)
	assert.Equal(t, test.RecordedJob{Name: dal.JobDispatchInbox, ActivityId: act.Id}, h.jobs.Jobs[0])
	acceptIds := h.jobsNamed(dal.JobDispatchOutbox)
	require.Len(t, acceptIds, 1)

	accept, err := h.repo.GetActivity(acceptIds[0])
	require.NoError(t, err)
	require.NotNil(t, accept)
	assert.Equal(t, "Accept", accept.Type)
	assert.Equal(t, alice.Id, accept.ActorId)
	assert.Equal(t, follow.Ref(), accept.Object)
	assert.Empty(t, accept.Fid)

	payload := test.ParseJson(t, accept.Payload)
	assert.Equal(t, followFid+"/accept", payload["id"])
	assert.Equal(t, alice.Fid, payload["actor"])
	assert.Equal(t, []any{bob.Fid}, payload["to"])
	acceptedFollow := payload["object"].(map[string]any)
	assert.Equal(t, followFid, acceptedFollow["id"])
	assert.Equal(t, bob.Fid, acceptedFollow["actor"])
	assert.Equal(t, lib.Fid, acceptedFollow["object"])

	assert.Equal(t, []string{"https://remote.example/inbox"}, deliveryUrls(t, h.repo, accept.Id))
	assert.Empty(t, inboxItemActors(t, h.repo, accept.Id))
}

func Test_Inbox_FollowNotifiesOwner(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, alice, "Demos", "everyone")

	act := h.receive(t, bob, followPayload("https://remote.example/follows/1", bob, lib.Fid, alice.Fid))

	require.Len(t, h.events, 1)
	assert.Equal(t, fmt.Sprintf("user.%d.inbox", alice.UserId), h.events[0].group)
	event := h.events[0].event
	assert.Equal(t, "event.send", event.Type)
	added, ok := event.Data.(*dto.InboxItemAdded)
	require.True(t, ok)
	assert.Equal(t, "inbox.item_added", added.Type)
	assert.Equal(t, "to", added.Item.Type)
	assert.False(t, added.Item.IsRead)
	assert.Equal(t, act.Id, added.Item.Activity.Id)
	assert.Equal(t, "Follow", added.Item.Activity.Type)
	assert.Equal(t, bob.Fid, added.Item.Activity.Actor)
	require.NotNil(t, added.Item.Activity.Object)
	assert.Equal(t, "library", added.Item.Activity.Object.Kind)
	assert.Equal(t, lib.Fid, added.Item.Activity.Object.Fid)
	require.NotNil(t, added.Item.Activity.RelatedObject)
	assert.Equal(t, "library_follow", added.Item.Activity.RelatedObject.Kind)
	assert.Equal(t, "https://remote.example/follows/1", added.Item.Activity.RelatedObject.Fid)
	assert.Nil(t, added.Item.Activity.Target)
}

func Test_Inbox_FollowPrivateLibraryStaysPending(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, alice, "Drafts", "me")

	h.receive(t, bob, followPayload("https://remote.example/follows/2", bob, lib.Fid, alice.Fid))

	follow, err := h.repo.GetFollowBetween(dal.KindLibraryFollow, bob.Id, lib.Id)
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.Equal(t, dal.ApprovePending, follow.Approved)
	assert.Empty(t, h.jobsNamed(dal.JobDispatchOutbox))
}

func Test_Inbox_RepeatedFollowIsNotAcceptedTwice(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, alice, "Demos", "everyone")

	h.receive(t, bob, followPayload("https://remote.example/follows/3", bob, lib.Fid, alice.Fid))
	h.receive(t, bob, followPayload("https://remote.example/follows/4", bob, lib.Fid, alice.Fid))

	follow, err := h.repo.GetFollowBetween(dal.KindLibraryFollow, bob.Id, lib.Id)
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.Equal(t, "https://remote.example/follows/3", follow.Fid)
	assert.Len(t, h.jobsNamed(dal.JobDispatchOutbox), 1)
}

func Test_Inbox_FollowLocalActor(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)

	act := h.receive(t, bob, followPayload("https://remote.example/follows/5", bob, alice.Fid, alice.Fid))

	follow, err := h.repo.GetFollowBetween(dal.KindFollow, bob.Id, alice.Id)
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.Equal(t, dal.ApprovePending, follow.Approved)
	assert.Equal(t, alice.Ref(), act.Object)
	assert.Equal(t, follow.Ref(), act.RelatedObject)
}

func Test_Inbox_FollowOfUnknownObjectIsIgnored(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)

	act := h.receive(t, bob, followPayload("https://remote.example/follows/6", bob,
		"https://music.local/federation/music/libraries/missing", alice.Fid))

	assert.True(t, act.Object.IsZero())
	assert.Empty(t, h.jobsNamed(dal.JobDispatchOutbox))
}

func acceptPayload(id string, owner, follower *dal.Actor, follow *dal.Follow, targetFid string) map[string]any {
	return map[string]any{
		"id":    id,
		"type":  "Accept",
		"actor": owner.Fid,
		"to":    follower.Fid,
		"object": map[string]any{
			"id":     follow.Fid,
			"type":   "Follow",
			"actor":  follower.Fid,
			"object": targetFid,
		},
	}
}

func Test_Inbox_AcceptByOwner(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "me")
	follow := test.AddFollow(t, h.repo, dal.KindLibraryFollow, alice, lib.Id, dal.ApprovePending)

	act := h.receive(t, bob, acceptPayload("https://remote.example/accepts/1", bob, alice, follow, lib.Fid))

	stored, err := h.repo.GetFollow(follow.Ref())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, dal.ApproveAccepted, stored.Approved)
	assert.Equal(t, follow.Ref(), act.Object)
	assert.Equal(t, lib.Ref(), act.RelatedObject)

	require.Len(t, h.events, 1)
	assert.Equal(t, fmt.Sprintf("user.%d.inbox", alice.UserId), h.events[0].group)
}

func Test_Inbox_AcceptByImpostorIsIgnored(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	carol := test.AddRemoteActor(t, h.repo, otherHost, "carol", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "me")
	follow := test.AddFollow(t, h.repo, dal.KindLibraryFollow, alice, lib.Id, dal.ApprovePending)

	act := h.receive(t, carol, acceptPayload("https://other.example/accepts/1", carol, alice, follow, lib.Fid))

	stored, err := h.repo.GetFollow(follow.Ref())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, dal.ApprovePending, stored.Approved)
	assert.True(t, act.Object.IsZero())
}

func createAudioPayload(id string, owner *dal.Actor, lib *dal.Library, audioFid string) map[string]any {
	return map[string]any{
		"id":    id,
		"type":  "Create",
		"actor": owner.Fid,
		"to":    []string{lib.FollowersUrl},
		"object": map[string]any{
			"id":       audioFid,
			"type":     "Audio",
			"name":     "<b>Song</b> &amp; more",
			"library":  lib.Fid,
			"bitrate":  128000,
			"size":     4096,
			"duration": 215,
			"url": map[string]any{
				"type":      "Link",
				"href":      audioFid + ".mp3",
				"mediaType": "audio/mpeg",
			},
		},
	}
}

func Test_Inbox_CreateAudioByOwner(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "everyone")
	test.AddFollow(t, h.repo, dal.KindLibraryFollow, alice, lib.Id, dal.ApproveAccepted)

	audioFid := "https://remote.example/uploads/1"
	act := h.receive(t, bob, createAudioPayload("https://remote.example/activities/10", bob, lib, audioFid))

	upload, err := h.repo.GetUploadByFid(audioFid)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, lib.Id, upload.LibraryId)
	assert.Equal(t, "Song & more", upload.Name)
	assert.Equal(t, "audio/mpeg", upload.Mimetype)
	assert.Equal(t, audioFid+".mp3", upload.SourceUrl)
	assert.Equal(t, int64(4096), upload.Size)
	assert.Equal(t, 215, upload.Duration)
	assert.Equal(t, 128000, upload.Bitrate)

	assert.Equal(t, upload.Ref(), act.Object)
	assert.Equal(t, lib.Ref(), act.Target)
	assert.Equal(t, []int64{alice.Id}, inboxItemActors(t, h.repo, act.Id))

	// Create is not pushed to notification channels
	assert.Empty(t, h.events)
}

func Test_Inbox_CreateAudioByImpostorIsIgnored(t *testing.T) {

	h := setupFederation(t)
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	carol := test.AddRemoteActor(t, h.repo, otherHost, "carol", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "everyone")

	audioFid := "https://other.example/uploads/1"
	act := h.receive(t, carol, createAudioPayload("https://other.example/activities/1", carol, lib, audioFid))

	upload, err := h.repo.GetUploadByFid(audioFid)
	require.NoError(t, err)
	assert.Nil(t, upload)
	assert.True(t, act.Object.IsZero())
}

func deletePayload(id string, actor *dal.Actor, objType string, objIds any) map[string]any {
	return map[string]any{
		"id":     id,
		"type":   "Delete",
		"actor":  actor.Fid,
		"object": map[string]any{"type": objType, "id": objIds},
	}
}

func Test_Inbox_DeleteLibrary(t *testing.T) {

	h := setupFederation(t)
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	carol := test.AddRemoteActor(t, h.repo, otherHost, "carol", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "everyone")
	upload := test.AddUpload(t, h.repo, lib, "Side A")

	h.receive(t, carol, deletePayload("https://other.example/deletes/1", carol, "Library", lib.Fid))
	stored, err := h.repo.GetLibraryByFid(lib.Fid)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	h.receive(t, bob, deletePayload("https://remote.example/deletes/1", bob, "Library", lib.Fid))
	stored, err = h.repo.GetLibraryByFid(lib.Fid)
	require.NoError(t, err)
	assert.Nil(t, stored)
	gone, err := h.repo.GetUploadById(upload.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func Test_Inbox_DeleteAudio(t *testing.T) {

	h := setupFederation(t)
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	carol := test.AddRemoteActor(t, h.repo, otherHost, "carol", true)
	lib := test.AddLibrary(t, h.repo, bob, "Tapes", "everyone")
	up1 := test.AddUpload(t, h.repo, lib, "Side A")
	up2 := test.AddUpload(t, h.repo, lib, "Side B")
	up3 := test.AddUpload(t, h.repo, lib, "Side C")

	h.receive(t, carol, deletePayload("https://other.example/deletes/2", carol, "Audio", up1.Fid))
	stored, err := h.repo.GetUploadById(up1.Id)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	h.receive(t, bob, deletePayload("https://remote.example/deletes/2", bob, "Audio",
		[]string{up1.Fid, up2.Fid, "https://remote.example/uploads/unknown"}))
	for _, up := range []*dal.Upload{up1, up2} {
		stored, err = h.repo.GetUploadById(up.Id)
		require.NoError(t, err)
		assert.Nil(t, stored)
	}
	stored, err = h.repo.GetUploadById(up3.Id)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func Test_Inbox_UndoFollow(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)
	carol := test.AddRemoteActor(t, h.repo, otherHost, "carol", true)
	lib := test.AddLibrary(t, h.repo, alice, "Demos", "everyone")
	follow := test.AddFollow(t, h.repo, dal.KindLibraryFollow, bob, lib.Id, dal.ApproveAccepted)

	undo := func(id string, actor *dal.Actor) map[string]any {
		return map[string]any{
			"id":    id,
			"type":  "Undo",
			"actor": actor.Fid,
			"object": map[string]any{
				"id":     follow.Fid,
				"type":   "Follow",
				"actor":  bob.Fid,
				"object": lib.Fid,
			},
		}
	}

	h.receive(t, carol, undo("https://other.example/undos/1", carol))
	stored, err := h.repo.GetFollow(follow.Ref())
	require.NoError(t, err)
	assert.NotNil(t, stored)

	h.receive(t, bob, undo("https://remote.example/undos/1", bob))
	stored, err = h.repo.GetFollow(follow.Ref())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func Test_Inbox_UnroutedActivityIsStoredOnly(t *testing.T) {

	h := setupFederation(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)

	act := h.receive(t, bob, map[string]any{
		"id":     "https://remote.example/likes/1",
		"type":   "Like",
		"actor":  bob.Fid,
		"object": "https://music.local/federation/music/uploads/1",
		"to":     alice.Fid,
	})

	assert.True(t, act.Object.IsZero())
	assert.Equal(t, []int64{alice.Id}, inboxItemActors(t, h.repo, act.Id))
	assert.Empty(t, h.events)
	assert.Equal(t, []test.RecordedJob{{Name: dal.JobDispatchInbox, ActivityId: act.Id}}, h.jobs.Jobs)
}

func Test_Inbox_DispatchMissingActivity(t *testing.T) {
	h := setupFederation(t)
	assert.NoError(t, h.inbox.DispatchActivity(4242))
}
