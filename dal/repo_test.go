package dal_test

import (
	"fed_core/dal"
	"fed_core/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

const remoteHost = "remote.example"

func setupRepo(t *testing.T) dal.IRepo {
	return test.NewTestRepo(t, test.NewTestConfig(t))
}

func actorIds(actors []*dal.Actor) []int64 {
	res := make([]int64, 0, len(actors))
	for _, a := range actors {
		res = append(res, a.Id)
	}
	return res
}

func newActivity(actorId int64, fid string) *dal.Activity {
	return &dal.Activity{
		Uuid:    uuid.NewString(),
		Fid:     fid,
		Type:    "Create",
		ActorId: actorId,
		Payload: []byte(`{"type":"Create"}`),
	}
}

func Test_Actor_AddIfNotExist(t *testing.T) {
	repo := setupRepo(t)
	bob := test.AddRemoteActor(t, repo, remoteHost, "bob", true)

	again := &dal.Actor{Fid: bob.Fid, Type: "Person", InboxUrl: bob.InboxUrl}
	isNew, err := repo.AddActorIfNotExist(again)
	assert.Nil(t, err)
	assert.False(t, isNew)
	assert.Equal(t, bob.Id, again.Id)

	stored, err := repo.GetActorByFid(bob.Fid)
	assert.Nil(t, err)
	assert.Equal(t, "https://remote.example/inbox", stored.DeliveryInbox())
	assert.False(t, stored.HasUser())

	missing, err := repo.GetActorByFid("https://nowhere.example/users/x")
	assert.Nil(t, err)
	assert.Nil(t, missing)
}

func Test_Actor_UpdateRemoteLeavesLocalAlone(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")

	err := repo.UpdateRemoteActor(&dal.Actor{Fid: alice.Fid, Type: "Service", InboxUrl: "https://evil.example/inbox"})
	assert.Nil(t, err)

	stored, err := repo.GetLocalActor("alice")
	assert.Nil(t, err)
	assert.Equal(t, alice.InboxUrl, stored.InboxUrl)
	assert.Equal(t, "Person", stored.Type)
	assert.True(t, stored.HasUser())
}

func Test_Audience_ExpandsApprovedFollowers(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")
	bob := test.AddRemoteActor(t, repo, remoteHost, "bob", false)
	carol := test.AddRemoteActor(t, repo, remoteHost, "carol", false)
	dave := test.AddRemoteActor(t, repo, remoteHost, "dave", false)
	erin := test.AddRemoteActor(t, repo, remoteHost, "erin", false)
	lib := test.AddLibrary(t, repo, alice, "Tapes", dal.PrivacyEveryone)

	test.AddFollow(t, repo, dal.KindFollow, bob, alice.Id, dal.ApproveAccepted)
	test.AddFollow(t, repo, dal.KindFollow, carol, alice.Id, dal.ApprovePending)
	test.AddFollow(t, repo, dal.KindFollow, erin, alice.Id, dal.ApproveRejected)
	test.AddFollow(t, repo, dal.KindLibraryFollow, dave, lib.Id, dal.ApproveAccepted)
	test.AddFollow(t, repo, dal.KindLibraryFollow, erin, lib.Id, dal.ApproveRejected)

	actors, err := repo.GetActorsFromAudience([]string{alice.FollowersUrl})
	assert.Nil(t, err)
	assert.Equal(t, []int64{bob.Id}, actorIds(actors))

	actors, err = repo.GetActorsFromAudience([]string{lib.FollowersUrl, alice.Fid})
	assert.Nil(t, err)
	assert.Equal(t, []int64{alice.Id, dave.Id}, actorIds(actors))

	actors, err = repo.GetActorsFromAudience(nil)
	assert.Nil(t, err)
	assert.Empty(t, actors)

	followers, err := repo.GetApprovedFollowers(lib.Ref())
	assert.Nil(t, err)
	assert.Equal(t, []int64{dave.Id}, actorIds(followers))

	_, err = repo.GetApprovedFollowers(dal.ObjectRef{Kind: dal.KindUpload, Id: 1})
	assert.NotNil(t, err)
}

func Test_Follow_ApproveAndDelete(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")
	bob := test.AddRemoteActor(t, repo, remoteHost, "bob", false)
	follow := test.AddFollow(t, repo, dal.KindFollow, bob, alice.Id, dal.ApprovePending)

	byFid, err := repo.GetFollowByFid(dal.KindFollow, follow.Fid)
	assert.Nil(t, err)
	assert.Equal(t, follow.Id, byFid.Id)
	assert.Equal(t, dal.ObjectRef{Kind: dal.KindActor, Id: alice.Id}, byFid.TargetRef())

	assert.Nil(t, repo.SetFollowApproved(follow.Ref(), dal.ApproveAccepted, time.Now()))
	between, err := repo.GetFollowBetween(dal.KindFollow, bob.Id, alice.Id)
	assert.Nil(t, err)
	assert.Equal(t, dal.ApproveAccepted, between.Approved)

	// Same pair in the library table is a different follow
	other, err := repo.GetFollowBetween(dal.KindLibraryFollow, bob.Id, alice.Id)
	assert.Nil(t, err)
	assert.Nil(t, other)

	assert.Nil(t, repo.DeleteFollow(follow.Ref()))
	gone, err := repo.GetFollow(follow.Ref())
	assert.Nil(t, err)
	assert.Nil(t, gone)
}

func Test_Library_DeleteCascades(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")
	bob := test.AddRemoteActor(t, repo, remoteHost, "bob", false)
	lib := test.AddLibrary(t, repo, alice, "Tapes", dal.PrivacyMe)
	upload := test.AddUpload(t, repo, lib, "Side A")
	follow := test.AddFollow(t, repo, dal.KindLibraryFollow, bob, lib.Id, dal.ApproveAccepted)

	byFid, err := repo.GetUploadByFid(upload.Fid)
	assert.Nil(t, err)
	assert.Equal(t, upload.Id, byFid.Id)
	assert.Equal(t, 180, byFid.Duration)

	assert.Nil(t, repo.DeleteLibrary(lib.Id))
	gone, err := repo.GetUploadById(upload.Id)
	assert.Nil(t, err)
	assert.Nil(t, gone)
	goneFollow, err := repo.GetFollow(follow.Ref())
	assert.Nil(t, err)
	assert.Nil(t, goneFollow)
}

func Test_Activity_DuplicateFidIsNotNew(t *testing.T) {
	repo := setupRepo(t)
	bob := test.AddRemoteActor(t, repo, remoteHost, "bob", false)

	first := newActivity(bob.Id, "https://remote.example/activities/1")
	isNew, err := repo.InsertActivity(first)
	assert.Nil(t, err)
	assert.True(t, isNew)
	assert.NotZero(t, first.Id)

	second := newActivity(bob.Id, "https://remote.example/activities/1")
	isNew, err = repo.InsertActivity(second)
	assert.Nil(t, err)
	assert.False(t, isNew)

	// Activities without a fid never collide
	for i := 0; i < 2; i++ {
		isNew, err = repo.InsertActivity(newActivity(bob.Id, ""))
		assert.Nil(t, err)
		assert.True(t, isNew)
	}
}

func Test_Activity_BulkInsertAssignsIds(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")

	acts := []*dal.Activity{newActivity(alice.Id, ""), newActivity(alice.Id, ""), newActivity(alice.Id, "")}
	acts[1].Object = dal.ObjectRef{Kind: dal.KindActor, Id: alice.Id}
	require.Nil(t, repo.InsertActivities(acts))

	seen := map[int64]bool{}
	for _, act := range acts {
		assert.NotZero(t, act.Id)
		assert.False(t, seen[act.Id])
		seen[act.Id] = true
		stored, err := repo.GetActivity(act.Id)
		require.Nil(t, err)
		assert.Equal(t, act.Uuid, stored.Uuid)
		assert.Equal(t, act.Object, stored.Object)
	}

	dup := []*dal.Activity{newActivity(alice.Id, ""), newActivity(alice.Id, "")}
	dup[1].Uuid = dup[0].Uuid
	assert.NotNil(t, repo.InsertActivities(dup))
}

func Test_Activity_UpdateLinks(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")
	lib := test.AddLibrary(t, repo, alice, "Tapes", dal.PrivacyMe)
	act := newActivity(alice.Id, "")
	_, err := repo.InsertActivity(act)
	require.Nil(t, err)

	err = repo.UpdateActivityLinks(act.Id, map[string]dal.ObjectRef{
		dal.LinkObject:        lib.Ref(),
		dal.LinkRelatedObject: alice.Ref(),
	})
	assert.Nil(t, err)
	stored, err := repo.GetActivity(act.Id)
	require.Nil(t, err)
	assert.Equal(t, lib.Ref(), stored.Object)
	assert.True(t, stored.Target.IsZero())
	assert.Equal(t, alice.Ref(), stored.RelatedObject)

	err = repo.UpdateActivityLinks(act.Id, map[string]dal.ObjectRef{"subject": lib.Ref()})
	assert.NotNil(t, err)
}

func Test_Delivery_PendingAndUpdate(t *testing.T) {
	repo := setupRepo(t)
	alice := test.AddLocalActor(t, repo, "alice")
	act := newActivity(alice.Id, "")
	_, err := repo.InsertActivity(act)
	require.Nil(t, err)

	err = repo.InsertDeliveries([]*dal.Delivery{
		{ActivityId: act.Id, InboxUrl: "https://a.example/inbox"},
		{ActivityId: act.Id, InboxUrl: "https://b.example/inbox"},
	})
	require.Nil(t, err)

	pending, err := repo.GetDeliveries(act.Id, true)
	require.Nil(t, err)
	require.Equal(t, 2, len(pending))
	assert.True(t, pending[0].NextAttemptAt.IsZero())

	next := time.Now().Add(time.Hour).Truncate(time.Second)
	pending[0].IsDelivered = true
	pending[0].Attempts = 1
	pending[1].Attempts = 1
	pending[1].NextAttemptAt = next
	assert.Nil(t, repo.UpdateDelivery(pending[0]))
	assert.Nil(t, repo.UpdateDelivery(pending[1]))

	pending, err = repo.GetDeliveries(act.Id, true)
	require.Nil(t, err)
	require.Equal(t, 1, len(pending))
	assert.Equal(t, "https://b.example/inbox", pending[0].InboxUrl)
	assert.True(t, next.Equal(pending[0].NextAttemptAt))

	all, err := repo.GetDeliveries(act.Id, false)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(all))
}

func Test_Jobs_DueOrder(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now()

	later := &dal.Job{Name: dal.JobDispatchOutbox, ActivityId: 2, NextAttemptAt: now.Add(time.Hour)}
	first := &dal.Job{Name: dal.JobDispatchInbox, ActivityId: 1, NextAttemptAt: now.Add(-time.Minute)}
	second := &dal.Job{Name: dal.JobDispatchOutbox, ActivityId: 1, NextAttemptAt: now.Add(-time.Second)}
	for _, job := range []*dal.Job{later, first, second} {
		require.Nil(t, repo.AddJob(job))
	}

	due, err := repo.GetDueJobs(now, 10)
	assert.Nil(t, err)
	require.Equal(t, 2, len(due))
	assert.Equal(t, first.Id, due[0].Id)
	assert.Equal(t, second.Id, due[1].Id)

	assert.Nil(t, repo.RescheduleJob(first.Id, 1, now.Add(2*time.Hour)))
	assert.Nil(t, repo.DeleteJob(second.Id))
	due, err = repo.GetDueJobs(now, 10)
	assert.Nil(t, err)
	assert.Empty(t, due)

	count, err := repo.GetJobCount()
	assert.Nil(t, err)
	assert.Equal(t, 2, count)
}

func Test_Tx_RollbackDiscards(t *testing.T) {
	repo := setupRepo(t)

	tx, err := repo.Begin()
	require.Nil(t, err)
	bob := &dal.Actor{Fid: test.RemoteActorUrl(remoteHost, "bob"), Type: "Person"}
	_, err = tx.AddActorIfNotExist(bob)
	require.Nil(t, err)
	require.Nil(t, tx.Rollback())

	stored, err := repo.GetActorByFid(bob.Fid)
	assert.Nil(t, err)
	assert.Nil(t, stored)

	tx, err = repo.Begin()
	require.Nil(t, err)
	_, err = tx.AddActorIfNotExist(bob)
	require.Nil(t, err)
	require.Nil(t, tx.Commit())
	// Deferred rollbacks after commit are harmless
	assert.Nil(t, tx.Rollback())

	stored, err = repo.GetActorByFid(bob.Fid)
	assert.Nil(t, err)
	assert.NotNil(t, stored)
}
