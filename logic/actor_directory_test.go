package logic_test

import (
	"errors"
	"fed_core/dal"
	"fed_core/logic"
	"fed_core/test"
	"fed_core/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"strings"
	"testing"
)

type directoryHarness struct {
	repo          dal.IRepo
	keyStore      logic.IKeyStore
	mockRetriever *mocks.MockIActorRetriever
	adir          logic.IActorDirectory
}

func setupActorDirectory(t *testing.T) *directoryHarness {

	ctrl := gomock.NewController(t)
	cfg := test.NewTestConfig(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	test.SetupDummyLogger(mockLogger)

	h := &directoryHarness{
		repo:          test.NewTestRepo(t, cfg),
		mockRetriever: mocks.NewMockIActorRetriever(ctrl),
	}
	h.keyStore = logic.NewKeyStore(cfg, h.repo)
	h.adir = logic.NewActorDirectory(cfg, mockLogger, h.repo, h.keyStore, h.mockRetriever)
	return h
}

func Test_ActorDirectory_CreateLocalActor(t *testing.T) {

	h := setupActorDirectory(t)

	actor, err := h.adir.CreateLocalActor("Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", actor.PreferredUsername)
	assert.Equal(t, "https://music.local/federation/actors/alice", actor.Fid)
	assert.Equal(t, "https://music.local/federation/shared/inbox", actor.SharedInboxUrl)
	assert.True(t, actor.IsLocal)
	assert.True(t, actor.HasUser())

	stored, err := h.adir.GetLocalActor("ALICE")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, actor.Id, stored.Id)

	privKey, err := h.keyStore.GetPrivKey(actor.Id)
	require.NoError(t, err)
	assert.NotNil(t, privKey)

	_, err = h.adir.CreateLocalActor("alice")
	assert.ErrorIs(t, err, logic.ErrNameTaken)
}

func Test_ActorDirectory_InvalidNames(t *testing.T) {

	h := setupActorDirectory(t)
	for _, name := range []string{"", "has space", "dash-ed", "émile", strings.Repeat("x", 65)} {
		_, err := h.adir.CreateLocalActor(name)
		assert.ErrorIs(t, err, logic.ErrInvalidName, name)
	}
}

func Test_ActorDirectory_GetActorDoc(t *testing.T) {

	h := setupActorDirectory(t)
	actor, err := h.adir.CreateLocalActor("alice")
	require.NoError(t, err)

	doc, err := h.adir.GetActorDoc("alice")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, actor.Fid, doc.Id)
	assert.Equal(t, "Person", doc.Type)
	assert.Equal(t, "alice", doc.PreferredUserName)
	assert.Equal(t, actor.InboxUrl, doc.Inbox)
	assert.Equal(t, actor.FollowersUrl, doc.Followers)
	assert.Equal(t, actor.SharedInboxUrl, doc.Endpoints.SharedInbox)
	assert.Equal(t, actor.Fid+"#main-key", doc.PublicKey.Id)
	assert.Equal(t, actor.Fid, doc.PublicKey.Owner)
	assert.True(t, strings.HasPrefix(doc.PublicKey.PublicKeyPem, "-----BEGIN PUBLIC KEY-----"))

	missing, err := h.adir.GetActorDoc("nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func Test_ActorDirectory_CreateLibrary(t *testing.T) {

	h := setupActorDirectory(t)
	alice := test.AddLocalActor(t, h.repo, "alice")
	bob := test.AddRemoteActor(t, h.repo, remoteHost, "bob", true)

	lib, err := h.adir.CreateLibrary(alice, "Field recordings", dal.PrivacyInstance)
	require.NoError(t, err)
	assert.Equal(t, "https://music.local/federation/music/libraries/"+lib.Uuid, lib.Fid)
	assert.Equal(t, lib.Fid+"/followers", lib.FollowersUrl)

	stored, err := h.repo.GetLibraryByFid(lib.Fid)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, alice.Id, stored.ActorId)
	assert.Equal(t, dal.PrivacyInstance, stored.PrivacyLevel)

	_, err = h.adir.CreateLibrary(alice, "Oops", "friends")
	assert.Error(t, err)
	_, err = h.adir.CreateLibrary(bob, "Not ours", dal.PrivacyEveryone)
	assert.Error(t, err)
}

func Test_ActorDirectory_ResolveActor(t *testing.T) {

	h := setupActorDirectory(t)
	_, pubPem := makeRsaKey(t)
	h.mockRetriever.EXPECT().Retrieve(bobFid).Return(makeActorDoc(bobFid, pubPem), nil).Times(1)

	actor, err := h.adir.ResolveActor(bobFid)
	require.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, bobFid, actor.Fid)
	assert.Equal(t, remoteHost, actor.Domain)

	// Known now, so no second fetch
	again, err := h.adir.ResolveActor(bobFid)
	require.NoError(t, err)
	assert.Equal(t, actor.Id, again.Id)

	known, err := h.adir.GetActor(bobFid)
	require.NoError(t, err)
	assert.Equal(t, actor.Id, known.Id)
}

func Test_ActorDirectory_ResolveActorFailure(t *testing.T) {

	h := setupActorDirectory(t)
	ghost := test.RemoteActorUrl(remoteHost, "ghost")
	h.mockRetriever.EXPECT().Retrieve(ghost).Return(nil, errors.New("got status 404"))

	actor, err := h.adir.ResolveActor(ghost)
	assert.Error(t, err)
	assert.Nil(t, actor)
}
