package test

import (
	"encoding/json"
	"fed_core/dal"
	"fed_core/shared"
	"fmt"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"io"
	"path/filepath"
	"testing"
	"time"
)

const LocalHost = "music.local"

// NewTestConfig returns a config for a node at LocalHost with its database in a temp dir.
func NewTestConfig(t *testing.T) *shared.Config {
	cfg := &shared.Config{
		Host:    LocalHost,
		DbFile:  filepath.Join(t.TempDir(), "fed_core.db"),
		Secrets: shared.Secrets{PrivKeyPass: "test-passphrase", ApiKeys: []string{"test-api-key"}, MetricsAuth: "test-metrics"},
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewTestRepo opens a fresh SQLite database with the current schema.
func NewTestRepo(t *testing.T, cfg *shared.Config) dal.IRepo {
	repo := dal.NewRepo(cfg, NewDiscardLogger())
	repo.InitUpdateDb()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func NewDiscardLogger() shared.ILogger {
	return log.New(io.Discard)
}

// AddLocalActor stores a user and its actor, with canonical local URLs.
func AddLocalActor(t *testing.T, repo dal.IRepo, name string) *dal.Actor {
	idb := shared.IdBuilder{Host: LocalHost}
	userId, err := repo.CreateUser(name, time.Now())
	require.NoError(t, err)
	actor := &dal.Actor{
		Fid:               idb.ActorUrl(name),
		PreferredUsername: name,
		Domain:            LocalHost,
		Type:              "Person",
		InboxUrl:          idb.ActorInbox(name),
		OutboxUrl:         idb.ActorOutbox(name),
		SharedInboxUrl:    idb.SharedInbox(),
		FollowersUrl:      idb.ActorFollowers(name),
		IsLocal:           true,
		UserId:            userId,
	}
	isNew, err := repo.AddActorIfNotExist(actor)
	require.NoError(t, err)
	require.True(t, isNew)
	return actor
}

// RemoteActorUrl is the fid AddRemoteActor gives an actor.
func RemoteActorUrl(host, name string) string {
	return fmt.Sprintf("https://%s/users/%s", host, name)
}

// AddRemoteActor stores an actor of another instance. sharedInbox may be empty.
func AddRemoteActor(t *testing.T, repo dal.IRepo, host, name string, withSharedInbox bool) *dal.Actor {
	fid := RemoteActorUrl(host, name)
	actor := &dal.Actor{
		Fid:               fid,
		PreferredUsername: name,
		Domain:            host,
		Type:              "Person",
		InboxUrl:          fid + "/inbox",
		OutboxUrl:         fid + "/outbox",
		FollowersUrl:      fid + "/followers",
		LastFetchedAt:     time.Now(),
	}
	if withSharedInbox {
		actor.SharedInboxUrl = fmt.Sprintf("https://%s/inbox", host)
	}
	isNew, err := repo.AddActorIfNotExist(actor)
	require.NoError(t, err)
	require.True(t, isNew)
	return actor
}

// AddLibrary stores a library owned by owner. Local owners get local URLs, remote owners URLs on their host.
func AddLibrary(t *testing.T, repo dal.IRepo, owner *dal.Actor, name, privacy string) *dal.Library {
	libUuid := uuid.NewString()
	fid := fmt.Sprintf("https://%s/libraries/%s", owner.Domain, libUuid)
	if owner.IsLocal {
		idb := shared.IdBuilder{Host: LocalHost}
		fid = idb.LibraryUrl(libUuid)
	}
	lib := &dal.Library{
		Uuid:         libUuid,
		Fid:          fid,
		ActorId:      owner.Id,
		Name:         name,
		PrivacyLevel: privacy,
		FollowersUrl: fid + "/followers",
	}
	require.NoError(t, repo.CreateLibrary(lib))
	return lib
}

func AddUpload(t *testing.T, repo dal.IRepo, lib *dal.Library, name string) *dal.Upload {
	upUuid := uuid.NewString()
	upload := &dal.Upload{
		Uuid:      upUuid,
		Fid:       fmt.Sprintf("%s/uploads/%s", lib.Fid, upUuid),
		LibraryId: lib.Id,
		Name:      name,
		Mimetype:  "audio/ogg",
		Size:      1 << 20,
		Duration:  180,
		Bitrate:   192000,
	}
	require.NoError(t, repo.CreateUpload(upload))
	return upload
}

// AddFollow stores a follow of actor towards targetId; kind picks actor or library follows.
func AddFollow(t *testing.T, repo dal.IRepo, kind dal.ObjectKind, actor *dal.Actor, targetId int64, approved int) *dal.Follow {
	followUuid := uuid.NewString()
	follow := &dal.Follow{
		Kind:     kind,
		Uuid:     followUuid,
		Fid:      fmt.Sprintf("https://%s/follows/%s", actor.Domain, followUuid),
		ActorId:  actor.Id,
		TargetId: targetId,
		Approved: approved,
	}
	require.NoError(t, repo.CreateFollow(follow))
	return follow
}

func MustJson(t *testing.T, obj any) []byte {
	res, err := json.Marshal(obj)
	require.NoError(t, err)
	return res
}

func ParseJson(t *testing.T, data []byte) map[string]any {
	var res map[string]any
	require.NoError(t, json.Unmarshal(data, &res))
	return res
}
