package logic

import (
	"errors"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/shared"
	"fmt"
	"github.com/google/uuid"
	"regexp"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_actor_directory.go -package mocks fed_core/logic IActorDirectory

var ErrInvalidName = errors.New("invalid name")
var ErrNameTaken = errors.New("name already taken")

var reUsername = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

type IActorDirectory interface {
	// GetActor returns the stored actor with the given fid, or nil.
	GetActor(fid string) (*dal.Actor, error)
	// ResolveActor returns the actor with the given fid, fetching and storing it if it is not yet known.
	ResolveActor(fid string) (*dal.Actor, error)
	StoreActorDoc(doc *dto.ActorDoc) (*dal.Actor, error)
	GetLocalActor(name string) (*dal.Actor, error)
	GetActorDoc(name string) (*dto.ActorDoc, error)
	CreateLocalActor(username string) (*dal.Actor, error)
	CreateLibrary(owner *dal.Actor, name, privacyLevel string) (*dal.Library, error)
}

type actorDirectory struct {
	cfg       *shared.Config
	logger    shared.ILogger
	repo      dal.IRepo
	keyStore  IKeyStore
	retriever IActorRetriever
	idb       shared.IdBuilder
}

func NewActorDirectory(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	keyStore IKeyStore,
	retriever IActorRetriever,
) IActorDirectory {
	return &actorDirectory{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		keyStore:  keyStore,
		retriever: retriever,
		idb:       shared.IdBuilder{Host: cfg.Host},
	}
}

func (ad *actorDirectory) GetActor(fid string) (*dal.Actor, error) {
	return ad.repo.GetActorByFid(fid)
}

func (ad *actorDirectory) ResolveActor(fid string) (*dal.Actor, error) {

	actor, err := ad.repo.GetActorByFid(fid)
	if err != nil || actor != nil {
		return actor, err
	}

	doc, err := ad.retriever.Retrieve(fid)
	if err != nil {
		return nil, err
	}
	if doc.Id != fid {
		return nil, fmt.Errorf("actor document at %s has id %s", fid, doc.Id)
	}
	return ad.StoreActorDoc(doc)
}

// StoreActorDoc creates a remote actor on first sight and refreshes its details otherwise.
// The document must already be known to come from the actor's own host.
func (ad *actorDirectory) StoreActorDoc(doc *dto.ActorDoc) (*dal.Actor, error) {

	if err := validateActorDoc(doc); err != nil {
		return nil, err
	}
	domain, _ := shared.GetHostName(doc.Id)
	if strings.EqualFold(domain, ad.cfg.Host) {
		return nil, fmt.Errorf("refusing to store local actor %s from a remote document", doc.Id)
	}
	actor := &dal.Actor{
		Fid:               doc.Id,
		PreferredUsername: doc.PreferredUserName,
		Domain:            domain,
		Type:              doc.Type,
		InboxUrl:          doc.Inbox,
		OutboxUrl:         doc.Outbox,
		SharedInboxUrl:    doc.Endpoints.SharedInbox,
		FollowersUrl:      doc.Followers,
		PublicKey:         doc.PublicKey.PublicKeyPem,
		LastFetchedAt:     time.Now(),
	}
	isNew, err := ad.repo.AddActorIfNotExist(actor)
	if err != nil {
		return nil, err
	}
	if !isNew {
		if err = ad.repo.UpdateRemoteActor(actor); err != nil {
			return nil, err
		}
	}
	return ad.repo.GetActorById(actor.Id)
}

func (ad *actorDirectory) GetLocalActor(name string) (*dal.Actor, error) {
	return ad.repo.GetLocalActor(strings.ToLower(name))
}

func (ad *actorDirectory) GetActorDoc(name string) (*dto.ActorDoc, error) {

	actor, err := ad.GetLocalActor(name)
	if err != nil || actor == nil {
		return nil, err
	}

	name = actor.PreferredUsername
	doc := dto.ActorDoc{
		Context: []string{
			shared.ActivityStreamsContext,
			"https://w3id.org/security/v1",
		},
		Id:                actor.Fid,
		Type:              actor.Type,
		PreferredUserName: name,
		Name:              name,
		ManuallyApproves:  true,
		Published:         actor.CreatedAt.UTC().Format(time.RFC3339),
		Inbox:             actor.InboxUrl,
		Outbox:            actor.OutboxUrl,
		Followers:         actor.FollowersUrl,
		Following:         ad.idb.ActorFollowing(name),
		Endpoints:         dto.ActorEndpoints{SharedInbox: actor.SharedInboxUrl},
		PublicKey: dto.PublicKey{
			Id:           ad.idb.ActorKeyId(name),
			Owner:        actor.Fid,
			PublicKeyPem: actor.PublicKey,
		},
	}
	return &doc, nil
}

// CreateLocalActor creates a user account and its actor, with a fresh key pair.
func (ad *actorDirectory) CreateLocalActor(username string) (*dal.Actor, error) {

	username = strings.ToLower(username)
	if !reUsername.MatchString(username) {
		return nil, ErrInvalidName
	}
	pubKey, privKey, err := ad.keyStore.MakeKeyPair()
	if err != nil {
		return nil, err
	}

	tx, err := ad.repo.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := tx.GetLocalActor(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}
	now := time.Now()
	userId, err := tx.CreateUser(username, now)
	if err != nil {
		return nil, err
	}
	actor := &dal.Actor{
		Fid:               ad.idb.ActorUrl(username),
		PreferredUsername: username,
		Domain:            ad.cfg.Host,
		Type:              "Person",
		InboxUrl:          ad.idb.ActorInbox(username),
		OutboxUrl:         ad.idb.ActorOutbox(username),
		SharedInboxUrl:    ad.idb.SharedInbox(),
		FollowersUrl:      ad.idb.ActorFollowers(username),
		IsLocal:           true,
		UserId:            userId,
		PublicKey:         pubKey,
		CreatedAt:         now,
	}
	isNew, err := tx.AddActorIfNotExist(actor)
	if err != nil {
		return nil, err
	}
	if !isNew {
		return nil, ErrNameTaken
	}
	if err = tx.SetActorPrivKey(actor.Id, privKey); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	ad.logger.Infof("Created local actor %s", actor.Fid)
	return actor, nil
}

func (ad *actorDirectory) CreateLibrary(owner *dal.Actor, name, privacyLevel string) (*dal.Library, error) {

	switch privacyLevel {
	case dal.PrivacyMe, dal.PrivacyInstance, dal.PrivacyEveryone:
	default:
		return nil, fmt.Errorf("invalid privacy level: '%s'", privacyLevel)
	}
	if !owner.IsLocal {
		return nil, fmt.Errorf("cannot create library for remote actor %s", owner.Fid)
	}
	libUuid := uuid.NewString()
	lib := &dal.Library{
		Uuid:         libUuid,
		Fid:          ad.idb.LibraryUrl(libUuid),
		ActorId:      owner.Id,
		Name:         name,
		PrivacyLevel: privacyLevel,
		FollowersUrl: ad.idb.LibraryFollowers(libUuid),
	}
	if err := ad.repo.CreateLibrary(lib); err != nil {
		return nil, err
	}
	return lib, nil
}
