package dal

import (
	"time"
)

// ObjectKind discriminates the entity an ObjectRef points into.
type ObjectKind string

const (
	KindActor         ObjectKind = "actor"
	KindLibrary       ObjectKind = "library"
	KindUpload        ObjectKind = "upload"
	KindFollow        ObjectKind = "follow"
	KindLibraryFollow ObjectKind = "library_follow"
)

// ObjectRef is a typed reference to a single row of one of the entity tables.
// The zero value means "no object".
type ObjectRef struct {
	Kind ObjectKind
	Id   int64
}

func (ref ObjectRef) IsZero() bool {
	return ref.Kind == "" || ref.Id == 0
}

// Follow approval states.
const (
	ApprovePending  = 0
	ApproveAccepted = 1
	ApproveRejected = -1
)

// Library privacy levels.
const (
	PrivacyMe       = "me"
	PrivacyInstance = "instance"
	PrivacyEveryone = "everyone"
)

type User struct {
	Id        int64
	Username  string
	CreatedAt time.Time
}

type Actor struct {
	Id                int64
	Fid               string
	PreferredUsername string
	Domain            string
	Type              string
	InboxUrl          string
	OutboxUrl         string
	SharedInboxUrl    string // Empty if the actor declares none
	FollowersUrl      string
	IsLocal           bool
	UserId            int64 // Zero if not linked to a local account
	PublicKey         string
	CreatedAt         time.Time
	LastFetchedAt     time.Time
}

func (a *Actor) HasUser() bool {
	return a.UserId != 0
}

// DeliveryInbox is where a remote peer wants to receive activities for this actor.
func (a *Actor) DeliveryInbox() string {
	if a.SharedInboxUrl != "" {
		return a.SharedInboxUrl
	}
	return a.InboxUrl
}

func (a *Actor) Ref() ObjectRef {
	return ObjectRef{KindActor, a.Id}
}

type Library struct {
	Id           int64
	Uuid         string
	Fid          string
	ActorId      int64
	Name         string
	PrivacyLevel string
	FollowersUrl string
	CreatedAt    time.Time
}

func (l *Library) Ref() ObjectRef {
	return ObjectRef{KindLibrary, l.Id}
}

type Upload struct {
	Id        int64
	Uuid      string
	Fid       string
	LibraryId int64
	Name      string
	Mimetype  string
	Size      int64
	Duration  int
	Bitrate   int
	SourceUrl string
	CreatedAt time.Time
}

func (u *Upload) Ref() ObjectRef {
	return ObjectRef{KindUpload, u.Id}
}

// Follow is a subscription of an actor to another actor (Kind == KindFollow)
// or to a library (Kind == KindLibraryFollow).
type Follow struct {
	Id         int64
	Kind       ObjectKind
	Uuid       string
	Fid        string // Empty until known
	ActorId    int64
	TargetId   int64
	Approved   int
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func (f *Follow) Ref() ObjectRef {
	return ObjectRef{f.Kind, f.Id}
}

// TargetRef points at the followed actor or library.
func (f *Follow) TargetRef() ObjectRef {
	if f.Kind == KindLibraryFollow {
		return ObjectRef{KindLibrary, f.TargetId}
	}
	return ObjectRef{KindActor, f.TargetId}
}

type Activity struct {
	Id            int64
	Uuid          string
	Fid           string // Empty for local activities without a published id
	Type          string
	ActorId       int64
	Payload       []byte
	Object        ObjectRef
	Target        ObjectRef
	RelatedObject ObjectRef
	CreatedAt     time.Time
}

// Names of an activity's link fields, as handlers return them.
const (
	LinkObject        = "object"
	LinkTarget        = "target"
	LinkRelatedObject = "related_object"
)

// Addressing kinds of an inbox item.
const (
	AddressedTo = "to"
	AddressedCc = "cc"
)

type InboxItem struct {
	Id         int64
	ActivityId int64
	ActorId    int64
	Type       string
	IsRead     bool
}

type Delivery struct {
	Id            int64
	ActivityId    int64
	InboxUrl      string
	IsDelivered   bool
	Attempts      int
	LastAttemptAt time.Time
	NextAttemptAt time.Time
}

// Names of queued jobs.
const (
	JobDispatchInbox  = "dispatch_inbox"
	JobDispatchOutbox = "dispatch_outbox"
)

type Job struct {
	Id            int64
	Name          string
	ActivityId    int64
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
}
