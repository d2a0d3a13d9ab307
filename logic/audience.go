package logic

import (
	"fed_core/dal"
	"fed_core/shared"
	"sort"
)

type RecipientKind int

const (
	RecipientActor RecipientKind = iota
	RecipientPublic
	RecipientFollowers
)

// Recipient is one entry of an outgoing activity's to or cc list.
type Recipient struct {
	Kind   RecipientKind
	Actor  *dal.Actor    // RecipientActor
	Target dal.ObjectRef // RecipientFollowers: the followed actor or library
}

func ToActor(actor *dal.Actor) Recipient {
	return Recipient{Kind: RecipientActor, Actor: actor}
}

func ToPublic() Recipient {
	return Recipient{Kind: RecipientPublic}
}

func ToFollowersOf(target dal.ObjectRef) Recipient {
	return Recipient{Kind: RecipientFollowers, Target: target}
}

type IAudienceResolver interface {
	GetActorsFromAudience(store dal.IStore, urls []string) ([]*dal.Actor, error)
	PrepareDeliveriesAndInboxItems(store dal.IStore, recipients []Recipient, kind string) (
		inboxItems []*dal.InboxItem, deliveries []*dal.Delivery, urls []string, err error)
}

type audienceResolver struct {
	logger shared.ILogger
}

func NewAudienceResolver(logger shared.ILogger) IAudienceResolver {
	return &audienceResolver{logger}
}

// GetActorsFromAudience returns the actors that are members of the collections named in urls.
// A URL may be an actor's own id, or the followers collection of an actor or a library.
// URLs that match nothing are dropped.
func (ar *audienceResolver) GetActorsFromAudience(store dal.IStore, urls []string) ([]*dal.Actor, error) {
	var filtered []string
	for _, url := range urls {
		if shared.IsPublicAddress(url) {
			continue
		}
		filtered = append(filtered, url)
	}
	if len(filtered) == 0 {
		return []*dal.Actor{}, nil
	}
	return store.GetActorsFromAudience(filtered)
}

// PrepareDeliveriesAndInboxItems splits recipients into local inbox items and remote deliveries.
// Inbox items and deliveries are not yet bound to an activity. The returned urls replace the
// recipients in the activity's payload.
func (ar *audienceResolver) PrepareDeliveriesAndInboxItems(
	store dal.IStore,
	recipients []Recipient,
	kind string,
) (inboxItems []*dal.InboxItem, deliveries []*dal.Delivery, urls []string, err error) {

	localIds := map[int64]struct{}{}
	remoteInboxes := map[string]struct{}{}
	urls = []string{}

	addActor := func(actor *dal.Actor) {
		if actor.IsLocal {
			if _, seen := localIds[actor.Id]; !seen {
				localIds[actor.Id] = struct{}{}
				inboxItems = append(inboxItems, &dal.InboxItem{ActorId: actor.Id, Type: kind})
			}
		} else {
			remoteInboxes[actor.DeliveryInbox()] = struct{}{}
		}
	}

	for _, r := range recipients {
		switch r.Kind {
		case RecipientActor:
			addActor(r.Actor)
			urls = append(urls, r.Actor.Fid)
		case RecipientPublic:
			urls = append(urls, shared.ActivityPublic)
		case RecipientFollowers:
			var followers []*dal.Actor
			if followers, err = store.GetApprovedFollowers(r.Target); err != nil {
				return nil, nil, nil, err
			}
			for _, actor := range followers {
				addActor(actor)
			}
			var collUrl string
			if collUrl, err = followersUrl(store, r.Target); err != nil {
				return nil, nil, nil, err
			}
			urls = append(urls, collUrl)
		}
	}

	inboxUrls := make([]string, 0, len(remoteInboxes))
	for url := range remoteInboxes {
		inboxUrls = append(inboxUrls, url)
	}
	sort.Strings(inboxUrls)
	for _, url := range inboxUrls {
		deliveries = append(deliveries, &dal.Delivery{InboxUrl: url})
	}
	return inboxItems, deliveries, urls, nil
}

// GetInboxUrls returns the sorted set of inboxes to deliver to for the actors,
// using the shared inbox where one is declared.
func GetInboxUrls(actors []*dal.Actor) []string {
	set := map[string]struct{}{}
	for _, actor := range actors {
		set[actor.DeliveryInbox()] = struct{}{}
	}
	res := make([]string, 0, len(set))
	for url := range set {
		res = append(res, url)
	}
	sort.Strings(res)
	return res
}
